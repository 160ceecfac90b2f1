package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"part-cost/core/types"
)

func sampleResult(total int64) *types.PricingResult {
	amount := decimal.NewFromInt(total)
	return &types.PricingResult{
		Subtotal: amount,
		Total:    amount,
		Currency: types.CurrencyUSD,
		Breakdown: []types.PriceBreakdownItem{
			{Code: "material", Label: "Material", Amount: amount},
		},
		Version:   types.EngineVersion,
		InputHash: "abc123",
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	if _, ok, err := mem.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("empty cache Get = (%v, %v)", ok, err)
	}

	if err := mem.Set(ctx, "k1", sampleResult(100), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok, err := mem.Get(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("Get = (%v, %v)", ok, err)
	}
	if !got.Total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("total = %s, want 100", got.Total)
	}

	// Returned copies must not alias the stored value
	got.CacheHit = true
	again, _, _ := mem.Get(ctx, "k1")
	if again.CacheHit {
		t.Error("mutating a returned result leaked into the cache")
	}
}

func TestMemoryOverwrite(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	mem.Set(ctx, "k", sampleResult(1), 0)
	mem.Set(ctx, "k", sampleResult(2), 0)

	got, ok, _ := mem.Get(ctx, "k")
	if !ok || !got.Total.Equal(decimal.NewFromInt(2)) {
		t.Errorf("expected overwritten value 2, got %v", got)
	}
	if mem.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", mem.Len())
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	current := time.Now()
	mem.now = func() time.Time { return current }

	mem.Set(ctx, "short", sampleResult(1), time.Minute)
	mem.Set(ctx, "forever", sampleResult(2), 0)

	if _, ok, _ := mem.Get(ctx, "short"); !ok {
		t.Fatal("entry must be live before its ttl")
	}

	current = current.Add(2 * time.Minute)

	if _, ok, _ := mem.Get(ctx, "short"); ok {
		t.Error("entry must expire after its ttl")
	}
	if _, ok, _ := mem.Get(ctx, "forever"); !ok {
		t.Error("zero-ttl entry must never expire")
	}
}
