// Package factors - per-factor unit tests
package factors

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"part-cost/core/costbook"
	"part-cost/core/types"
)

func testContext(quote *types.QuoteConfig, subtotal float64) *Context {
	return &Context{
		Quote:    quote,
		Book:     costbook.Default(),
		Subtotal: decimal.NewFromFloat(subtotal),
	}
}

func testQuote() *types.QuoteConfig {
	return &types.QuoteConfig{
		ID:           "quote-factors",
		ProcessCode:  types.ProcessCNCMill3Ax,
		MaterialCode: "aluminum_6061",
		Quantity:     10,
		Geometry: types.Geometry{
			VolumeMm3: 100000,
			AreaMm2:   50000,
			BboxMm:    [3]float64{100, 50, 20},
		},
		Currency: types.CurrencyUSD,
	}
}

func TestMaterialFactorPricesVolume(t *testing.T) {
	result, err := NewMaterialFactor().Run(context.Background(), testContext(testQuote(), 0))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	item := result.Items[0]

	// 100 cm³ × $0.35/cm³
	want := decimal.NewFromFloat(35)
	if !item.Amount.Equal(want) {
		t.Errorf("amount = %s, want %s", item.Amount, want)
	}
	if item.Meta["volumeCm3"] != 100.0 {
		t.Errorf("meta.volumeCm3 = %v, want 100", item.Meta["volumeCm3"])
	}
	if len(result.Trace) != 1 || result.Trace[0].Factor != "material" {
		t.Errorf("trace = %+v", result.Trace)
	}
}

func TestMaterialFactorAppliesCurrencyRate(t *testing.T) {
	quote := testQuote()
	quote.Currency = types.CurrencyEUR

	result, err := NewMaterialFactor().Run(context.Background(), testContext(quote, 0))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// 35 USD × 0.92
	want := decimal.NewFromFloat(32.2)
	if !result.Items[0].Amount.Round(4).Equal(want) {
		t.Errorf("amount = %s, want %s", result.Items[0].Amount, want)
	}
}

func TestMaterialFactorUnknownCode(t *testing.T) {
	quote := testQuote()
	quote.MaterialCode = "kryptonite"

	_, err := NewMaterialFactor().Run(context.Background(), testContext(quote, 0))
	if err == nil || !strings.Contains(err.Error(), "Unknown material code") {
		t.Errorf("expected unknown material error, got %v", err)
	}
}

func TestMachineTimeFactorFormula(t *testing.T) {
	result, err := NewMachineTimeFactor().Run(context.Background(), testContext(testQuote(), 0))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	item := result.Items[0]
	// setup 30 + 100 cm³ × 0.75 = 105 min; 105/60 × $95 = 166.25
	want := decimal.NewFromFloat(166.25)
	if !item.Amount.Round(4).Equal(want) {
		t.Errorf("amount = %s, want %s", item.Amount, want)
	}
	if item.Meta["totalMin"] != 105.0 {
		t.Errorf("meta.totalMin = %v, want 105", item.Meta["totalMin"])
	}
	if item.Meta["hourlyRate"] != 95.0 {
		t.Errorf("meta.hourlyRate = %v, want 95", item.Meta["hourlyRate"])
	}
}

func TestMachineTimeFactorUnknownProcess(t *testing.T) {
	quote := testQuote()
	quote.ProcessCode = "EDM-WIRE"

	_, err := NewMachineTimeFactor().Run(context.Background(), testContext(quote, 0))
	if err == nil || !strings.Contains(err.Error(), "Unknown process code") {
		t.Errorf("expected unknown process error, got %v", err)
	}
}

func TestToleranceFactorNoSpec(t *testing.T) {
	result, err := NewToleranceFactor().Run(context.Background(), testContext(testQuote(), 500))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("expected no items without a tolerance, got %d", len(result.Items))
	}
	if len(result.Trace) != 1 {
		t.Fatalf("expected 1 trace entry, got %d", len(result.Trace))
	}
	if !strings.Contains(result.Trace[0].Note, "No tolerance specified") {
		t.Errorf("note = %q", result.Trace[0].Note)
	}
}

func TestToleranceFactorPrecisionBand(t *testing.T) {
	quote := testQuote()
	quote.Tolerance = &types.ToleranceSpec{
		Source: types.ToleranceSourceBand,
		Band:   "precision",
	}

	result, err := NewToleranceFactor().Run(context.Background(), testContext(quote, 1000))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}

	item := result.Items[0]
	// base: 1000 × (1.80−1) = 800; setup: 30/60 × 95 × (1.40−1) = 19
	want := decimal.NewFromFloat(819)
	if !item.Amount.Round(4).Equal(want) {
		t.Errorf("amount = %s, want %s", item.Amount, want)
	}
	if item.Code != "tolerance_adjustment" {
		t.Errorf("code = %q", item.Code)
	}
}

func TestToleranceFactorFeatureMultiplier(t *testing.T) {
	quote := testQuote()
	quote.Tolerance = &types.ToleranceSpec{
		Source:          types.ToleranceSourceBand,
		Band:            "fine",
		FeatureCategory: "thread",
	}

	result, err := NewToleranceFactor().Run(context.Background(), testContext(quote, 1000))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	item := result.Items[0]
	// thread multiplier 1.30: base 1000 × (1.30×1.30 − 1) = 690;
	// setup 47.5 × (1.15×1.30 − 1) = 23.5125
	want := decimal.NewFromFloat(713.5125)
	if !item.Amount.Round(6).Equal(want) {
		t.Errorf("amount = %s, want %s", item.Amount, want)
	}
}

func TestToleranceFactorCoarseBandCostsNothing(t *testing.T) {
	quote := testQuote()
	quote.Tolerance = &types.ToleranceSpec{
		Source:  types.ToleranceSourceMicrometers,
		ValueUm: 150,
	}

	result, err := NewToleranceFactor().Run(context.Background(), testContext(quote, 1000))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// coarse/linear multipliers are 1.0, so no cost and no item
	if len(result.Items) != 0 {
		t.Errorf("expected no items for coarse band, got %+v", result.Items)
	}
}

func TestToleranceFactorUnknownISOClassIsSoft(t *testing.T) {
	quote := testQuote()
	quote.Tolerance = &types.ToleranceSpec{
		Source:   types.ToleranceSourceISOClass,
		ISOClass: "ISO0000-x",
	}

	result, err := NewToleranceFactor().Run(context.Background(), testContext(quote, 1000))
	if err != nil {
		t.Fatalf("unresolvable tolerance must not fail: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("expected no items, got %d", len(result.Items))
	}
}

func TestFeatureFactorEmitsAdjustments(t *testing.T) {
	result, err := NewFeatureFactor().Run(context.Background(), testContext(testQuote(), 1000))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The reference block geometry infers holes, bosses, and an undercut,
	// so at minimum the efficiency and undercut adjustments fire.
	var codes []string
	for _, item := range result.Items {
		codes = append(codes, item.Code)
		if item.Meta["featureCount"] == nil {
			t.Errorf("item %s missing featureCount meta", item.Code)
		}
	}
	if !contains(codes, "feature_efficiency") {
		t.Errorf("missing feature_efficiency in %v", codes)
	}
	if !contains(codes, "undercut_penalty") {
		t.Errorf("missing undercut_penalty in %v", codes)
	}
	if len(result.Trace) != 1 {
		t.Fatalf("expected 1 trace entry, got %d", len(result.Trace))
	}
}

func TestFeatureFactorZeroSubtotalDropsItems(t *testing.T) {
	// Percentage adjustments on a zero subtotal are all below one cent
	result, err := NewFeatureFactor().Run(context.Background(), testContext(testQuote(), 0))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("expected no items at zero subtotal, got %d", len(result.Items))
	}
	if len(result.Trace) != 1 {
		t.Errorf("trace entry must still be emitted")
	}
}

func TestFinishFactorMultipleFinishes(t *testing.T) {
	quote := testQuote()
	quote.Finishes = []string{"anodize", "bead_blast"}

	result, err := NewFinishFactor().Run(context.Background(), testContext(quote, 0))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}

	// anodize: 25 + 0.020 × 500 cm² = 35
	if !result.Items[0].Amount.Round(4).Equal(decimal.NewFromFloat(35)) {
		t.Errorf("anodize amount = %s, want 35", result.Items[0].Amount)
	}
	if result.Items[0].Code != "finish_anodize" || result.Items[1].Code != "finish_bead_blast" {
		t.Errorf("codes = %s, %s", result.Items[0].Code, result.Items[1].Code)
	}
	if len(result.Trace) != 1 {
		t.Errorf("expected a single trace entry for the factor, got %d", len(result.Trace))
	}
}

func TestFinishFactorUnknownCode(t *testing.T) {
	quote := testQuote()
	quote.Finishes = []string{"anodize", "gold_plate"}

	_, err := NewFinishFactor().Run(context.Background(), testContext(quote, 0))
	if err == nil || !strings.Contains(err.Error(), "Unknown finish code") {
		t.Errorf("expected unknown finish error, got %v", err)
	}
}

func TestRiskFactorCapsUplift(t *testing.T) {
	quote := testQuote()
	quote.RiskScore = 0.9 // 0.9 × 0.25 = 0.225, capped at 0.15

	result, err := NewRiskFactor().Run(context.Background(), testContext(quote, 1000))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	item := result.Items[0]
	if !item.Amount.Round(4).Equal(decimal.NewFromFloat(150)) {
		t.Errorf("amount = %s, want 150", item.Amount)
	}
	if item.Meta["upliftPct"] != 0.15 {
		t.Errorf("meta.upliftPct = %v, want 0.15", item.Meta["upliftPct"])
	}
}

func TestRiskFactorZeroScore(t *testing.T) {
	result, err := NewRiskFactor().Run(context.Background(), testContext(testQuote(), 1000))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("expected no items at zero risk, got %d", len(result.Items))
	}
}

func TestQuantityFactorBelowFirstBreak(t *testing.T) {
	quote := testQuote()
	quote.Quantity = 5

	result, err := NewQuantityFactor().Run(context.Background(), testContext(quote, 1000))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("expected no discount below the first break, got %d items", len(result.Items))
	}
}

func TestQuantityFactorAppliesHighestBreak(t *testing.T) {
	quote := testQuote()
	quote.Quantity = 120

	result, err := NewQuantityFactor().Run(context.Background(), testContext(quote, 1000))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	item := result.Items[0]
	// 120 parts meets the 100+ break: −12% of 1000
	if !item.Amount.Round(4).Equal(decimal.NewFromFloat(-120)) {
		t.Errorf("amount = %s, want -120", item.Amount)
	}
	if item.Meta["minQty"] != 100 {
		t.Errorf("meta.minQty = %v, want 100", item.Meta["minQty"])
	}
}

func TestLeadTimeFactor(t *testing.T) {
	tests := []struct {
		name      string
		leadClass string
		subtotal  float64
		wantItems int
		wantAmt   float64
	}{
		{"empty class", "", 1000, 0, 0},
		{"standard class", "standard", 1000, 0, 0},
		{"expedited", "expedited", 1000, 1, 200},
		{"rush", "rush", 1000, 1, 450},
		{"unknown class is soft", "teleport", 1000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := testQuote()
			quote.LeadClass = tt.leadClass

			result, err := NewLeadTimeFactor().Run(context.Background(), testContext(quote, tt.subtotal))
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if len(result.Items) != tt.wantItems {
				t.Fatalf("items = %d, want %d", len(result.Items), tt.wantItems)
			}
			if tt.wantItems == 1 {
				want := decimal.NewFromFloat(tt.wantAmt)
				if !result.Items[0].Amount.Round(4).Equal(want) {
					t.Errorf("amount = %s, want %s", result.Items[0].Amount, want)
				}
			}
		})
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
