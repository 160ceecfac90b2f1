package costbook

import (
	"os"
	"path/filepath"
	"testing"

	"part-cost/core/types"
)

func TestDefaultBookIsComplete(t *testing.T) {
	book := Default()

	if len(book.Materials) == 0 {
		t.Fatal("default book has no materials")
	}
	if rate, ok := book.Materials["aluminum_6061"]; !ok || rate.PricePerCm3 != 0.35 {
		t.Errorf("aluminum_6061 rate = %+v", rate)
	}

	profiles := map[types.ProcessCode]float64{
		types.ProcessCNCMill3Ax:   95,
		types.ProcessCNCMill5Ax:   125,
		types.ProcessInjMoldSteel: 200,
		types.ProcessPrintSLA:     75,
	}
	for code, rate := range profiles {
		profile, ok := book.Machines[code]
		if !ok {
			t.Errorf("missing machine profile %s", code)
			continue
		}
		if profile.HourlyRate != rate {
			t.Errorf("%s hourly rate = %v, want %v", code, profile.HourlyRate, rate)
		}
	}

	if _, ok := book.Finishes["anodize"]; !ok {
		t.Error("missing anodize finish")
	}
	if book.Risk.RatePerPoint != 0.25 || book.Risk.Cap != 0.15 {
		t.Errorf("risk policy = %+v", book.Risk)
	}
}

func TestBreakFor(t *testing.T) {
	book := Default()

	tests := []struct {
		quantity int
		wantPct  float64
		wantHit  bool
	}{
		{1, 0, false},
		{9, 0, false},
		{10, 0.03, true},
		{49, 0.05, true},
		{100, 0.12, true},
		{10000, 0.28, true},
	}
	for _, tt := range tests {
		qb, ok := book.BreakFor(tt.quantity)
		if ok != tt.wantHit {
			t.Errorf("BreakFor(%d) hit = %v, want %v", tt.quantity, ok, tt.wantHit)
			continue
		}
		if ok && qb.DiscountPct != tt.wantPct {
			t.Errorf("BreakFor(%d) pct = %v, want %v", tt.quantity, qb.DiscountPct, tt.wantPct)
		}
	}
}

func TestRateDefaultsToUSD(t *testing.T) {
	book := Default()
	if got := book.Rate(types.CurrencyUSD); got != 1 {
		t.Errorf("USD rate = %v", got)
	}
	if got := book.Rate(types.CurrencyEUR); got != 0.92 {
		t.Errorf("EUR rate = %v", got)
	}
	if got := book.Rate(types.Currency("GBP")); got != 1 {
		t.Errorf("unlisted currency must fall back to 1, got %v", got)
	}
}

func TestBookHashTracksContent(t *testing.T) {
	a := Default()
	b := Default()
	if a.Hash() != b.Hash() {
		t.Error("identical books must hash identically")
	}

	b.Materials["aluminum_6061"] = MaterialRate{Label: "Aluminum 6061-T6", PricePerCm3: 0.99}
	if a.Hash() == b.Hash() {
		t.Error("changed material rate must change the book hash")
	}
}

const testBookHCL = `
material "aluminum_6061" {
  label         = "Aluminum 6061 (negotiated)"
  price_per_cm3 = 0.30
}

material "peek" {
  price_per_cm3 = 4.20
}

machine "CNC-MILL-3AX" {
  label           = "3-Axis Mill (night shift)"
  setup_min       = 25
  run_min_per_cm3 = 0.70
  hourly_rate     = 80
}

finish "ceramic_coat" {
  base_cost = 55
  per_cm2   = 0.040
}

risk {
  rate_per_point = 0.30
  cap            = 0.20
}

quantity_break {
  min_qty      = 100
  discount_pct = 0.10
}

quantity_break {
  min_qty      = 20
  discount_pct = 0.04
}

leadtime "rush" {
  multiplier = 1.60
}

currency "EUR" {
  rate = 0.95
}
`

func TestLoadHCLOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.hcl")
	if err := os.WriteFile(path, []byte(testBookHCL), 0o644); err != nil {
		t.Fatal(err)
	}

	book, err := LoadHCL(path)
	if err != nil {
		t.Fatalf("LoadHCL failed: %v", err)
	}

	if rate := book.Materials["aluminum_6061"]; rate.PricePerCm3 != 0.30 {
		t.Errorf("overridden aluminum rate = %v, want 0.30", rate.PricePerCm3)
	}
	if rate := book.Materials["peek"]; rate.PricePerCm3 != 4.20 || rate.Label != "peek" {
		t.Errorf("new material = %+v", rate)
	}
	// Untouched defaults survive
	if rate := book.Materials["titanium"]; rate.PricePerCm3 != 2.50 {
		t.Errorf("titanium rate = %v, want default 2.50", rate.PricePerCm3)
	}

	if profile := book.Machines[types.ProcessCNCMill3Ax]; profile.HourlyRate != 80 {
		t.Errorf("overridden 3-axis rate = %v, want 80", profile.HourlyRate)
	}
	if profile := book.Machines[types.ProcessCNCMill5Ax]; profile.HourlyRate != 125 {
		t.Errorf("5-axis rate = %v, want default 125", profile.HourlyRate)
	}

	if finish := book.Finishes["ceramic_coat"]; finish.BaseCost != 55 {
		t.Errorf("new finish = %+v", finish)
	}
	if book.Risk.RatePerPoint != 0.30 || book.Risk.Cap != 0.20 {
		t.Errorf("risk policy = %+v", book.Risk)
	}

	// Quantity breaks replace wholesale and come back sorted
	if len(book.QuantityBreaks) != 2 {
		t.Fatalf("expected 2 quantity breaks, got %d", len(book.QuantityBreaks))
	}
	if book.QuantityBreaks[0].MinQty != 20 || book.QuantityBreaks[1].MinQty != 100 {
		t.Errorf("breaks not sorted: %+v", book.QuantityBreaks)
	}
	if _, ok := book.BreakFor(10); ok {
		t.Error("default 10+ break must be gone after replacement")
	}

	if book.LeadTimeMultipliers["rush"] != 1.60 {
		t.Errorf("rush multiplier = %v, want 1.60", book.LeadTimeMultipliers["rush"])
	}
	if book.LeadTimeMultipliers["standard"] != 1.00 {
		t.Errorf("standard multiplier = %v, want default 1.00", book.LeadTimeMultipliers["standard"])
	}
	if book.CurrencyRates[types.CurrencyEUR] != 0.95 {
		t.Errorf("EUR rate = %v, want 0.95", book.CurrencyRates[types.CurrencyEUR])
	}
}

func TestLoadHCLRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcl")
	if err := os.WriteFile(path, []byte(`material "x" {`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadHCL(path); err == nil {
		t.Fatal("expected parse error")
	}
}
