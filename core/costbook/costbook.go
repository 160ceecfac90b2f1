// Package costbook holds the static cost tables injected into the pricing
// engine at construction time. A Book is read-only for the lifetime of an
// orchestrator; nothing in the pipeline mutates it.
package costbook

import (
	"sort"

	"part-cost/core/hashing"
	"part-cost/core/types"
)

// MaterialRate is the price entry for one material.
type MaterialRate struct {
	// Label is a human-readable name
	Label string `json:"label"`

	// PricePerCm3 is the USD price per cubic centimeter of stock
	PricePerCm3 float64 `json:"price_per_cm3"`
}

// MachineProfile describes one process's machine economics.
type MachineProfile struct {
	// Label is a human-readable name
	Label string `json:"label"`

	// SetupMin is the fixed setup time in minutes
	SetupMin float64 `json:"setup_min"`

	// RunMinPerCm3 is the run time per cm³ of part volume, in minutes
	RunMinPerCm3 float64 `json:"run_min_per_cm3"`

	// HourlyRate is the USD machine rate per hour
	HourlyRate float64 `json:"hourly_rate"`
}

// FinishRate is the cost entry for one finish operation.
type FinishRate struct {
	// Label is a human-readable name
	Label string `json:"label"`

	// BaseCost is the fixed USD cost per order
	BaseCost float64 `json:"base_cost"`

	// PerCm2 is the USD cost per cm² of surface area
	PerCm2 float64 `json:"per_cm2"`
}

// RiskPolicy configures the risk uplift factor.
type RiskPolicy struct {
	// RatePerPoint is the uplift fraction per full risk point
	RatePerPoint float64 `json:"rate_per_point"`

	// Cap is the maximum uplift fraction
	Cap float64 `json:"cap"`
}

// QuantityBreak maps a minimum quantity to a discount fraction.
type QuantityBreak struct {
	MinQty      int     `json:"min_qty"`
	DiscountPct float64 `json:"discount_pct"`
}

// Book is the full static cost configuration.
type Book struct {
	// Materials maps material code to rate
	Materials map[string]MaterialRate `json:"materials"`

	// Machines maps process code to machine profile
	Machines map[types.ProcessCode]MachineProfile `json:"machines"`

	// Finishes maps finish code to rate
	Finishes map[string]FinishRate `json:"finishes"`

	// Risk is the risk uplift policy
	Risk RiskPolicy `json:"risk"`

	// QuantityBreaks holds discount tiers sorted by ascending MinQty
	QuantityBreaks []QuantityBreak `json:"quantity_breaks"`

	// LeadTimeMultipliers maps lead class to a price multiplier
	LeadTimeMultipliers map[string]float64 `json:"lead_time_multipliers"`

	// CurrencyRates maps currency to its per-USD conversion rate
	CurrencyRates map[types.Currency]float64 `json:"currency_rates"`
}

// Hash returns the content hash of the book. It feeds the cache key so that
// orchestrators holding different tables never share cache entries.
func (b *Book) Hash() string {
	return hashing.Hash(b)
}

// Rate returns the conversion rate for a currency, defaulting to 1 (USD).
func (b *Book) Rate(c types.Currency) float64 {
	if r, ok := b.CurrencyRates[c]; ok && r > 0 {
		return r
	}
	return 1
}

// BreakFor returns the highest quantity break the quantity meets, or false.
func (b *Book) BreakFor(quantity int) (QuantityBreak, bool) {
	var best QuantityBreak
	found := false
	for _, qb := range b.QuantityBreaks {
		if quantity >= qb.MinQty {
			best = qb
			found = true
		}
	}
	return best, found
}

// normalize sorts the quantity breaks so BreakFor scans in tier order.
func (b *Book) normalize() {
	sort.Slice(b.QuantityBreaks, func(i, j int) bool {
		return b.QuantityBreaks[i].MinQty < b.QuantityBreaks[j].MinQty
	})
}

// Default returns the built-in cost book.
func Default() *Book {
	b := &Book{
		Materials: map[string]MaterialRate{
			"aluminum_6061": {Label: "Aluminum 6061-T6", PricePerCm3: 0.35},
			"aluminum_7075": {Label: "Aluminum 7075-T6", PricePerCm3: 0.45},
			"stainless_304": {Label: "Stainless Steel 304", PricePerCm3: 0.85},
			"steel_1018":    {Label: "Mild Steel 1018", PricePerCm3: 0.40},
			"titanium":      {Label: "Titanium Grade 5", PricePerCm3: 2.50},
			"brass_360":     {Label: "Brass 360", PricePerCm3: 0.70},
			"abs":           {Label: "ABS", PricePerCm3: 0.12},
			"nylon_12":      {Label: "Nylon PA12", PricePerCm3: 0.18},
		},
		Machines: map[types.ProcessCode]MachineProfile{
			types.ProcessCNCMill3Ax:   {Label: "3-Axis CNC Mill", SetupMin: 30, RunMinPerCm3: 0.75, HourlyRate: 95},
			types.ProcessCNCMill5Ax:   {Label: "5-Axis CNC Mill", SetupMin: 45, RunMinPerCm3: 0.60, HourlyRate: 125},
			types.ProcessCNCTurn:      {Label: "CNC Lathe", SetupMin: 20, RunMinPerCm3: 0.50, HourlyRate: 85},
			types.ProcessInjMoldAlu:   {Label: "Injection Mold (Aluminum Tool)", SetupMin: 240, RunMinPerCm3: 0.05, HourlyRate: 150},
			types.ProcessInjMoldSteel: {Label: "Injection Mold (Steel Tool)", SetupMin: 480, RunMinPerCm3: 0.04, HourlyRate: 200},
			types.ProcessPrintSLA:     {Label: "SLA 3D Printer", SetupMin: 15, RunMinPerCm3: 1.50, HourlyRate: 75},
			types.ProcessPrintFDM:     {Label: "FDM 3D Printer", SetupMin: 10, RunMinPerCm3: 2.00, HourlyRate: 45},
			types.ProcessSheetLaser:   {Label: "Sheet Laser Cutter", SetupMin: 15, RunMinPerCm3: 0.30, HourlyRate: 110},
		},
		Finishes: map[string]FinishRate{
			"anodize":     {Label: "Anodize Type II", BaseCost: 25, PerCm2: 0.020},
			"powder_coat": {Label: "Powder Coat", BaseCost: 30, PerCm2: 0.015},
			"bead_blast":  {Label: "Bead Blast", BaseCost: 15, PerCm2: 0.010},
			"polish":      {Label: "Mirror Polish", BaseCost: 40, PerCm2: 0.030},
			"black_oxide": {Label: "Black Oxide", BaseCost: 20, PerCm2: 0.012},
			"passivate":   {Label: "Passivation", BaseCost: 18, PerCm2: 0.008},
		},
		Risk: RiskPolicy{RatePerPoint: 0.25, Cap: 0.15},
		QuantityBreaks: []QuantityBreak{
			{MinQty: 10, DiscountPct: 0.03},
			{MinQty: 25, DiscountPct: 0.05},
			{MinQty: 50, DiscountPct: 0.08},
			{MinQty: 100, DiscountPct: 0.12},
			{MinQty: 250, DiscountPct: 0.15},
			{MinQty: 500, DiscountPct: 0.18},
			{MinQty: 1000, DiscountPct: 0.22},
			{MinQty: 5000, DiscountPct: 0.28},
		},
		LeadTimeMultipliers: map[string]float64{
			"standard":  1.00,
			"expedited": 1.20,
			"rush":      1.45,
		},
		CurrencyRates: map[types.Currency]float64{
			types.CurrencyUSD: 1.00,
			types.CurrencyEUR: 0.92,
			types.CurrencyINR: 83.10,
		},
	}
	b.normalize()
	return b
}
