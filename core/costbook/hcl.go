// Package costbook - HCL cost-book loader
package costbook

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"part-cost/core/types"
	"part-cost/internal/errors"
)

// hclBook is the gohcl schema of a cost-book file. Every block is optional;
// present blocks override the matching default entries.
type hclBook struct {
	Materials      []hclMaterial      `hcl:"material,block"`
	Machines       []hclMachine       `hcl:"machine,block"`
	Finishes       []hclFinish        `hcl:"finish,block"`
	Risk           *hclRisk           `hcl:"risk,block"`
	QuantityBreaks []hclQuantityBreak `hcl:"quantity_break,block"`
	LeadTimes      []hclLeadTime      `hcl:"leadtime,block"`
	Currencies     []hclCurrency      `hcl:"currency,block"`
}

type hclMaterial struct {
	Code        string  `hcl:"code,label"`
	Label       string  `hcl:"label,optional"`
	PricePerCm3 float64 `hcl:"price_per_cm3"`
}

type hclMachine struct {
	Process      string  `hcl:"process,label"`
	Label        string  `hcl:"label,optional"`
	SetupMin     float64 `hcl:"setup_min"`
	RunMinPerCm3 float64 `hcl:"run_min_per_cm3"`
	HourlyRate   float64 `hcl:"hourly_rate"`
}

type hclFinish struct {
	Code     string  `hcl:"code,label"`
	Label    string  `hcl:"label,optional"`
	BaseCost float64 `hcl:"base_cost"`
	PerCm2   float64 `hcl:"per_cm2,optional"`
}

type hclRisk struct {
	RatePerPoint float64 `hcl:"rate_per_point"`
	Cap          float64 `hcl:"cap"`
}

type hclQuantityBreak struct {
	MinQty      int     `hcl:"min_qty"`
	DiscountPct float64 `hcl:"discount_pct"`
}

type hclLeadTime struct {
	Class      string  `hcl:"class,label"`
	Multiplier float64 `hcl:"multiplier"`
}

type hclCurrency struct {
	Code string  `hcl:"code,label"`
	Rate float64 `hcl:"rate"`
}

// LoadHCL parses a cost-book file and overlays it on the defaults.
// Quantity breaks, when present, replace the default tiers wholesale so a
// book can remove tiers as well as add them.
func LoadHCL(path string) (*Book, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Config("parse cost book", diags)
	}

	var raw hclBook
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, errors.Config("decode cost book", diags)
	}

	book := Default()

	for _, m := range raw.Materials {
		entry := MaterialRate{Label: m.Label, PricePerCm3: m.PricePerCm3}
		if entry.Label == "" {
			entry.Label = m.Code
		}
		book.Materials[m.Code] = entry
	}

	for _, m := range raw.Machines {
		entry := MachineProfile{
			Label:        m.Label,
			SetupMin:     m.SetupMin,
			RunMinPerCm3: m.RunMinPerCm3,
			HourlyRate:   m.HourlyRate,
		}
		if entry.Label == "" {
			entry.Label = m.Process
		}
		book.Machines[types.ProcessCode(m.Process)] = entry
	}

	for _, f := range raw.Finishes {
		entry := FinishRate{Label: f.Label, BaseCost: f.BaseCost, PerCm2: f.PerCm2}
		if entry.Label == "" {
			entry.Label = f.Code
		}
		book.Finishes[f.Code] = entry
	}

	if raw.Risk != nil {
		book.Risk = RiskPolicy{RatePerPoint: raw.Risk.RatePerPoint, Cap: raw.Risk.Cap}
	}

	if len(raw.QuantityBreaks) > 0 {
		book.QuantityBreaks = book.QuantityBreaks[:0]
		for _, qb := range raw.QuantityBreaks {
			book.QuantityBreaks = append(book.QuantityBreaks, QuantityBreak{
				MinQty:      qb.MinQty,
				DiscountPct: qb.DiscountPct,
			})
		}
	}

	for _, lt := range raw.LeadTimes {
		book.LeadTimeMultipliers[lt.Class] = lt.Multiplier
	}

	for _, c := range raw.Currencies {
		book.CurrencyRates[types.Currency(c.Code)] = c.Rate
	}

	book.normalize()
	return book, nil
}
