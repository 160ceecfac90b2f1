package factors

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"part-cost/core/hashing"
	"part-cost/core/tolerance"
	"part-cost/core/types"
)

// ToleranceFactor prices tightened tolerances as a percentage of the running
// subtotal plus a setup-time addition. It never fails: a missing or
// unresolvable descriptor degrades to a trace note with no item.
type ToleranceFactor struct{}

// NewToleranceFactor creates the tolerance adjustment factor.
func NewToleranceFactor() *ToleranceFactor {
	return &ToleranceFactor{}
}

// Code returns the factor identifier
func (f *ToleranceFactor) Code() string { return "tolerance" }

// Run computes the tolerance adjustment, if any.
func (f *ToleranceFactor) Run(ctx context.Context, fc *Context) (*Result, error) {
	q := fc.Quote

	if q.Tolerance == nil {
		trace := hashing.NewTraceEntry(f.Code(),
			map[string]any{"tolerance": nil},
			map[string]any{"toleranceMultiplier": 1.0},
			"No tolerance specified, using default",
		)
		return &Result{Trace: []types.TraceEntry{trace}}, nil
	}

	spec := q.Tolerance
	band := bandFromSpec(spec)
	category := categoryFromSpec(spec)

	if band == "" {
		trace := hashing.NewTraceEntry(f.Code(),
			map[string]any{"tolerance": spec},
			map[string]any{
				"toleranceMultiplier": 1.0,
				"warning":             "Unknown tolerance specification",
			},
			"Unable to determine tolerance band, skipping cost adjustment",
		)
		return &Result{Trace: []types.TraceEntry{trace}}, nil
	}

	mapping, ok := tolerance.MappingFor(band, category)
	if !ok {
		trace := hashing.NewTraceEntry(f.Code(),
			map[string]any{"tolerance": spec, "band": band, "category": category},
			map[string]any{
				"toleranceMultiplier": 1.0,
				"warning":             "No cost mapping found",
			},
			fmt.Sprintf("No cost mapping for band=%s, category=%s", band, category),
		)
		return &Result{Trace: []types.TraceEntry{trace}}, nil
	}

	featureMultiplier := tolerance.FeatureMultiplier(spec.FeatureCategory)
	totalBase := mapping.BaseMultiplier * featureMultiplier
	totalSetup := mapping.SetupMultiplier * featureMultiplier

	baseAddition := fc.Subtotal.Mul(decimal.NewFromFloat(totalBase - 1.0))

	// The setup addition is the extra setup time priced at the machine's
	// hourly rate; it is an absolute cost, so it carries the currency
	// conversion itself.
	setupAddition := decimal.Zero
	if profile, ok := fc.Book.Machines[q.ProcessCode]; ok {
		setupCost := profile.SetupMin / 60.0 * profile.HourlyRate
		setupAddition = decimal.NewFromFloat(setupCost * (totalSetup - 1.0)).
			Mul(decimal.NewFromFloat(fc.Book.Rate(q.Currency)))
	}

	total := baseAddition.Add(setupAddition)

	var items []types.PriceBreakdownItem
	if total.IsPositive() {
		label := fmt.Sprintf("Tolerance: %s %s", band, category)
		if spec.FeatureCategory != "" {
			label += fmt.Sprintf(" (%s)", spec.FeatureCategory)
		}
		items = append(items, types.PriceBreakdownItem{
			Code:   "tolerance_adjustment",
			Label:  label,
			Amount: total,
			Meta: map[string]any{
				"band":            band,
				"category":        category,
				"featureCategory": spec.FeatureCategory,
				"baseMultiplier":  totalBase,
				"setupMultiplier": totalSetup,
				"baseAddition":    baseAddition.InexactFloat64(),
				"setupAddition":   setupAddition.InexactFloat64(),
			},
		})
	}

	note := fmt.Sprintf("Tolerance %s/%s requires no additional cost", band, category)
	if total.IsPositive() {
		note = fmt.Sprintf("Applied %s %s tolerance costing $%s", band, category, total.StringFixed(2))
	}

	trace := hashing.NewTraceEntry(f.Code(),
		map[string]any{
			"tolerance":         spec,
			"band":              band,
			"category":          category,
			"featureMultiplier": featureMultiplier,
		},
		map[string]any{
			"totalToleranceCost": total.InexactFloat64(),
			"totalBase":          totalBase,
			"totalSetup":         totalSetup,
		},
		note,
	)

	return &Result{Items: items, Trace: []types.TraceEntry{trace}}, nil
}

// bandFromSpec resolves the tolerance band from whichever source the
// descriptor carries. An empty result means the band is unresolvable.
func bandFromSpec(spec *types.ToleranceSpec) tolerance.Band {
	switch spec.Source {
	case types.ToleranceSourceBand:
		return tolerance.Band(spec.Band)
	case types.ToleranceSourceMicrometers:
		return tolerance.BandFromMicrometers(spec.ValueUm)
	case types.ToleranceSourceISOClass:
		return tolerance.ISOClassToBand[spec.ISOClass]
	case types.ToleranceSourceClassName:
		return tolerance.ClassNameToBand[spec.ClassName]
	default:
		return ""
	}
}

func categoryFromSpec(spec *types.ToleranceSpec) tolerance.Category {
	if spec.Category != "" {
		return tolerance.Category(spec.Category)
	}
	return tolerance.ResolveCategory(spec.FeatureCategory, tolerance.CategoryLinear)
}
