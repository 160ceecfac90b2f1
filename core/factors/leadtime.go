package factors

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"part-cost/core/hashing"
	"part-cost/core/types"
)

// LeadTimeFactor applies the expedite surcharge for non-standard lead
// classes. It runs last so its percentage covers every prior contribution.
// Unknown classes degrade to a trace note.
type LeadTimeFactor struct{}

// NewLeadTimeFactor creates the lead-time surcharge factor.
func NewLeadTimeFactor() *LeadTimeFactor {
	return &LeadTimeFactor{}
}

// Code returns the factor identifier
func (f *LeadTimeFactor) Code() string { return "leadtime" }

// Run computes the lead-time surcharge, if any.
func (f *LeadTimeFactor) Run(ctx context.Context, fc *Context) (*Result, error) {
	q := fc.Quote

	if q.LeadClass == "" || q.LeadClass == "standard" {
		trace := hashing.NewTraceEntry(f.Code(),
			map[string]any{"leadClass": q.LeadClass},
			map[string]any{"multiplier": 1.0},
			"Standard lead time, no surcharge",
		)
		return &Result{Trace: []types.TraceEntry{trace}}, nil
	}

	multiplier, ok := fc.Book.LeadTimeMultipliers[q.LeadClass]
	if !ok {
		trace := hashing.NewTraceEntry(f.Code(),
			map[string]any{"leadClass": q.LeadClass},
			map[string]any{
				"multiplier": 1.0,
				"warning":    "Unknown lead class",
			},
			fmt.Sprintf("Unknown lead class %q, no surcharge applied", q.LeadClass),
		)
		return &Result{Trace: []types.TraceEntry{trace}}, nil
	}

	if multiplier <= 1 {
		trace := hashing.NewTraceEntry(f.Code(),
			map[string]any{"leadClass": q.LeadClass},
			map[string]any{"multiplier": multiplier},
			fmt.Sprintf("Lead class %q carries no surcharge", q.LeadClass),
		)
		return &Result{Trace: []types.TraceEntry{trace}}, nil
	}

	amount := fc.Subtotal.Mul(decimal.NewFromFloat(multiplier - 1.0))

	item := types.PriceBreakdownItem{
		Code:   "leadtime_adjustment",
		Label:  fmt.Sprintf("Lead Time: %s (×%.2f)", q.LeadClass, multiplier),
		Amount: amount,
		Meta: map[string]any{
			"leadClass":  q.LeadClass,
			"multiplier": multiplier,
		},
	}

	trace := hashing.NewTraceEntry(f.Code(),
		map[string]any{"leadClass": q.LeadClass},
		map[string]any{
			"multiplier": multiplier,
			"surcharge":  amount.InexactFloat64(),
		},
		fmt.Sprintf("Applied %s surcharge", q.LeadClass),
	)

	return &Result{
		Items: []types.PriceBreakdownItem{item},
		Trace: []types.TraceEntry{trace},
	}, nil
}
