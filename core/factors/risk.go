package factors

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"part-cost/core/hashing"
	"part-cost/core/types"
)

// RiskFactor applies a capped uplift proportional to the quote's DFM risk
// score. A zero score emits no item.
type RiskFactor struct{}

// NewRiskFactor creates the risk uplift factor.
func NewRiskFactor() *RiskFactor {
	return &RiskFactor{}
}

// Code returns the factor identifier
func (f *RiskFactor) Code() string { return "risk" }

// Run computes the risk uplift, if any.
func (f *RiskFactor) Run(ctx context.Context, fc *Context) (*Result, error) {
	q := fc.Quote

	if q.RiskScore <= 0 {
		trace := hashing.NewTraceEntry(f.Code(),
			map[string]any{"riskScore": q.RiskScore},
			map[string]any{"upliftPct": 0.0},
			"No risk uplift applied",
		)
		return &Result{Trace: []types.TraceEntry{trace}}, nil
	}

	policy := fc.Book.Risk
	upliftPct := math.Min(q.RiskScore*policy.RatePerPoint, policy.Cap)
	amount := fc.Subtotal.Mul(decimal.NewFromFloat(upliftPct))

	item := types.PriceBreakdownItem{
		Code:   "risk_uplift",
		Label:  fmt.Sprintf("Risk Uplift (%.1f%%)", upliftPct*100),
		Amount: amount,
		Meta: map[string]any{
			"riskScore": q.RiskScore,
			"upliftPct": upliftPct,
		},
	}

	trace := hashing.NewTraceEntry(f.Code(),
		map[string]any{"riskScore": q.RiskScore},
		map[string]any{
			"upliftPct": upliftPct,
			"cost":      amount.InexactFloat64(),
		},
		fmt.Sprintf("Applied %.1f%% risk uplift", upliftPct*100),
	)

	return &Result{
		Items: []types.PriceBreakdownItem{item},
		Trace: []types.TraceEntry{trace},
	}, nil
}
