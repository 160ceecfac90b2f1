package factors

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"part-cost/core/hashing"
	"part-cost/core/types"
	"part-cost/internal/errors"
)

// FinishFactor prices each requested finish as a fixed base cost plus a
// per-cm² surface charge. An unknown finish code aborts the pricing call.
type FinishFactor struct{}

// NewFinishFactor creates the finish cost factor.
func NewFinishFactor() *FinishFactor {
	return &FinishFactor{}
}

// Code returns the factor identifier
func (f *FinishFactor) Code() string { return "finish" }

// Run emits one item per requested finish.
func (f *FinishFactor) Run(ctx context.Context, fc *Context) (*Result, error) {
	q := fc.Quote

	if len(q.Finishes) == 0 {
		trace := hashing.NewTraceEntry(f.Code(),
			map[string]any{"finishes": []string{}},
			map[string]any{"finishCount": 0},
			"No finishes requested",
		)
		return &Result{Trace: []types.TraceEntry{trace}}, nil
	}

	areaCm2 := q.Geometry.AreaMm2 / 100.0
	rate := decimal.NewFromFloat(fc.Book.Rate(q.Currency))

	var items []types.PriceBreakdownItem
	total := decimal.Zero
	for _, code := range q.Finishes {
		fr, ok := fc.Book.Finishes[code]
		if !ok {
			return nil, errors.UnknownCode("finish", code)
		}

		amount := decimal.NewFromFloat(fr.BaseCost + fr.PerCm2*areaCm2).Mul(rate)
		total = total.Add(amount)

		items = append(items, types.PriceBreakdownItem{
			Code:   "finish_" + code,
			Label:  fmt.Sprintf("Finish: %s", fr.Label),
			Amount: amount,
			Meta: map[string]any{
				"baseCost": fr.BaseCost,
				"perCm2":   fr.PerCm2,
				"areaCm2":  areaCm2,
			},
		})
	}

	trace := hashing.NewTraceEntry(f.Code(),
		map[string]any{
			"finishes": q.Finishes,
			"areaMm2":  q.Geometry.AreaMm2,
		},
		map[string]any{
			"finishCount": len(items),
			"totalCost":   total.InexactFloat64(),
		},
		fmt.Sprintf("Priced %d finish operations", len(items)),
	)

	return &Result{Items: items, Trace: []types.TraceEntry{trace}}, nil
}
