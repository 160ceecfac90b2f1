package factors

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"part-cost/core/hashing"
	"part-cost/core/types"
	"part-cost/internal/errors"
)

// MaterialFactor prices the raw stock: volume in cm³ times the material's
// per-cm³ rate. An unknown material code aborts the whole pricing call.
type MaterialFactor struct{}

// NewMaterialFactor creates the material cost factor.
func NewMaterialFactor() *MaterialFactor {
	return &MaterialFactor{}
}

// Code returns the factor identifier
func (f *MaterialFactor) Code() string { return "material" }

// Run computes the material line item.
func (f *MaterialFactor) Run(ctx context.Context, fc *Context) (*Result, error) {
	q := fc.Quote

	rate, ok := fc.Book.Materials[q.MaterialCode]
	if !ok {
		return nil, errors.UnknownCode("material", q.MaterialCode)
	}

	volumeCm3 := q.Geometry.VolumeMm3 / 1000.0
	amount := decimal.NewFromFloat(volumeCm3).
		Mul(decimal.NewFromFloat(rate.PricePerCm3)).
		Mul(decimal.NewFromFloat(fc.Book.Rate(q.Currency)))

	item := types.PriceBreakdownItem{
		Code:   "material",
		Label:  fmt.Sprintf("Material: %s", rate.Label),
		Amount: amount,
		Meta: map[string]any{
			"volumeCm3":   volumeCm3,
			"pricePerCm3": rate.PricePerCm3,
		},
	}

	trace := hashing.NewTraceEntry(f.Code(),
		map[string]any{
			"materialCode": q.MaterialCode,
			"volumeMm3":    q.Geometry.VolumeMm3,
		},
		map[string]any{
			"cost":      amount.InexactFloat64(),
			"volumeCm3": volumeCm3,
		},
		fmt.Sprintf("Priced %.0f cm³ of %s", volumeCm3, rate.Label),
	)

	return &Result{
		Items: []types.PriceBreakdownItem{item},
		Trace: []types.TraceEntry{trace},
	}, nil
}
