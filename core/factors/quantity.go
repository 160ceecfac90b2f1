package factors

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"part-cost/core/hashing"
	"part-cost/core/types"
)

// QuantityFactor applies the highest quantity break the requested quantity
// meets, as a negative line item against the running subtotal.
type QuantityFactor struct{}

// NewQuantityFactor creates the quantity discount factor.
func NewQuantityFactor() *QuantityFactor {
	return &QuantityFactor{}
}

// Code returns the factor identifier
func (f *QuantityFactor) Code() string { return "quantity" }

// Run computes the quantity discount, if a break applies.
func (f *QuantityFactor) Run(ctx context.Context, fc *Context) (*Result, error) {
	q := fc.Quote

	qb, ok := fc.Book.BreakFor(q.Quantity)
	if !ok {
		trace := hashing.NewTraceEntry(f.Code(),
			map[string]any{"quantity": q.Quantity},
			map[string]any{"discountPct": 0.0},
			"Quantity below first discount break",
		)
		return &Result{Trace: []types.TraceEntry{trace}}, nil
	}

	amount := fc.Subtotal.Mul(decimal.NewFromFloat(qb.DiscountPct)).Neg()

	item := types.PriceBreakdownItem{
		Code:   "quantity_discount",
		Label:  fmt.Sprintf("Quantity Discount (%d+ parts, %.0f%%)", qb.MinQty, qb.DiscountPct*100),
		Amount: amount,
		Meta: map[string]any{
			"quantity":    q.Quantity,
			"minQty":      qb.MinQty,
			"discountPct": qb.DiscountPct,
		},
	}

	trace := hashing.NewTraceEntry(f.Code(),
		map[string]any{"quantity": q.Quantity},
		map[string]any{
			"minQty":      qb.MinQty,
			"discountPct": qb.DiscountPct,
			"discount":    amount.InexactFloat64(),
		},
		fmt.Sprintf("Applied %.0f%% discount at the %d+ break", qb.DiscountPct*100, qb.MinQty),
	)

	return &Result{
		Items: []types.PriceBreakdownItem{item},
		Trace: []types.TraceEntry{trace},
	}, nil
}
