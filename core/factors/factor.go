// Package factors holds the pluggable cost contributors of the pricing
// pipeline. Each factor reads the quote, the cost book, and the running
// subtotal accumulated by its predecessors, and emits zero or more priced
// line items plus one audit trace entry.
//
// Factor order is part of the pricing contract: percentage-based factors
// (tolerance, feature, risk, quantity, leadtime) compute against the running
// subtotal, so reordering them changes amounts.
package factors

import (
	"context"

	"github.com/shopspring/decimal"

	"part-cost/core/costbook"
	"part-cost/core/types"
)

// Context is the per-invocation input handed to a factor. The quote and the
// book are read-only; Subtotal is the sum of every amount emitted by factors
// that ran earlier in the chain.
type Context struct {
	Quote    *types.QuoteConfig
	Book     *costbook.Book
	Subtotal decimal.Decimal
}

// Result is one factor's contribution.
type Result struct {
	Items []types.PriceBreakdownItem
	Trace []types.TraceEntry
}

// Total sums the result's item amounts.
func (r *Result) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.Amount)
	}
	return total
}

// Factor is the single capability every cost contributor implements.
// Hard-fail factors return an error on unknown codes; soft-fail factors
// degrade to an empty item list and an explanatory trace note.
type Factor interface {
	// Code is the stable factor identifier used in trace entries
	Code() string

	// Run computes the factor's items and trace for one pricing call
	Run(ctx context.Context, fc *Context) (*Result, error)
}

// DefaultChain returns the standard factor order:
// material → machining → tolerance → feature → finish → risk → quantity →
// leadtime.
func DefaultChain() []Factor {
	return []Factor{
		NewMaterialFactor(),
		NewMachineTimeFactor(),
		NewToleranceFactor(),
		NewFeatureFactor(),
		NewFinishFactor(),
		NewRiskFactor(),
		NewQuantityFactor(),
		NewLeadTimeFactor(),
	}
}
