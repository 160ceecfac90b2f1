// Package types - pricing result and audit trail types
package types

import "github.com/shopspring/decimal"

// EngineVersion is the semantic version stamped on every pricing result.
const EngineVersion = "1.0.0"

// PriceBreakdownItem is one priced line of a result. Discounts carry a
// negative amount. Items from different factors are never merged.
type PriceBreakdownItem struct {
	// Code is a stable machine-readable identifier (e.g. "material")
	Code string `json:"code"`

	// Label is the human-readable description
	Label string `json:"label"`

	// Amount is the signed monetary amount
	Amount decimal.Decimal `json:"amount"`

	// Meta is an open bag of explainability data
	Meta map[string]any `json:"meta,omitempty"`
}

// TraceEntry is the immutable audit record of one factor invocation.
// Entries are appended in factor-execution order and never mutated.
type TraceEntry struct {
	// At is the ISO-8601 timestamp of the invocation
	At string `json:"at"`

	// Factor is the factor code
	Factor string `json:"factor"`

	// InputHash is the canonical hash of the factor's input
	InputHash string `json:"input_hash"`

	// Output is the factor's output summary, stored verbatim
	Output map[string]any `json:"output"`

	// Note is an optional human-readable annotation
	Note string `json:"note,omitempty"`
}

// PricingResult is the envelope produced by one pricing call. It is
// constructed once and immutable after return; cached copies differ only in
// CacheHit and CacheKey.
type PricingResult struct {
	// Subtotal is the sum of all breakdown amounts
	Subtotal decimal.Decimal `json:"subtotal"`

	// Total is the payable total (currently max(subtotal, 0))
	Total decimal.Decimal `json:"total"`

	// Currency is the result currency
	Currency Currency `json:"currency"`

	// Breakdown lists priced items in factor-execution order
	Breakdown []PriceBreakdownItem `json:"breakdown"`

	// Trace lists audit entries in factor-execution order
	Trace []TraceEntry `json:"trace"`

	// TimingsMS maps factor code to elapsed milliseconds, plus "total"
	TimingsMS map[string]float64 `json:"timings_ms"`

	// Version is the engine semantic version
	Version string `json:"version"`

	// InputHash is the canonical hash of the quote configuration
	InputHash string `json:"input_hash"`

	// CacheHit reports whether this result came from the cache
	CacheHit bool `json:"cache_hit"`

	// CacheKey is the cache key used for this call
	CacheKey string `json:"cache_key,omitempty"`
}

// FindItem returns the first breakdown item with the given code, or nil.
func (r *PricingResult) FindItem(code string) *PriceBreakdownItem {
	for i := range r.Breakdown {
		if r.Breakdown[i].Code == code {
			return &r.Breakdown[i]
		}
	}
	return nil
}
