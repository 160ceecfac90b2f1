// Package cache provides the pluggable result cache consumed by the pricing
// engine. The engine must function correctly (always recompute) against an
// adapter that always reports absent.
package cache

import (
	"context"
	"time"

	"part-cost/core/types"
)

// Adapter is the key/value contract the engine consults around each pricing
// call. Entries are written whole; no merge semantics exist.
type Adapter interface {
	// Get returns the cached result for key, or (nil, false) when absent
	// or expired.
	Get(ctx context.Context, key string) (*types.PricingResult, bool, error)

	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value *types.PricingResult, ttl time.Duration) error

	// Close releases adapter resources.
	Close() error
}

// Noop is the always-absent adapter.
type Noop struct{}

// NewNoop creates an adapter that caches nothing.
func NewNoop() *Noop { return &Noop{} }

// Get always reports absent
func (n *Noop) Get(ctx context.Context, key string) (*types.PricingResult, bool, error) {
	return nil, false, nil
}

// Set discards the value
func (n *Noop) Set(ctx context.Context, key string, value *types.PricingResult, ttl time.Duration) error {
	return nil
}

// Close is a no-op
func (n *Noop) Close() error { return nil }
