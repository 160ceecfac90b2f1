// Package engine - pricing orchestrator
// Owns the ordered execution of cost factors, the running subtotal, the
// audit trace, and the result cache around one pricing call.
package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"part-cost/adapters/cache"
	"part-cost/core/costbook"
	"part-cost/core/factors"
	"part-cost/core/hashing"
	"part-cost/core/types"
	"part-cost/internal/errors"
	"part-cost/internal/logging"
)

// DefaultNamespace prefixes cache keys built from the default factor chain.
// Orchestrators with injected factor sets must use their own namespace so
// they never collide with default results in a shared cache.
const DefaultNamespace = "pricing:orchestrator:v1"

// Orchestrator executes the factor chain for one quote at a time. Factor
// execution is strictly sequential: each factor reads the subtotal produced
// by its predecessors, so the order is part of the pricing contract.
type Orchestrator struct {
	book      *costbook.Book
	bookHash  string
	factors   []factors.Factor
	cache     cache.Adapter
	ttl       time.Duration
	namespace string
	logger    *zap.SugaredLogger
}

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithFactors replaces the default factor chain. Callers injecting custom
// factors must supply a distinct cache namespace.
func WithFactors(chain []factors.Factor, namespace string) Option {
	return func(o *Orchestrator) {
		o.factors = chain
		o.namespace = namespace
	}
}

// WithCache attaches a result cache. A zero ttl stores entries without
// expiry.
func WithCache(adapter cache.Adapter, ttl time.Duration) Option {
	return func(o *Orchestrator) {
		o.cache = adapter
		o.ttl = ttl
	}
}

// New creates an orchestrator over a cost book. Without options it runs the
// default factor chain with no caching.
func New(book *costbook.Book, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		book:      book,
		bookHash:  book.Hash(),
		factors:   factors.DefaultChain(),
		cache:     cache.NewNoop(),
		namespace: DefaultNamespace,
		logger:    logging.Sugar,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CacheKey derives the cache key for a quote. The key hash covers both the
// quote and the cost book hash, so orchestrators holding different tables
// never share entries.
func (o *Orchestrator) CacheKey(quote *types.QuoteConfig) string {
	return o.namespace + ":" + hashing.Hash(struct {
		Quote    *types.QuoteConfig `json:"quote"`
		BookHash string             `json:"book_hash"`
	}{quote, o.bookHash})
}

// CalculatePrice prices one quote. On a cache hit no factor is re-executed;
// on a miss the factor chain runs in order and the assembled result is
// written back before returning. A hard-fail factor error aborts the call
// and caches nothing.
func (o *Orchestrator) CalculatePrice(ctx context.Context, quote *types.QuoteConfig) (*types.PricingResult, error) {
	if err := quote.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	inputHash := hashing.Hash(quote)
	cacheKey := o.CacheKey(quote)

	if cached, ok, err := o.cache.Get(ctx, cacheKey); err != nil {
		// A failing cache degrades to recomputation
		o.logger.Warnw("cache read failed, recomputing", "key", cacheKey, "error", err)
	} else if ok {
		o.logger.Debugw("cache hit", "quote_id", quote.ID, "key", cacheKey)
		hit := *cached
		hit.CacheHit = true
		hit.CacheKey = cacheKey
		return &hit, nil
	}

	subtotal := decimal.Zero
	var breakdown []types.PriceBreakdownItem
	var trace []types.TraceEntry
	timings := make(map[string]float64, len(o.factors)+1)

	for _, factor := range o.factors {
		factorStart := time.Now()
		result, err := factor.Run(ctx, &factors.Context{
			Quote:    quote,
			Book:     o.book,
			Subtotal: subtotal,
		})
		timings[factor.Code()] = elapsedMS(factorStart)

		if err != nil {
			o.logger.Errorw("factor failed",
				"quote_id", quote.ID,
				"factor", factor.Code(),
				"error", err,
			)
			if domainErr, ok := err.(*errors.Error); ok {
				return nil, domainErr.WithContext("factor", factor.Code())
			}
			return nil, errors.Pricing("factor "+factor.Code()+" failed", err)
		}

		breakdown = append(breakdown, result.Items...)
		trace = append(trace, result.Trace...)
		subtotal = subtotal.Add(result.Total())
	}

	if err := hashing.ValidateTrace(trace); err != nil {
		return nil, err
	}

	timings["total"] = elapsedMS(start)

	result := &types.PricingResult{
		Subtotal:  subtotal,
		Total:     decimal.Max(subtotal, decimal.Zero),
		Currency:  quote.Currency,
		Breakdown: breakdown,
		Trace:     trace,
		TimingsMS: timings,
		Version:   types.EngineVersion,
		InputHash: inputHash,
		CacheHit:  false,
		CacheKey:  cacheKey,
	}

	if err := o.cache.Set(ctx, cacheKey, result, o.ttl); err != nil {
		o.logger.Warnw("cache write failed", "key", cacheKey, "error", err)
	}

	o.logger.Infow("priced quote",
		"quote_id", quote.ID,
		"total", result.Total.StringFixed(2),
		"currency", quote.Currency,
		"items", len(breakdown),
		"elapsed_ms", timings["total"],
	)
	return result, nil
}

func elapsedMS(since time.Time) float64 {
	return float64(time.Since(since).Microseconds()) / 1000.0
}
