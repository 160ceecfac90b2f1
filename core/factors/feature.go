package factors

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"part-cost/core/features"
	"part-cost/core/hashing"
	"part-cost/core/types"
)

// minAdjustment drops sub-cent feature adjustments.
var minAdjustment = decimal.NewFromFloat(0.01)

// FeatureFactor runs the feature inference engine and converts its summary
// into percentage adjustments on the running subtotal. Inference failures
// degrade to an error trace note; they never abort pricing.
type FeatureFactor struct {
	extractor *features.Extractor
}

// NewFeatureFactor creates the feature adjustment factor with the default
// extractor.
func NewFeatureFactor() *FeatureFactor {
	return &FeatureFactor{extractor: features.NewExtractor()}
}

// Code returns the factor identifier
func (f *FeatureFactor) Code() string { return "feature" }

// Run infers features and derives the adjustment items.
func (f *FeatureFactor) Run(ctx context.Context, fc *Context) (*Result, error) {
	q := fc.Quote

	extraction, err := f.extractor.Extract(q.Geometry, q.MaterialCode, q.ProcessCode)
	if err != nil {
		trace := hashing.NewTraceEntry(f.Code(),
			map[string]any{"geometry": q.Geometry},
			map[string]any{"error": err.Error()},
			fmt.Sprintf("Feature extraction failed: %v", err),
		)
		return &Result{Trace: []types.TraceEntry{trace}}, nil
	}

	adjustments := featureAdjustments(extraction, fc.Subtotal)

	var items []types.PriceBreakdownItem
	totalAdjustment := decimal.Zero
	for _, adj := range adjustments {
		totalAdjustment = totalAdjustment.Add(adj.Amount)
		if adj.Amount.Abs().LessThanOrEqual(minAdjustment) {
			continue
		}
		meta := map[string]any{
			"featureCount":    extraction.Summary.TotalFeatures,
			"complexityScore": extraction.Summary.ComplexityScore,
			"dfmViolations":   len(extraction.Summary.DFMViolations),
		}
		for k, v := range adj.Meta {
			meta[k] = v
		}
		items = append(items, types.PriceBreakdownItem{
			Code:   adj.Code,
			Label:  adj.Label,
			Amount: adj.Amount,
			Meta:   meta,
		})
	}

	featureTypes := make([]string, 0, len(extraction.Summary.FeatureCounts))
	for t := range extraction.Summary.FeatureCounts {
		featureTypes = append(featureTypes, string(t))
	}

	trace := hashing.NewTraceEntry(f.Code(),
		map[string]any{
			"geometry":     q.Geometry,
			"materialCode": q.MaterialCode,
			"processCode":  q.ProcessCode,
		},
		map[string]any{
			"featureCount":    extraction.Summary.TotalFeatures,
			"complexityScore": extraction.Summary.ComplexityScore,
			"totalAdjustment": totalAdjustment.InexactFloat64(),
			"dfmViolations":   extraction.Summary.DFMViolations,
			"featureTypes":    featureTypes,
			"confidence":      extraction.Metadata.ConfidenceScore,
		},
		fmt.Sprintf("Extracted %d features, complexity score: %.1f",
			extraction.Summary.TotalFeatures, extraction.Summary.ComplexityScore),
	)

	return &Result{Items: items, Trace: []types.TraceEntry{trace}}, nil
}

type adjustment struct {
	Code   string
	Label  string
	Amount decimal.Decimal
	Meta   map[string]any
}

// featureAdjustments derives the percentage adjustments from one extraction
// result. All amounts are fractions of the running subtotal.
func featureAdjustments(extraction *features.ExtractionResult, subtotal decimal.Decimal) []adjustment {
	var adjustments []adjustment
	summary := extraction.Summary

	// 5% per complexity point above 3
	complexityMultiplier := math.Max(0, (summary.ComplexityScore-3)*0.05)
	if complexityMultiplier > 0 {
		adjustments = append(adjustments, adjustment{
			Code:   "complexity_adjustment",
			Label:  fmt.Sprintf("Complexity Adjustment (Score: %.1f)", summary.ComplexityScore),
			Amount: subtotal.Mul(decimal.NewFromFloat(complexityMultiplier)),
			Meta: map[string]any{
				"complexityScore": summary.ComplexityScore,
				"multiplier":      complexityMultiplier,
			},
		})
	}

	// 2% efficiency loss per detected feature
	efficiency := math.Max(0, 1-float64(summary.TotalFeatures)*0.02)
	if efficiency < 1 {
		adjustments = append(adjustments, adjustment{
			Code:   "feature_efficiency",
			Label:  fmt.Sprintf("Feature Count Adjustment (%d features)", summary.TotalFeatures),
			Amount: subtotal.Mul(decimal.NewFromFloat(efficiency - 1)),
			Meta: map[string]any{
				"featureCount": summary.TotalFeatures,
				"efficiency":   efficiency,
			},
		})
	}

	// 2% per DFM violation
	if n := len(summary.DFMViolations); n > 0 {
		sample := summary.DFMViolations
		if len(sample) > 3 {
			sample = sample[:3]
		}
		adjustments = append(adjustments, adjustment{
			Code:   "dfm_penalty",
			Label:  fmt.Sprintf("DFM Issues (%d violations)", n),
			Amount: subtotal.Mul(decimal.NewFromFloat(float64(n) * 0.02)),
			Meta: map[string]any{
				"violationCount": n,
				"violations":     sample,
			},
		})
	}

	adjustments = append(adjustments, typeAdjustments(extraction.Features, subtotal)...)
	return adjustments
}

// typeAdjustments prices feature groups: holes by count and difficulty,
// threads, undercuts, and thin walls by count.
func typeAdjustments(feats []features.Properties, subtotal decimal.Decimal) []adjustment {
	groups := make(map[features.Type][]features.Properties)
	for _, f := range feats {
		groups[f.Type] = append(groups[f.Type], f)
	}

	var adjustments []adjustment
	for _, t := range []features.Type{features.TypeHole, features.TypeThread, features.TypeUndercut, features.TypeThinWall} {
		group := groups[t]
		if len(group) == 0 {
			continue
		}
		count := len(group)

		switch t {
		case features.TypeHole:
			sum := 0.0
			for _, f := range group {
				sum += f.MachiningDifficulty
			}
			avgDifficulty := sum / float64(count)
			adjustments = append(adjustments, adjustment{
				Code:   "hole_machining",
				Label:  fmt.Sprintf("Hole Machining (%d holes, avg difficulty: %.1f)", count, avgDifficulty),
				Amount: subtotal.Mul(decimal.NewFromFloat(float64(count)*0.01 + avgDifficulty*0.005)),
				Meta:   map[string]any{"count": count, "avgDifficulty": avgDifficulty},
			})
		case features.TypeThread:
			adjustments = append(adjustments, adjustment{
				Code:   "thread_machining",
				Label:  fmt.Sprintf("Thread Machining (%d threads)", count),
				Amount: subtotal.Mul(decimal.NewFromFloat(float64(count) * 0.03)),
				Meta:   map[string]any{"count": count},
			})
		case features.TypeUndercut:
			adjustments = append(adjustments, adjustment{
				Code:   "undercut_penalty",
				Label:  fmt.Sprintf("Undercut Machining (%d undercuts)", count),
				Amount: subtotal.Mul(decimal.NewFromFloat(float64(count) * 0.1)),
				Meta:   map[string]any{"count": count},
			})
		case features.TypeThinWall:
			adjustments = append(adjustments, adjustment{
				Code:   "thin_wall_handling",
				Label:  fmt.Sprintf("Thin Wall Handling (%d thin walls)", count),
				Amount: subtotal.Mul(decimal.NewFromFloat(float64(count) * 0.02)),
				Meta:   map[string]any{"count": count},
			})
		}
	}
	return adjustments
}
