package engine

import (
	"context"
	"testing"

	"part-cost/core/costbook"
	"part-cost/core/factors"
)

// Factor order is contractual: percentage factors read the running subtotal,
// so moving one changes what it sees.
func TestFactorOrderChangesAmounts(t *testing.T) {
	quote := baseQuote()

	standard := New(costbook.Default(), WithFactors([]factors.Factor{
		factors.NewMaterialFactor(),
		factors.NewMachineTimeFactor(),
		factors.NewRiskFactor(),
	}, "pricing:order-std:v1"))

	riskFirst := New(costbook.Default(), WithFactors([]factors.Factor{
		factors.NewRiskFactor(),
		factors.NewMaterialFactor(),
		factors.NewMachineTimeFactor(),
	}, "pricing:order-swap:v1"))

	standardResult, err := standard.CalculatePrice(context.Background(), quote)
	if err != nil {
		t.Fatalf("standard chain failed: %v", err)
	}
	swappedResult, err := riskFirst.CalculatePrice(context.Background(), quote)
	if err != nil {
		t.Fatalf("swapped chain failed: %v", err)
	}

	// Risk ahead of the cost factors sees a zero subtotal and uplifts nothing
	if standardResult.Total.Equal(swappedResult.Total) {
		t.Errorf("totals must differ when risk runs first: both %s", standardResult.Total)
	}

	stdRisk := standardResult.FindItem("risk_uplift")
	if stdRisk == nil || !stdRisk.Amount.IsPositive() {
		t.Fatal("risk after cost factors must emit a positive uplift")
	}
	if swapRisk := swappedResult.FindItem("risk_uplift"); swapRisk != nil && swapRisk.Amount.IsPositive() {
		t.Errorf("risk before cost factors must not uplift, got %s", swapRisk.Amount)
	}
}
