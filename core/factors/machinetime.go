package factors

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"part-cost/core/hashing"
	"part-cost/core/types"
	"part-cost/internal/errors"
)

// MachineTimeFactor estimates machine engagement from the process profile:
// run time = volume(cm³) × run-minutes-per-cm³, total = setup + run,
// cost = total/60 × hourly rate. An unknown process code aborts the call.
type MachineTimeFactor struct{}

// NewMachineTimeFactor creates the machine time estimation factor.
func NewMachineTimeFactor() *MachineTimeFactor {
	return &MachineTimeFactor{}
}

// Code returns the factor identifier
func (f *MachineTimeFactor) Code() string { return "machining" }

// Run computes the machining line item.
func (f *MachineTimeFactor) Run(ctx context.Context, fc *Context) (*Result, error) {
	q := fc.Quote

	profile, ok := fc.Book.Machines[q.ProcessCode]
	if !ok {
		return nil, errors.UnknownCode("process", string(q.ProcessCode))
	}

	volumeCm3 := q.Geometry.VolumeMm3 / 1000.0
	runMin := volumeCm3 * profile.RunMinPerCm3
	totalMin := profile.SetupMin + runMin

	amount := decimal.NewFromFloat(totalMin / 60.0).
		Mul(decimal.NewFromFloat(profile.HourlyRate)).
		Mul(decimal.NewFromFloat(fc.Book.Rate(q.Currency)))

	item := types.PriceBreakdownItem{
		Code:   "machining",
		Label:  fmt.Sprintf("Machining: %s", profile.Label),
		Amount: amount,
		Meta: map[string]any{
			"hourlyRate": profile.HourlyRate,
			"setupMin":   profile.SetupMin,
			"runMin":     runMin,
			"totalMin":   totalMin,
		},
	}

	trace := hashing.NewTraceEntry(f.Code(),
		map[string]any{
			"processCode": q.ProcessCode,
			"volumeMm3":   q.Geometry.VolumeMm3,
		},
		map[string]any{
			"cost":     amount.InexactFloat64(),
			"totalMin": totalMin,
		},
		fmt.Sprintf("Estimated %.1f min on %s at $%.0f/h", totalMin, profile.Label, profile.HourlyRate),
	)

	return &Result{
		Items: []types.PriceBreakdownItem{item},
		Trace: []types.TraceEntry{trace},
	}, nil
}
