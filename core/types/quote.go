// Package types defines the quote configuration and pricing result types
// shared by every stage of the pricing pipeline.
package types

import (
	"part-cost/internal/errors"
)

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyINR Currency = "INR"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// SupportedCurrencies lists the currencies a quote may be priced in.
var SupportedCurrencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyINR}

// ProcessCode identifies a manufacturing process
type ProcessCode string

const (
	ProcessCNCMill3Ax    ProcessCode = "CNC-MILL-3AX"
	ProcessCNCMill5Ax    ProcessCode = "CNC-MILL-5AX"
	ProcessCNCTurn       ProcessCode = "CNC-TURN"
	ProcessInjMoldAlu    ProcessCode = "INJ-MOLD-ALU"
	ProcessInjMoldSteel  ProcessCode = "INJ-MOLD-STEEL"
	ProcessPrintSLA      ProcessCode = "3DP-SLA"
	ProcessPrintFDM      ProcessCode = "3DP-FDM"
	ProcessSheetLaser    ProcessCode = "SHEET-LASER"
)

// String returns the string representation
func (p ProcessCode) String() string {
	return string(p)
}

// Geometry is the normalized geometry summary of a part.
// All dimensions are millimeter-based.
type Geometry struct {
	// VolumeMm3 is the part volume in cubic millimeters
	VolumeMm3 float64 `json:"volume_mm3"`

	// AreaMm2 is the surface area in square millimeters
	AreaMm2 float64 `json:"area_mm2"`

	// BboxMm is the axis-aligned bounding box [x, y, z]
	BboxMm [3]float64 `json:"bbox_mm"`
}

// BboxVolume returns the bounding-box volume in mm³.
func (g Geometry) BboxVolume() float64 {
	return g.BboxMm[0] * g.BboxMm[1] * g.BboxMm[2]
}

// MinDim returns the smallest bounding-box dimension.
func (g Geometry) MinDim() float64 {
	min := g.BboxMm[0]
	for _, d := range g.BboxMm[1:] {
		if d < min {
			min = d
		}
	}
	return min
}

// MaxDim returns the largest bounding-box dimension.
func (g Geometry) MaxDim() float64 {
	max := g.BboxMm[0]
	for _, d := range g.BboxMm[1:] {
		if d > max {
			max = d
		}
	}
	return max
}

// ToleranceSource tags which of the four resolution sources a
// ToleranceSpec carries.
type ToleranceSource string

const (
	// ToleranceSourceBand is an explicit band such as "fine"
	ToleranceSourceBand ToleranceSource = "band"

	// ToleranceSourceMicrometers is a numeric tolerance value in µm
	ToleranceSourceMicrometers ToleranceSource = "micrometers"

	// ToleranceSourceISOClass is an ISO/ANSI class id such as "ISO2768-m"
	ToleranceSourceISOClass ToleranceSource = "iso_class"

	// ToleranceSourceClassName is a free-text class such as "tight"
	ToleranceSourceClassName ToleranceSource = "class_name"
)

// ToleranceSpec is the tolerance descriptor attached to a quote. It is a
// tagged union: Source selects which payload field is meaningful.
type ToleranceSpec struct {
	// Source selects the resolution path
	Source ToleranceSource `json:"source"`

	// Band is set when Source is "band"
	Band string `json:"band,omitempty"`

	// ValueUm is set when Source is "micrometers"
	ValueUm float64 `json:"value_um,omitempty"`

	// ISOClass is set when Source is "iso_class"
	ISOClass string `json:"iso_class,omitempty"`

	// ClassName is set when Source is "class_name"
	ClassName string `json:"class_name,omitempty"`

	// Category optionally pins the tolerance category (linear, flatness, ...)
	Category string `json:"category,omitempty"`

	// FeatureCategory optionally names the toleranced feature (hole, surface, ...)
	FeatureCategory string `json:"feature_category,omitempty"`
}

// QuoteConfig is the normalized input to one pricing call. It is treated as
// immutable for the duration of the call.
type QuoteConfig struct {
	// ID uniquely identifies the quote line
	ID string `json:"id"`

	// OrgID is the owning organization
	OrgID string `json:"org_id"`

	// ProcessCode is the manufacturing process
	ProcessCode ProcessCode `json:"process_code"`

	// MaterialCode is the material identifier
	MaterialCode string `json:"material_code"`

	// Quantity is the number of parts requested
	Quantity int `json:"quantity"`

	// Geometry is the geometry summary
	Geometry Geometry `json:"geometry"`

	// Tolerance is the optional tolerance descriptor
	Tolerance *ToleranceSpec `json:"tolerance,omitempty"`

	// Finishes lists the requested finish codes
	Finishes []string `json:"finishes,omitempty"`

	// LeadClass is the optional lead-time class (standard, expedited, rush)
	LeadClass string `json:"lead_class,omitempty"`

	// RiskScore is the DFM risk score in [0,1]
	RiskScore float64 `json:"risk_score,omitempty"`

	// Currency is the quote currency
	Currency Currency `json:"currency"`
}

// Validate checks the structural invariants of a quote configuration.
// Code lookups (material, process, finish) are left to the factors so that
// unknown-code failures surface with the factor's error message.
func (q *QuoteConfig) Validate() error {
	if q.Quantity <= 0 {
		return errors.Input("quantity must be a positive integer")
	}
	if q.Geometry.VolumeMm3 <= 0 {
		return errors.Input("geometry volume must be positive")
	}
	if q.Geometry.AreaMm2 <= 0 {
		return errors.Input("geometry surface area must be positive")
	}
	for _, d := range q.Geometry.BboxMm {
		if d < 0 {
			return errors.Input("bounding box dimensions must be non-negative")
		}
	}
	if q.RiskScore < 0 || q.RiskScore > 1 {
		return errors.Input("risk score must be in [0,1]")
	}

	supported := false
	for _, c := range SupportedCurrencies {
		if q.Currency == c {
			supported = true
			break
		}
	}
	if !supported {
		return errors.Inputf("unsupported currency: %s", q.Currency)
	}
	return nil
}
