package api

import (
	"part-cost/core/types"
	"part-cost/internal/errors"
)

// PriceRequest is the body of POST /price. It mirrors the quote
// configuration; id and org_id are minted server-side when absent.
type PriceRequest struct {
	ID           string               `json:"id,omitempty"`
	OrgID        string               `json:"org_id,omitempty"`
	ProcessCode  string               `json:"process_code"`
	MaterialCode string               `json:"material_code"`
	Quantity     int                  `json:"quantity"`
	Geometry     types.Geometry       `json:"geometry"`
	Tolerance    *types.ToleranceSpec `json:"tolerance,omitempty"`
	Finishes     []string             `json:"finishes,omitempty"`
	LeadClass    string               `json:"lead_class,omitempty"`
	RiskScore    float64              `json:"risk_score,omitempty"`
	Currency     string               `json:"currency,omitempty"`
}

// ToQuote converts the request into the engine's input type. Currency
// defaults to USD.
func (r *PriceRequest) ToQuote() *types.QuoteConfig {
	currency := types.Currency(r.Currency)
	if currency == "" {
		currency = types.CurrencyUSD
	}
	return &types.QuoteConfig{
		ID:           r.ID,
		OrgID:        r.OrgID,
		ProcessCode:  types.ProcessCode(r.ProcessCode),
		MaterialCode: r.MaterialCode,
		Quantity:     r.Quantity,
		Geometry:     r.Geometry,
		Tolerance:    r.Tolerance,
		Finishes:     r.Finishes,
		LeadClass:    r.LeadClass,
		RiskScore:    r.RiskScore,
		Currency:     currency,
	}
}

// PriceResponse wraps the pricing result with the minted quote id.
type PriceResponse struct {
	QuoteID string               `json:"quote_id"`
	Result  *types.PricingResult `json:"result"`
}

// statusFor maps domain error types to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.IsType(err, errors.TypeInput):
		return 400
	case errors.IsType(err, errors.TypeUnknownCode):
		return 422
	default:
		return 500
	}
}

// codeFor maps domain error types to response error codes.
func codeFor(err error) string {
	if e, ok := err.(*errors.Error); ok {
		return string(e.Type)
	}
	return string(errors.TypeInternal)
}
