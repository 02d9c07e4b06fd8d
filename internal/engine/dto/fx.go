package dto

// FXRateRequest carries the currency pair for a conversion rate lookup.
// Both codes default to USD when omitted.
type FXRateRequest struct {
	Base  string `query:"base" validate:"omitempty,alpha,len=3"`
	Quote string `query:"quote" validate:"omitempty,alpha,len=3"`
}

// FXRateResponse mirrors GET /fx/rate. Source is "static" for the identity
// pair and the provider name otherwise.
type FXRateResponse struct {
	Base   string  `json:"base"`
	Quote  string  `json:"quote"`
	Rate   float64 `json:"rate"`
	Source string  `json:"source"`
	Date   string  `json:"date,omitempty"`
}

// FrankfurterLatest mirrors the Frankfurter /latest payload.
type FrankfurterLatest struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}
