package entity

import "time"

// PricePoint is a single OHLCV bar. Immutable once fetched.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is a chronologically ordered sequence of PricePoint with
// strictly increasing dates and positive closes.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// NewPriceSeries builds a series from raw points: bars with non-positive
// closes are filtered out (never zero-filled), and out-of-order or
// duplicate-date bars are dropped to keep dates strictly increasing.
func NewPriceSeries(symbol string, points []PricePoint) PriceSeries {
	filtered := make([]PricePoint, 0, len(points))
	for _, p := range points {
		if p.Close <= 0 {
			continue
		}
		if len(filtered) > 0 && !p.Date.After(filtered[len(filtered)-1].Date) {
			continue
		}
		filtered = append(filtered, p)
	}
	return PriceSeries{Symbol: symbol, Points: filtered}
}

// Closes returns the closing prices in chronological order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Len returns the number of bars in the series.
func (s PriceSeries) Len() int {
	return len(s.Points)
}

// Latest returns the most recent bar. The bool is false for an empty series.
func (s PriceSeries) Latest() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}
