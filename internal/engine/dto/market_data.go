package dto

import (
	"time"

	"stock-insight-engine/internal/entity"
)

// PricePointDTO mirrors one OHLCV record as served by the data backend.
// Field names are capitalized in the upstream JSON.
type PricePointDTO struct {
	Date   string  `json:"Date"`
	Open   float64 `json:"Open"`
	High   float64 `json:"High"`
	Low    float64 `json:"Low"`
	Close  float64 `json:"Close"`
	Volume float64 `json:"Volume"`
}

// ToEntity converts the record into an entity.PricePoint. The upstream
// serializes dates either as plain days or with a time component.
func (p PricePointDTO) ToEntity() entity.PricePoint {
	var date time.Time
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, p.Date); err == nil {
			date = parsed
			break
		}
	}
	return entity.PricePoint{
		Date:   date,
		Open:   p.Open,
		High:   p.High,
		Low:    p.Low,
		Close:  p.Close,
		Volume: p.Volume,
	}
}

// HistoricalDataResponse mirrors GET /stocks/{symbol}.
type HistoricalDataResponse struct {
	Symbol string          `json:"symbol"`
	Count  int             `json:"count"`
	Data   []PricePointDTO `json:"data"`
}

// LatestDataResponse mirrors GET /stocks/{symbol}/latest.
type LatestDataResponse struct {
	Symbol string        `json:"symbol"`
	Latest PricePointDTO `json:"latest"`
}

// SymbolListResponse mirrors GET /stocks, the backend's available-symbols
// listing.
type SymbolListResponse struct {
	Stocks []string `json:"stocks"`
	Count  int      `json:"count"`
}
