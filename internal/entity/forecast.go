package entity

// Trend is the direction a forecast implies.
type Trend string

const (
	TrendBullish Trend = "Bullish"
	TrendBearish Trend = "Bearish"
)

// DerivedForecast is the trend judgment derived from a prediction run. It is
// recomputed whenever predictions or the current price change, never stored
// on its own.
//
// Confidence encodes "tighter forecast spread means higher apparent
// confidence" bounded to [50,95]. It is a heuristic, not a calibrated
// statistical confidence interval.
type DerivedForecast struct {
	Trend         Trend   `json:"trend"`
	ChangePercent float64 `json:"change_percent"`
	Confidence    float64 `json:"confidence"`
}
