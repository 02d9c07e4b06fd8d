package indicator

// Set bundles the indicators the dashboard renders for one symbol. Nil
// fields mean the series was too short for that indicator; absence always
// propagates to consumers instead of being coerced to zero.
type Set struct {
	SMAPeriod int      `json:"sma_period"`
	EMAPeriod int      `json:"ema_period"`
	SMA       *float64 `json:"sma,omitempty"`
	EMA       *float64 `json:"ema,omitempty"`
	RSI       *float64 `json:"rsi,omitempty"`
	MACD      *float64 `json:"macd,omitempty"`
}

// Compute assembles the indicator set over closing prices. RSI uses the
// standard 14 period, MACD the standard 12/26 pair.
func Compute(closes []float64, smaPeriod, emaPeriod int) Set {
	set := Set{SMAPeriod: smaPeriod, EMAPeriod: emaPeriod}
	if v, ok := SMA(closes, smaPeriod); ok {
		set.SMA = &v
	}
	if v, ok := EMA(closes, emaPeriod); ok {
		set.EMA = &v
	}
	if v, ok := RSI(closes, RSIPeriod); ok {
		set.RSI = &v
	}
	if v, ok := MACD(closes); ok {
		set.MACD = &v
	}
	return set
}
