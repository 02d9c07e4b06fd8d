package indicator

import "fmt"

// Standard periods used by the dashboard.
const (
	RSIPeriod      = 14
	MACDFastPeriod = 12
	MACDSlowPeriod = 26
)

// SMA computes the arithmetic mean of the last period values. The bool is
// false when the series is shorter than the period; callers must treat that
// as absence, never as zero.
func SMA(values []float64, period int) (float64, bool) {
	mustBePositive(period)
	if len(values) < period {
		return 0, false
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// EMA computes the exponential moving average seeded with the mean of the
// first period values, then folding in every later value with
// k = 2/(period+1).
func EMA(values []float64, period int) (float64, bool) {
	mustBePositive(period)
	if len(values) < period {
		return 0, false
	}

	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	ema := seed / float64(period)

	k := 2.0 / float64(period+1)
	for _, v := range values[period:] {
		ema = v*k + ema*(1-k)
	}
	return ema, true
}

// RSI computes the relative strength index over the last period consecutive
// differences. Requires period+1 values. When the average loss is zero the
// result is exactly 100 (unbounded strength, not a division error).
func RSI(values []float64, period int) (float64, bool) {
	mustBePositive(period)
	if len(values) < period+1 {
		return 0, false
	}

	var gains, losses float64
	start := len(values) - period - 1
	for i := start + 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// MACD computes EMA(12) - EMA(26). Absent when either operand is absent.
func MACD(values []float64) (float64, bool) {
	fast, ok := EMA(values, MACDFastPeriod)
	if !ok {
		return 0, false
	}
	slow, ok := EMA(values, MACDSlowPeriod)
	if !ok {
		return 0, false
	}
	return fast - slow, true
}

// A non-positive period is a programming error, not a data condition.
func mustBePositive(period int) {
	if period <= 0 {
		panic(fmt.Sprintf("indicator: period must be positive, got %d", period))
	}
}
