package service

import (
	"math"

	"stock-insight-engine/internal/entity"
	"stock-insight-engine/pkg/utils"
)

const (
	confidenceFloor   = 50.0
	confidenceCeiling = 95.0
)

// DeriveForecast turns a reconciled current price and a predicted sequence
// into the trend judgment the dashboard shows.
//
// The confidence value maps forecast spread to [50,95]: the tighter the
// predicted sequence around its mean, relative to the current price, the
// higher the number. It is a presentation heuristic, not a calibrated
// confidence interval, and consumers must treat it as such.
func DeriveForecast(currentPrice float64, predictions []float64) entity.DerivedForecast {
	forecast := entity.DerivedForecast{
		Trend:      entity.TrendBearish,
		Confidence: confidenceFloor,
	}
	if len(predictions) == 0 {
		return forecast
	}

	// Equal first step and current price classifies as Bearish.
	if predictions[0] > currentPrice {
		forecast.Trend = entity.TrendBullish
	}

	if currentPrice > 0 {
		forecast.ChangePercent = (predictions[0] - currentPrice) / currentPrice * 100
		forecast.Confidence = utils.Clamp(
			100-math.Sqrt(populationVariance(predictions))/currentPrice*100,
			confidenceFloor, confidenceCeiling,
		)
	}
	return forecast
}

func populationVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return variance / float64(len(values))
}
