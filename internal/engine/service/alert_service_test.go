package service

import (
	"context"
	"errors"
	"testing"

	"stock-insight-engine/internal/engine/dto"
	"stock-insight-engine/internal/entity"
	"stock-insight-engine/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allPrefs() entity.NotificationPreferences {
	return entity.NotificationPreferences{PriceAlerts: true, SentimentAlerts: true, PredictionAlerts: true}
}

func newAlertService(
	market *fakeMarketDataRepo,
	news *fakeNewsRepo,
	watchlist *fakeWatchlistRepo,
	prefs *fakePreferencesRepo,
	predictions *fakePredictionService,
) AlertService {
	return NewAlertService(testConfig(), logger.NewNop(), NewAlertStore(), market, news, watchlist, prefs, predictions, nil)
}

func watchlistOf(symbols ...string) *fakeWatchlistRepo {
	items := make([]entity.WatchlistItem, len(symbols))
	for i, s := range symbols {
		items[i] = entity.WatchlistItem{Symbol: s}
	}
	return &fakeWatchlistRepo{items: items}
}

func TestPriceAlertSeverities(t *testing.T) {
	cases := []struct {
		name     string
		closes   []float64
		severity entity.AlertSeverity
	}{
		{"big move is high", []float64{100, 102.5}, entity.SeverityHigh},
		{"big drop is high", []float64{100, 97.9}, entity.SeverityHigh},
		{"medium move", []float64{100, 101.5}, entity.SeverityMedium},
		{"small move", []float64{100, 100.5}, entity.SeverityLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			market := &fakeMarketDataRepo{series: map[string]entity.PriceSeries{"AAPL": seriesOf("AAPL", tc.closes...)}}
			prefs := &fakePreferencesRepo{prefs: entity.NotificationPreferences{PriceAlerts: true}}
			svc := newAlertService(market, &fakeNewsRepo{}, watchlistOf("AAPL"), prefs, &fakePredictionService{})

			alerts, err := svc.Synthesize(context.Background())
			require.NoError(t, err)
			require.Len(t, alerts, 1)
			assert.Equal(t, entity.AlertTypePrice, alerts[0].Type)
			assert.Equal(t, tc.severity, alerts[0].Severity)
			assert.False(t, alerts[0].Read)
		})
	}
}

func TestSentimentSuppressionBand(t *testing.T) {
	cases := []struct {
		score    float64
		emitted  bool
		severity entity.AlertSeverity
	}{
		{0.50, false, ""},
		{0.61, false, ""},
		{0.39, false, ""},
		{0.62, true, entity.SeverityMedium},
		{0.80, true, entity.SeverityMedium},
		{0.38, true, entity.SeverityHigh},
		{0.20, true, entity.SeverityHigh},
	}

	for _, tc := range cases {
		news := &fakeNewsRepo{scores: map[string]float64{"AAPL": tc.score}}
		prefs := &fakePreferencesRepo{prefs: entity.NotificationPreferences{SentimentAlerts: true}}
		svc := newAlertService(&fakeMarketDataRepo{}, news, watchlistOf("AAPL"), prefs, &fakePredictionService{})

		alerts, err := svc.Synthesize(context.Background())
		require.NoError(t, err, "score %.2f", tc.score)
		if !tc.emitted {
			assert.Empty(t, alerts, "score %.2f must be suppressed", tc.score)
			continue
		}
		require.Len(t, alerts, 1, "score %.2f", tc.score)
		assert.Equal(t, entity.AlertTypeSentiment, alerts[0].Type)
		assert.Equal(t, tc.severity, alerts[0].Severity)
	}
}

func TestPredictionAlertUsesForecastChange(t *testing.T) {
	predictions := &fakePredictionService{responses: map[string]*dto.PredictionResponse{
		"AAPL": {
			Result:   dto.PredictionResult{Symbol: "AAPL", CurrentPrice: 100, Predictions: []float64{102.5}, Horizon: 1},
			Forecast: entity.DerivedForecast{Trend: entity.TrendBullish, ChangePercent: 2.5, Confidence: 95},
		},
	}}
	prefs := &fakePreferencesRepo{prefs: entity.NotificationPreferences{PredictionAlerts: true}}
	svc := newAlertService(&fakeMarketDataRepo{}, &fakeNewsRepo{}, watchlistOf("AAPL"), prefs, predictions)

	alerts, err := svc.Synthesize(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, entity.AlertTypePrediction, alerts[0].Type)
	assert.Equal(t, entity.SeverityHigh, alerts[0].Severity)
}

func TestPreferenceGatingHappensBeforeFetch(t *testing.T) {
	market := &fakeMarketDataRepo{series: map[string]entity.PriceSeries{"AAPL": seriesOf("AAPL", 100, 101)}}
	news := &fakeNewsRepo{scores: map[string]float64{"AAPL": 0.2}}
	predictions := &fakePredictionService{}
	prefs := &fakePreferencesRepo{prefs: entity.NotificationPreferences{}} // everything off
	svc := newAlertService(market, news, watchlistOf("AAPL"), prefs, predictions)

	alerts, err := svc.Synthesize(context.Background())
	require.NoError(t, err)
	assert.Empty(t, alerts)
	assert.Zero(t, market.histCalls, "disabled categories must not fetch")
	assert.Zero(t, news.calls)
	assert.Zero(t, predictions.calls)
}

func TestEmptyWatchlistUsesFallbackBatch(t *testing.T) {
	market := &fakeMarketDataRepo{series: map[string]entity.PriceSeries{}}
	for _, s := range []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA"} {
		market.series[s] = seriesOf(s, 100, 101)
	}
	prefs := &fakePreferencesRepo{prefs: entity.NotificationPreferences{PriceAlerts: true}}
	svc := newAlertService(market, &fakeNewsRepo{}, &fakeWatchlistRepo{}, prefs, &fakePredictionService{})

	alerts, err := svc.Synthesize(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(alerts), 3)
	assert.LessOrEqual(t, market.histCalls, 8)
}

func TestBatchCaps(t *testing.T) {
	symbols := []string{"S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8", "S9", "S10"}
	market := &fakeMarketDataRepo{series: map[string]entity.PriceSeries{}}
	for _, s := range symbols {
		market.series[s] = seriesOf(s, 100, 101)
	}
	prefs := &fakePreferencesRepo{prefs: entity.NotificationPreferences{PriceAlerts: true}}
	svc := newAlertService(market, &fakeNewsRepo{}, watchlistOf(symbols...), prefs, &fakePredictionService{})

	alerts, err := svc.Synthesize(context.Background())
	require.NoError(t, err)
	assert.Len(t, alerts, 8, "price batch is capped at 8 symbols")
}

func TestPartialFailureDoesNotAbortBatch(t *testing.T) {
	market := &fakeMarketDataRepo{
		series:  map[string]entity.PriceSeries{"AAPL": seriesOf("AAPL", 100, 101)},
		histErr: map[string]error{"MSFT": errors.New("connection reset")},
	}
	prefs := &fakePreferencesRepo{prefs: entity.NotificationPreferences{PriceAlerts: true}}
	svc := newAlertService(market, &fakeNewsRepo{}, watchlistOf("AAPL", "MSFT"), prefs, &fakePredictionService{})

	alerts, err := svc.Synthesize(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "AAPL", alerts[0].Symbol)
}

func TestUnconfiguredSentimentProviderIsSkippedSilently(t *testing.T) {
	market := &fakeMarketDataRepo{series: map[string]entity.PriceSeries{"AAPL": seriesOf("AAPL", 100, 101)}}
	news := &fakeNewsRepo{notConfigured: true}
	prefs := &fakePreferencesRepo{prefs: entity.NotificationPreferences{PriceAlerts: true, SentimentAlerts: true}}
	svc := newAlertService(market, news, watchlistOf("AAPL"), prefs, &fakePredictionService{})

	alerts, err := svc.Synthesize(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, entity.AlertTypePrice, alerts[0].Type)
}

func TestAllFetchesFailingIsEmptyBatch(t *testing.T) {
	prefs := &fakePreferencesRepo{prefs: entity.NotificationPreferences{PriceAlerts: true}}
	svc := newAlertService(&fakeMarketDataRepo{}, &fakeNewsRepo{}, watchlistOf("AAPL", "MSFT"), prefs, &fakePredictionService{})

	_, err := svc.Synthesize(context.Background())
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestSynthesisReplacesPreviousRun(t *testing.T) {
	market := &fakeMarketDataRepo{series: map[string]entity.PriceSeries{"AAPL": seriesOf("AAPL", 100, 101)}}
	prefs := &fakePreferencesRepo{prefs: entity.NotificationPreferences{PriceAlerts: true}}
	svc := newAlertService(market, &fakeNewsRepo{}, watchlistOf("AAPL"), prefs, &fakePredictionService{})

	first, err := svc.Synthesize(context.Background())
	require.NoError(t, err)
	second, err := svc.Synthesize(context.Background())
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Greater(t, second[0].ID, first[0].ID, "replacement run mints fresh ids")
	assert.Len(t, svc.List(), 1, "old alerts do not accumulate")
}

func TestSynthesizedBatchIsTotallyOrdered(t *testing.T) {
	market := &fakeMarketDataRepo{series: map[string]entity.PriceSeries{
		"HI":  seriesOf("HI", 100, 103),  // high
		"MED": seriesOf("MED", 100, 101), // medium
		"LO":  seriesOf("LO", 100, 100),  // low
	}}
	news := &fakeNewsRepo{scores: map[string]float64{"HI": 0.2, "MED": 0.8, "LO": 0.5}}
	prefs := &fakePreferencesRepo{prefs: entity.NotificationPreferences{PriceAlerts: true, SentimentAlerts: true}}
	svc := newAlertService(market, news, watchlistOf("HI", "MED", "LO"), prefs, &fakePredictionService{})

	alerts, err := svc.Synthesize(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 5) // 3 price + 2 sentiment (LO suppressed)

	for i := 1; i < len(alerts); i++ {
		prev, cur := alerts[i-1], alerts[i]
		if prev.Read != cur.Read {
			assert.False(t, prev.Read)
			continue
		}
		if prev.Severity.Rank() != cur.Severity.Rank() {
			assert.Less(t, prev.Severity.Rank(), cur.Severity.Rank())
			continue
		}
		assert.Greater(t, prev.ID, cur.ID)
	}
}

func TestPreferencesLoadFailureFallsBackToDefaults(t *testing.T) {
	market := &fakeMarketDataRepo{series: map[string]entity.PriceSeries{"AAPL": seriesOf("AAPL", 100, 101)}}
	prefs := &fakePreferencesRepo{err: errors.New("db down"), prefs: allPrefs()}
	svc := newAlertService(market, &fakeNewsRepo{notConfigured: true}, watchlistOf("AAPL"), prefs, &fakePredictionService{})

	alerts, err := svc.Synthesize(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, alerts, "defaults keep price alerts enabled")
}
