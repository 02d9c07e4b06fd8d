package service

import (
	"context"
	"fmt"
	"sync"

	"stock-insight-engine/internal/engine/config"
	"stock-insight-engine/internal/engine/dto"
	"stock-insight-engine/internal/engine/repository"
	"stock-insight-engine/internal/entity"
	"stock-insight-engine/pkg/indicator"
)

func testConfig() *config.Config {
	return &config.Config{
		Alerts: config.Alerts{
			PriceBatchSize:        8,
			SentimentBatchSize:    6,
			PredictionBatchSize:   4,
			HighChangePercent:     2.0,
			MediumChangePercent:   1.0,
			SentimentUpperBand:    0.62,
			SentimentLowerBand:    0.38,
			SentimentLookbackDays: 7,
			SentimentArticleLimit: 15,
		},
	}
}

type fakeInferenceRepo struct {
	mu           sync.Mutex
	predictions  []float64
	currentPrice *float64
	err          error
	lastPayload  dto.InferencePayload
	calls        int
}

func (f *fakeInferenceRepo) Predict(_ context.Context, payload dto.InferencePayload) (*dto.InferenceResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPayload = payload
	if f.err != nil {
		return nil, f.err
	}
	preds := make([]float64, len(f.predictions))
	copy(preds, f.predictions)
	return &dto.InferenceResponse{
		Symbol:       payload.Symbol,
		Predictions:  preds,
		CurrentPrice: f.currentPrice,
		ModelInfo:    map[string]interface{}{"model_type": payload.ModelType},
	}, nil
}

func (f *fakeInferenceRepo) ListModels(context.Context) (*dto.ModelCatalogResponse, error) {
	return &dto.ModelCatalogResponse{}, nil
}

type fakeMarketDataRepo struct {
	mu        sync.Mutex
	series    map[string]entity.PriceSeries
	latest    map[string]entity.PricePoint
	symbols   []string
	histErr   map[string]error
	latestErr map[string]error
	histCalls int
}

func (f *fakeMarketDataRepo) Historical(_ context.Context, symbol string, _ int) (entity.PriceSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histCalls++
	if err, ok := f.histErr[symbol]; ok {
		return entity.PriceSeries{}, err
	}
	if s, ok := f.series[symbol]; ok {
		return s, nil
	}
	return entity.PriceSeries{}, fmt.Errorf("%w: %s", repository.ErrDataUnavailable, symbol)
}

func (f *fakeMarketDataRepo) Latest(_ context.Context, symbol string) (entity.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.latestErr[symbol]; ok {
		return entity.PricePoint{}, err
	}
	if p, ok := f.latest[symbol]; ok {
		return p, nil
	}
	return entity.PricePoint{}, fmt.Errorf("%w: %s", repository.ErrDataUnavailable, symbol)
}

func (f *fakeMarketDataRepo) ListSymbols(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.symbols, nil
}

type fakeNewsRepo struct {
	mu            sync.Mutex
	scores        map[string]float64
	errs          map[string]error
	notConfigured bool
	calls         int
}

func (f *fakeNewsRepo) GetSentiment(_ context.Context, symbol string, _, _ int) (*dto.NewsSentimentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.notConfigured {
		return nil, repository.ErrNotConfigured
	}
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	score, ok := f.scores[symbol]
	if !ok {
		return nil, fmt.Errorf("no sentiment for %s", symbol)
	}
	label := "Neutral"
	if score >= 0.56 {
		label = "Positive"
	} else if score <= 0.44 {
		label = "Negative"
	}
	return &dto.NewsSentimentResponse{
		Stock:            symbol,
		TotalArticles:    4,
		OverallSentiment: label,
		SentimentScore:   score,
	}, nil
}

type fakeWatchlistRepo struct {
	items []entity.WatchlistItem
	err   error
}

func (f *fakeWatchlistRepo) GetAll(context.Context) ([]entity.WatchlistItem, error) {
	return f.items, f.err
}

func (f *fakeWatchlistRepo) Add(_ context.Context, symbol string) (*entity.WatchlistItem, error) {
	item := entity.WatchlistItem{Symbol: symbol}
	f.items = append(f.items, item)
	return &item, nil
}

func (f *fakeWatchlistRepo) Remove(context.Context, string) error {
	return nil
}

type fakePreferencesRepo struct {
	prefs entity.NotificationPreferences
	err   error
}

func (f *fakePreferencesRepo) Get(context.Context) (entity.NotificationPreferences, error) {
	return f.prefs, f.err
}

func (f *fakePreferencesRepo) Save(_ context.Context, prefs entity.NotificationPreferences) error {
	f.prefs = prefs
	return nil
}

type fakePredictionLogRepo struct {
	mu      sync.Mutex
	created []*entity.PredictionLog
}

func (f *fakePredictionLogRepo) Create(_ context.Context, log *entity.PredictionLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, log)
	return nil
}

func (f *fakePredictionLogRepo) GetRecent(context.Context, string, int) ([]entity.PredictionLog, error) {
	return nil, nil
}

type fakePredictionService struct {
	mu        sync.Mutex
	responses map[string]*dto.PredictionResponse
	errs      map[string]error
	calls     int
}

func (f *fakePredictionService) GetPrediction(_ context.Context, req dto.PredictionRequest) (*dto.PredictionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errs[req.Symbol]; ok {
		return nil, err
	}
	if resp, ok := f.responses[req.Symbol]; ok {
		return resp, nil
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrDataUnavailable, req.Symbol)
}

func (f *fakePredictionService) ComputeIndicators(context.Context, string, int) (*indicator.Set, error) {
	return &indicator.Set{}, nil
}

func (f *fakePredictionService) GetModels(context.Context) (*dto.ModelCatalogResponse, error) {
	return &dto.ModelCatalogResponse{}, nil
}

func (f *fakePredictionService) GetRecentLogs(context.Context, string, int) ([]entity.PredictionLog, error) {
	return nil, nil
}

func seriesOf(symbol string, closes ...float64) entity.PriceSeries {
	points := make([]entity.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = entity.PricePoint{Close: c}
	}
	// Bypass the constructor's date checks; tests only care about closes.
	return entity.PriceSeries{Symbol: symbol, Points: points}
}
