package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"stock-insight-engine/internal/engine/config"
	"stock-insight-engine/internal/engine/dto"
	"stock-insight-engine/internal/engine/repository"
	"stock-insight-engine/internal/entity"
	"stock-insight-engine/pkg/indicator"
	"stock-insight-engine/pkg/logger"
)

// Default indicator periods rendered by the dashboard.
const (
	defaultSMAPeriod       = 20
	defaultEMAPeriod       = 12
	defaultIndicatorBars   = 120
	defaultHistoricalLimit = 365
)

// timeframeSteps maps UI timeframe tokens to requested forecast steps.
var timeframeSteps = map[string]int{
	"1D": 1,
	"3D": 3,
	"1W": 7,
	"2W": 14,
	"1M": 30,
}

// PredictionService orchestrates model inference into reconciled forecasts.
type PredictionService interface {
	GetPrediction(ctx context.Context, req dto.PredictionRequest) (*dto.PredictionResponse, error)
	ComputeIndicators(ctx context.Context, symbol string, limit int) (*indicator.Set, error)
	GetModels(ctx context.Context) (*dto.ModelCatalogResponse, error)
	GetRecentLogs(ctx context.Context, symbol string, limit int) ([]entity.PredictionLog, error)
}

type predictionService struct {
	cfg        *config.Config
	log        *logger.Logger
	providers  *ProviderRegistry
	marketData repository.MarketDataRepository
	inference  repository.InferenceRepository
	logRepo    repository.PredictionLogRepository
}

// NewPredictionService creates a prediction orchestrator. logRepo may be
// nil; audit logging is best effort.
func NewPredictionService(
	cfg *config.Config,
	log *logger.Logger,
	providers *ProviderRegistry,
	marketData repository.MarketDataRepository,
	inference repository.InferenceRepository,
	logRepo repository.PredictionLogRepository,
) PredictionService {
	return &predictionService{
		cfg:        cfg,
		log:        log,
		providers:  providers,
		marketData: marketData,
		inference:  inference,
		logRepo:    logRepo,
	}
}

// ResolveTimeframe maps a UI timeframe token to the requested step count.
// Unknown tokens fall back to a single step.
func ResolveTimeframe(timeframe string) int {
	if steps, ok := timeframeSteps[timeframe]; ok {
		return steps
	}
	return 1
}

func (s *predictionService) GetPrediction(ctx context.Context, req dto.PredictionRequest) (*dto.PredictionResponse, error) {
	req.ApplyDefaults()

	family := entity.ModelType(req.ModelType)
	provider, ok := s.providers.Get(family)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported model type %q", repository.ErrInference, req.ModelType)
	}

	requested := req.Horizon
	if requested == 0 {
		requested = ResolveTimeframe(req.Timeframe)
	}
	horizon := provider.ClampHorizon(requested)

	out, err := provider.Infer(ctx, req.Symbol, entity.SentimentType(req.SentimentType), req.TrainingSize, horizon)
	if err != nil {
		// ErrDataUnavailable and ErrInference stay distinct here; the UI
		// wording differs between the two.
		return nil, err
	}

	currentPrice := s.reconcileCurrentPrice(ctx, req.Symbol, out.CurrentPrice)
	forecast := DeriveForecast(currentPrice, out.Predictions)

	result := dto.PredictionResult{
		Symbol:       req.Symbol,
		CurrentPrice: currentPrice,
		Predictions:  out.Predictions,
		Horizon:      horizon,
		ModelInfo:    out.ModelInfo,
	}

	s.auditPrediction(ctx, req, result, forecast)

	return &dto.PredictionResponse{Result: result, Forecast: forecast}, nil
}

// reconcileCurrentPrice prefers the latest authoritative close over the
// model-reported price so every panel sourcing this symbol shows the same
// number. The model price is only a fallback.
func (s *predictionService) reconcileCurrentPrice(ctx context.Context, symbol string, modelPrice *float64) float64 {
	latest, err := s.marketData.Latest(ctx, symbol)
	if err == nil && latest.Close > 0 {
		return latest.Close
	}
	if err != nil && !errors.Is(err, repository.ErrDataUnavailable) {
		s.log.WarnContext(ctx, "Failed to fetch authoritative close, using model price", logger.ErrorField(err), logger.StringField("symbol", symbol))
	}
	if modelPrice != nil && *modelPrice > 0 {
		return *modelPrice
	}
	return 0
}

func (s *predictionService) auditPrediction(ctx context.Context, req dto.PredictionRequest, result dto.PredictionResult, forecast entity.DerivedForecast) {
	if s.logRepo == nil {
		return
	}
	data, err := json.Marshal(map[string]interface{}{
		"model_info":  result.ModelInfo,
		"predictions": result.Predictions,
		"forecast":    forecast,
	})
	if err != nil {
		return
	}
	record := &entity.PredictionLog{
		Symbol:        req.Symbol,
		ModelType:     req.ModelType,
		SentimentType: req.SentimentType,
		Horizon:       result.Horizon,
		CurrentPrice:  result.CurrentPrice,
		Trend:         string(forecast.Trend),
		Confidence:    forecast.Confidence,
		Data:          data,
	}
	if err := s.logRepo.Create(ctx, record); err != nil {
		s.log.Error("Failed to persist prediction log", logger.ErrorField(err), logger.StringField("symbol", req.Symbol))
	}
}

func (s *predictionService) ComputeIndicators(ctx context.Context, symbol string, limit int) (*indicator.Set, error) {
	if limit <= 0 {
		limit = defaultIndicatorBars
	}
	series, err := s.marketData.Historical(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	set := indicator.Compute(series.Closes(), defaultSMAPeriod, defaultEMAPeriod)
	return &set, nil
}

func (s *predictionService) GetModels(ctx context.Context) (*dto.ModelCatalogResponse, error) {
	return s.inference.ListModels(ctx)
}

func (s *predictionService) GetRecentLogs(ctx context.Context, symbol string, limit int) ([]entity.PredictionLog, error) {
	if s.logRepo == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.logRepo.GetRecent(ctx, symbol, limit)
}
