package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stock-insight-engine/internal/engine/config"
	"stock-insight-engine/internal/engine/dto"
	"stock-insight-engine/pkg/common"
	"stock-insight-engine/pkg/logger"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

type inferenceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	catalogCache   *cache.Cache
}

// NewInferenceRepository creates a rate-limited HTTP client for the model
// inference backend. The model catalog barely changes, so it is cached
// in-memory for five minutes.
func NewInferenceRepository(cfg *config.Config, log *logger.Logger) InferenceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Inference.MaxRequestPerMinute)
	return &inferenceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		catalogCache:   cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (r *inferenceRepository) Predict(ctx context.Context, payload dto.InferencePayload) (*dto.InferenceResponse, error) {
	endpoint := r.cfg.Inference.BaseURL + "/predictions"

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to reach inference backend", logger.ErrorField(err), logger.StringField("symbol", payload.Symbol), logger.StringField("model_type", payload.ModelType))
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}
	defer resp.Body.Close()

	// The backend answers 404 when it has no series for the symbol;
	// keep that distinct from a model failure.
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, payload.Symbol)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.log.ErrorContext(ctx, "Received non-OK response from inference backend",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("symbol", payload.Symbol),
			logger.StringField("model_type", payload.ModelType),
			logger.StringField("body", string(body)))
		return nil, fmt.Errorf("%w: status %d", ErrInference, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}

	var response dto.InferenceResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}
	return &response, nil
}

func (r *inferenceRepository) ListModels(ctx context.Context) (*dto.ModelCatalogResponse, error) {
	if cached, ok := r.catalogCache.Get(common.CacheKeyModelCatalog); ok {
		return cached.(*dto.ModelCatalogResponse), nil
	}

	endpoint := r.cfg.Inference.BaseURL + "/predictions/models"

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrInference, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}

	var response dto.ModelCatalogResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}

	r.catalogCache.Set(common.CacheKeyModelCatalog, &response, cache.DefaultExpiration)
	return &response, nil
}
