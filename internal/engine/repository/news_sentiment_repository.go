package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"stock-insight-engine/internal/engine/config"
	"stock-insight-engine/internal/engine/dto"
	"stock-insight-engine/pkg/common"
	"stock-insight-engine/pkg/logger"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

type newsSentimentRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	responseCache  *cache.Cache
	cacheTTL       time.Duration
}

// NewNewsSentimentRepository creates a rate-limited HTTP client for the
// news sentiment API with a short in-memory response cache, matching the
// backend's own cache window.
func NewNewsSentimentRepository(cfg *config.Config, log *logger.Logger) NewsSentimentRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.News.MaxRequestPerMinute)
	ttl := time.Duration(cfg.News.CacheTTLSeconds) * time.Second
	return &newsSentimentRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		responseCache:  cache.New(ttl, 2*ttl),
		cacheTTL:       ttl,
	}
}

func (r *newsSentimentRepository) GetSentiment(ctx context.Context, symbol string, days, limit int) (*dto.NewsSentimentResponse, error) {
	if r.cfg.News.BaseURL == "" {
		return nil, ErrNotConfigured
	}

	cacheKey := fmt.Sprintf(common.CacheKeyNewsSentiment, symbol, days, limit)
	if cached, ok := r.responseCache.Get(cacheKey); ok {
		return cached.(*dto.NewsSentimentResponse), nil
	}

	endpoint := fmt.Sprintf("%s/news/%s?days=%d&limit=%d", r.cfg.News.BaseURL, url.PathEscape(symbol), days, limit)

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to reach news API", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, err
	}
	defer resp.Body.Close()

	// 503 means the backend itself has no news provider key configured.
	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, ErrNotConfigured
	}
	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from news API", logger.IntField("status_code", resp.StatusCode), logger.StringField("symbol", symbol))
		return nil, fmt.Errorf("news API returned status %d for %s", resp.StatusCode, symbol)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var response dto.NewsSentimentResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode news sentiment for %s: %w", symbol, err)
	}

	r.responseCache.Set(cacheKey, &response, r.cacheTTL)
	return &response, nil
}
