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
	"stock-insight-engine/internal/entity"
	"stock-insight-engine/pkg/common"
	"stock-insight-engine/pkg/logger"
	redisPkg "stock-insight-engine/pkg/redis"

	"golang.org/x/time/rate"
)

type marketDataRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	redisClient    *redisPkg.Client
}

// NewMarketDataRepository creates a rate-limited HTTP client for the data
// backend. The redis client is optional; when present, every authoritative
// latest close is mirrored there so independent panels agree on price.
func NewMarketDataRepository(cfg *config.Config, log *logger.Logger, redisClient *redisPkg.Client) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.MarketData.MaxRequestPerMinute)
	return &marketDataRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		redisClient:    redisClient,
	}
}

func (r *marketDataRepository) Historical(ctx context.Context, symbol string, limit int) (entity.PriceSeries, error) {
	endpoint := fmt.Sprintf("%s/stocks/%s", r.cfg.MarketData.BaseURL, url.PathEscape(symbol))
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}

	body, err := r.sendRequest(ctx, endpoint)
	if err != nil {
		return entity.PriceSeries{}, err
	}

	var response dto.HistoricalDataResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return entity.PriceSeries{}, fmt.Errorf("failed to decode historical data for %s: %w", symbol, err)
	}

	points := make([]entity.PricePoint, 0, len(response.Data))
	for _, p := range response.Data {
		points = append(points, p.ToEntity())
	}
	series := entity.NewPriceSeries(symbol, points)
	if series.Len() == 0 {
		return entity.PriceSeries{}, fmt.Errorf("%w: %s", ErrDataUnavailable, symbol)
	}
	return series, nil
}

func (r *marketDataRepository) Latest(ctx context.Context, symbol string) (entity.PricePoint, error) {
	endpoint := fmt.Sprintf("%s/stocks/%s/latest", r.cfg.MarketData.BaseURL, url.PathEscape(symbol))

	body, err := r.sendRequest(ctx, endpoint)
	if err != nil {
		return entity.PricePoint{}, err
	}

	var response dto.LatestDataResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return entity.PricePoint{}, fmt.Errorf("failed to decode latest data for %s: %w", symbol, err)
	}

	point := response.Latest.ToEntity()
	if point.Close <= 0 {
		return entity.PricePoint{}, fmt.Errorf("%w: %s", ErrDataUnavailable, symbol)
	}

	r.cacheLastPrice(ctx, symbol, point.Close)

	return point, nil
}

func (r *marketDataRepository) ListSymbols(ctx context.Context) ([]string, error) {
	endpoint := r.cfg.MarketData.BaseURL + "/stocks"

	body, err := r.sendRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response dto.SymbolListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode symbol list: %w", err)
	}
	return response.Stocks, nil
}

// cacheLastPrice mirrors the latest close into Redis. Failures are logged
// and ignored; the cache is an optimization, not a source of truth.
func (r *marketDataRepository) cacheLastPrice(ctx context.Context, symbol string, price float64) {
	if r.redisClient == nil {
		return
	}
	key := fmt.Sprintf(common.RedisKeyLastPrice, symbol)
	pipe := r.redisClient.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"price":     price,
		"timestamp": time.Now().Unix(),
	})
	pipe.Expire(ctx, key, 10*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.Error("Failed to cache last price", logger.ErrorField(err), logger.StringField("symbol", symbol))
	}
}

func (r *marketDataRepository) sendRequest(ctx context.Context, endpoint string) ([]byte, error) {
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
		r.log.ErrorContext(ctx, "Failed to reach data backend", logger.ErrorField(err), logger.StringField("url", endpoint))
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrDataUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from data backend", logger.IntField("status_code", resp.StatusCode), logger.StringField("url", endpoint))
		return nil, fmt.Errorf("%w: status %d", ErrDataUnavailable, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
