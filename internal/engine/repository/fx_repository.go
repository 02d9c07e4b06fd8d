package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stock-insight-engine/internal/engine/config"
	"stock-insight-engine/internal/engine/dto"
	"stock-insight-engine/pkg/common"
	"stock-insight-engine/pkg/logger"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

type fxRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	rateCache      *cache.Cache
	cacheTTL       time.Duration
}

// NewFXRepository creates a rate-limited client for the FX provider.
// Conversion rates only feed display formatting, so each pair is cached for
// an hour by default.
func NewFXRepository(cfg *config.Config, log *logger.Logger) FXRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.FX.MaxRequestPerMinute)
	ttl := time.Duration(cfg.FX.CacheTTLSeconds) * time.Second
	return &fxRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		rateCache:      cache.New(ttl, 2*ttl),
		cacheTTL:       ttl,
	}
}

func (r *fxRepository) GetRate(ctx context.Context, base, quote string) (*dto.FXRateResponse, error) {
	base = strings.ToUpper(base)
	quote = strings.ToUpper(quote)

	// The identity pair never needs a provider round trip.
	if base == quote {
		return &dto.FXRateResponse{Base: base, Quote: quote, Rate: 1.0, Source: "static"}, nil
	}

	cacheKey := fmt.Sprintf(common.CacheKeyFXRate, base, quote)
	if cached, ok := r.rateCache.Get(cacheKey); ok {
		return cached.(*dto.FXRateResponse), nil
	}

	endpoint := fmt.Sprintf("%s/latest?from=%s&to=%s", r.cfg.FX.BaseURL, url.QueryEscape(base), url.QueryEscape(quote))

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
		r.log.ErrorContext(ctx, "Failed to reach FX provider", logger.ErrorField(err), logger.StringField("pair", base+"/"+quote))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from FX provider", logger.IntField("status_code", resp.StatusCode), logger.StringField("pair", base+"/"+quote))
		return nil, fmt.Errorf("FX provider returned status %d for %s/%s", resp.StatusCode, base, quote)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var payload dto.FrankfurterLatest
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode FX rate for %s/%s: %w", base, quote, err)
	}

	rateValue, ok := payload.Rates[quote]
	if !ok {
		return nil, fmt.Errorf("FX provider returned no rate for %s/%s", base, quote)
	}

	out := &dto.FXRateResponse{
		Base:   base,
		Quote:  quote,
		Rate:   rateValue,
		Source: "frankfurter",
		Date:   payload.Date,
	}
	r.rateCache.Set(cacheKey, out, r.cacheTTL)
	return out, nil
}
