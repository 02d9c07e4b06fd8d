package repository

import (
	"context"
	"errors"

	"stock-insight-engine/internal/engine/dto"
	"stock-insight-engine/internal/entity"
)

var (
	// ErrDataUnavailable means the symbol has no or empty historical series.
	// Surfaced to the user as a "data not available" state, never retried
	// automatically.
	ErrDataUnavailable = errors.New("stock data not available")

	// ErrInference means the model provider failed or the family/horizon
	// combination is unsupported. Kept distinct from ErrDataUnavailable
	// because the UI messages differ.
	ErrInference = errors.New("model inference failed")

	// ErrNotConfigured means an optional provider has no configuration.
	// Alerts depending on it are skipped silently.
	ErrNotConfigured = errors.New("provider not configured")
)

// MarketDataRepository serves historical and latest prices from the data
// backend, the same source the charts use.
type MarketDataRepository interface {
	Historical(ctx context.Context, symbol string, limit int) (entity.PriceSeries, error)
	Latest(ctx context.Context, symbol string) (entity.PricePoint, error)
	ListSymbols(ctx context.Context) ([]string, error)
}

// FXRepository serves currency conversion rates.
type FXRepository interface {
	GetRate(ctx context.Context, base, quote string) (*dto.FXRateResponse, error)
}

// InferenceRepository calls the trained-model inference backend.
type InferenceRepository interface {
	Predict(ctx context.Context, payload dto.InferencePayload) (*dto.InferenceResponse, error)
	ListModels(ctx context.Context) (*dto.ModelCatalogResponse, error)
}

// NewsSentimentRepository serves news-derived sentiment for a symbol.
type NewsSentimentRepository interface {
	GetSentiment(ctx context.Context, symbol string, days, limit int) (*dto.NewsSentimentResponse, error)
}

// WatchlistRepository persists the user-curated symbol list.
type WatchlistRepository interface {
	GetAll(ctx context.Context) ([]entity.WatchlistItem, error)
	Add(ctx context.Context, symbol string) (*entity.WatchlistItem, error)
	Remove(ctx context.Context, symbol string) error
}

// PreferencesRepository persists the notification preference toggles.
type PreferencesRepository interface {
	Get(ctx context.Context) (entity.NotificationPreferences, error)
	Save(ctx context.Context, prefs entity.NotificationPreferences) error
}

// PredictionLogRepository persists prediction audit records.
type PredictionLogRepository interface {
	Create(ctx context.Context, log *entity.PredictionLog) error
	GetRecent(ctx context.Context, symbol string, limit int) ([]entity.PredictionLog, error)
}
