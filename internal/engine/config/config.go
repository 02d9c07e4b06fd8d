package config

import (
	"stock-insight-engine/pkg/config"
)

// MarketData holds the configuration for the historical price data API.
type MarketData struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Inference holds the configuration for the model inference API.
type Inference struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// News holds the configuration for the news sentiment API. An empty base URL
// means the provider is not configured and sentiment alerts are skipped.
type News struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	CacheTTLSeconds     int    `mapstructure:"cache_ttl_seconds"`
}

// FX holds the configuration for the currency conversion provider.
// Frankfurter needs no API key; rates are cached for an hour since the
// dashboard only uses them for display conversion.
type FX struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	CacheTTLSeconds     int    `mapstructure:"cache_ttl_seconds"`
}

// Alerts holds alert synthesis policy. The thresholds are deliberate policy
// constants carried over from the dashboard, not derived values.
type Alerts struct {
	RefreshCron           string  `mapstructure:"refresh_cron"`
	PriceBatchSize        int     `mapstructure:"price_batch_size"`
	SentimentBatchSize    int     `mapstructure:"sentiment_batch_size"`
	PredictionBatchSize   int     `mapstructure:"prediction_batch_size"`
	HighChangePercent     float64 `mapstructure:"high_change_percent"`
	MediumChangePercent   float64 `mapstructure:"medium_change_percent"`
	SentimentUpperBand    float64 `mapstructure:"sentiment_upper_band"`
	SentimentLowerBand    float64 `mapstructure:"sentiment_lower_band"`
	SentimentLookbackDays int     `mapstructure:"sentiment_lookback_days"`
	SentimentArticleLimit int     `mapstructure:"sentiment_article_limit"`
}

// Telegram holds configuration for the optional Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the insight engine service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	API        config.API      `mapstructure:"api"`
	MarketData MarketData      `mapstructure:"market_data"`
	Inference  Inference       `mapstructure:"inference"`
	News       News            `mapstructure:"news"`
	FX         FX              `mapstructure:"fx"`
	Alerts     Alerts          `mapstructure:"alerts"`
	Telegram   Telegram        `mapstructure:"telegram"`
}

// Load loads the engine configuration from the given path and fills in
// policy defaults for anything left unset.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Alerts.PriceBatchSize == 0 {
		cfg.Alerts.PriceBatchSize = 8
	}
	if cfg.Alerts.SentimentBatchSize == 0 {
		cfg.Alerts.SentimentBatchSize = 6
	}
	if cfg.Alerts.PredictionBatchSize == 0 {
		cfg.Alerts.PredictionBatchSize = 4
	}
	if cfg.Alerts.HighChangePercent == 0 {
		cfg.Alerts.HighChangePercent = 2.0
	}
	if cfg.Alerts.MediumChangePercent == 0 {
		cfg.Alerts.MediumChangePercent = 1.0
	}
	if cfg.Alerts.SentimentUpperBand == 0 {
		cfg.Alerts.SentimentUpperBand = 0.62
	}
	if cfg.Alerts.SentimentLowerBand == 0 {
		cfg.Alerts.SentimentLowerBand = 0.38
	}
	if cfg.Alerts.SentimentLookbackDays == 0 {
		cfg.Alerts.SentimentLookbackDays = 7
	}
	if cfg.Alerts.SentimentArticleLimit == 0 {
		cfg.Alerts.SentimentArticleLimit = 15
	}
	if cfg.MarketData.MaxRequestPerMinute == 0 {
		cfg.MarketData.MaxRequestPerMinute = 60
	}
	if cfg.Inference.MaxRequestPerMinute == 0 {
		cfg.Inference.MaxRequestPerMinute = 30
	}
	if cfg.News.MaxRequestPerMinute == 0 {
		cfg.News.MaxRequestPerMinute = 30
	}
	if cfg.News.CacheTTLSeconds == 0 {
		cfg.News.CacheTTLSeconds = 60
	}
	if cfg.FX.BaseURL == "" {
		cfg.FX.BaseURL = "https://api.frankfurter.app"
	}
	if cfg.FX.MaxRequestPerMinute == 0 {
		cfg.FX.MaxRequestPerMinute = 30
	}
	if cfg.FX.CacheTTLSeconds == 0 {
		cfg.FX.CacheTTLSeconds = 3600
	}
}
