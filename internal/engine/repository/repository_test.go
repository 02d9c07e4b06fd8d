package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"stock-insight-engine/internal/engine/config"
	"stock-insight-engine/internal/engine/dto"
	"stock-insight-engine/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repoConfig(baseURL string) *config.Config {
	return &config.Config{
		MarketData: config.MarketData{BaseURL: baseURL, MaxRequestPerMinute: 6000},
		Inference:  config.Inference{BaseURL: baseURL, MaxRequestPerMinute: 6000},
		News:       config.News{BaseURL: baseURL, MaxRequestPerMinute: 6000, CacheTTLSeconds: 60},
		FX:         config.FX{BaseURL: baseURL, MaxRequestPerMinute: 6000, CacheTTLSeconds: 3600},
	}
}

func TestHistoricalParsesBackendPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stocks/AAPL", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(dto.HistoricalDataResponse{
			Symbol: "AAPL",
			Count:  2,
			Data: []dto.PricePointDTO{
				{Date: "2026-08-27", Open: 99, High: 101, Low: 98, Close: 100, Volume: 1000},
				{Date: "2026-08-28 00:00:00", Open: 100, High: 103, Low: 99, Close: 102, Volume: 1200},
			},
		})
	}))
	defer server.Close()

	repo := NewMarketDataRepository(repoConfig(server.URL), logger.NewNop(), nil)
	series, err := repo.Historical(context.Background(), "AAPL", 5)
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())
	assert.Equal(t, []float64{100, 102}, series.Closes())
	assert.Equal(t, 2026, series.Points[0].Date.Year())
}

func TestHistoricalMapsMissingSymbolToDataUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	repo := NewMarketDataRepository(repoConfig(server.URL), logger.NewNop(), nil)
	_, err := repo.Historical(context.Background(), "ZZZZ", 0)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestHistoricalEmptySeriesIsDataUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(dto.HistoricalDataResponse{Symbol: "AAPL"})
	}))
	defer server.Close()

	repo := NewMarketDataRepository(repoConfig(server.URL), logger.NewNop(), nil)
	_, err := repo.Historical(context.Background(), "AAPL", 0)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestLatestRejectsNonPositiveClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(dto.LatestDataResponse{
			Symbol: "AAPL",
			Latest: dto.PricePointDTO{Date: "2026-08-28", Close: 0},
		})
	}))
	defer server.Close()

	repo := NewMarketDataRepository(repoConfig(server.URL), logger.NewNop(), nil)
	_, err := repo.Latest(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestPredictSendsExpectedPayload(t *testing.T) {
	var got dto.InferencePayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predictions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(dto.InferenceResponse{
			Symbol:      got.Symbol,
			Predictions: []float64{101.2, 102.4, 103.1},
		})
	}))
	defer server.Close()

	repo := NewInferenceRepository(repoConfig(server.URL), logger.NewNop())
	out, err := repo.Predict(context.Background(), dto.InferencePayload{
		Symbol:           "AAPL",
		ModelType:        "LSTM",
		SentimentType:    "nonsentiment",
		NumCSVs:          50,
		PredictionLength: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, 3, got.PredictionLength)
	assert.Len(t, out.Predictions, 3)
}

func TestPredictErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"missing data is 404", http.StatusNotFound, ErrDataUnavailable},
		{"model failure is 500", http.StatusInternalServerError, ErrInference},
		{"bad request is inference", http.StatusBadRequest, ErrInference},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", tc.status)
			}))
			defer server.Close()

			repo := NewInferenceRepository(repoConfig(server.URL), logger.NewNop())
			_, err := repo.Predict(context.Background(), dto.InferencePayload{Symbol: "AAPL"})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestListSymbolsParsesBackendPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stocks", r.URL.Path)
		json.NewEncoder(w).Encode(dto.SymbolListResponse{
			Stocks: []string{"AAPL", "MSFT", "TSLA"},
			Count:  3,
		})
	}))
	defer server.Close()

	repo := NewMarketDataRepository(repoConfig(server.URL), logger.NewNop(), nil)
	symbols, err := repo.ListSymbols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "TSLA"}, symbols)
}

func TestGetRateIdentityPairSkipsProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("identity pair must not hit the provider")
	}))
	defer server.Close()

	repo := NewFXRepository(repoConfig(server.URL), logger.NewNop())
	out, err := repo.GetRate(context.Background(), "usd", "USD")
	require.NoError(t, err)
	assert.Equal(t, "USD", out.Base)
	assert.Equal(t, "USD", out.Quote)
	assert.Equal(t, 1.0, out.Rate)
	assert.Equal(t, "static", out.Source)
}

func TestGetRateParsesAndCachesProviderPayload(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("from"))
		assert.Equal(t, "EUR", r.URL.Query().Get("to"))
		json.NewEncoder(w).Encode(dto.FrankfurterLatest{
			Base:  "USD",
			Date:  "2026-08-28",
			Rates: map[string]float64{"EUR": 0.91},
		})
	}))
	defer server.Close()

	repo := NewFXRepository(repoConfig(server.URL), logger.NewNop())
	first, err := repo.GetRate(context.Background(), "usd", "eur")
	require.NoError(t, err)
	assert.Equal(t, 0.91, first.Rate)
	assert.Equal(t, "frankfurter", first.Source)
	assert.Equal(t, "2026-08-28", first.Date)

	second, err := repo.GetRate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second read must come from cache")
	assert.Equal(t, first.Rate, second.Rate)
}

func TestGetRateProviderFailures(t *testing.T) {
	t.Run("non-OK status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		defer server.Close()

		repo := NewFXRepository(repoConfig(server.URL), logger.NewNop())
		_, err := repo.GetRate(context.Background(), "USD", "EUR")
		assert.Error(t, err)
	})

	t.Run("missing rate in payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(dto.FrankfurterLatest{Base: "USD", Rates: map[string]float64{}})
		}))
		defer server.Close()

		repo := NewFXRepository(repoConfig(server.URL), logger.NewNop())
		_, err := repo.GetRate(context.Background(), "USD", "EUR")
		assert.Error(t, err)
	})
}

func TestGetSentimentNotConfigured(t *testing.T) {
	// No base URL at all.
	repo := NewNewsSentimentRepository(repoConfig(""), logger.NewNop())
	_, err := repo.GetSentiment(context.Background(), "AAPL", 7, 15)
	assert.ErrorIs(t, err, ErrNotConfigured)

	// Backend up but missing its own provider key.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"news provider not configured"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	repo = NewNewsSentimentRepository(repoConfig(server.URL), logger.NewNop())
	_, err = repo.GetSentiment(context.Background(), "AAPL", 7, 15)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGetSentimentCachesResponses(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/news/AAPL", r.URL.Path)
		json.NewEncoder(w).Encode(dto.NewsSentimentResponse{
			Stock:            "AAPL",
			TotalArticles:    3,
			OverallSentiment: "Positive",
			SentimentScore:   0.71,
		})
	}))
	defer server.Close()

	repo := NewNewsSentimentRepository(repoConfig(server.URL), logger.NewNop())
	first, err := repo.GetSentiment(context.Background(), "AAPL", 7, 15)
	require.NoError(t, err)
	second, err := repo.GetSentiment(context.Background(), "AAPL", 7, 15)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second read must come from cache")
	assert.Equal(t, first.SentimentScore, second.SentimentScore)
}
