package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"stock-insight-engine/internal/engine/config"
	"stock-insight-engine/internal/engine/dto"
	"stock-insight-engine/internal/engine/repository"
	"stock-insight-engine/internal/entity"
	"stock-insight-engine/pkg/common"
	"stock-insight-engine/pkg/logger"
	"stock-insight-engine/pkg/metrics"
	"stock-insight-engine/pkg/telegram"
)

// ErrEmptyBatch is returned only when every attempted fetch in a synthesis
// run failed. Individual failures never surface; they just thin the batch.
var ErrEmptyBatch = errors.New("alert synthesis produced nothing: all fetches failed")

// AlertService synthesizes, stores, and mutates the alert list.
type AlertService interface {
	Synthesize(ctx context.Context) ([]entity.Alert, error)
	List() []entity.Alert
	MarkRead(id int64) bool
	Delete(id int64) bool
	Clear()
}

type alertService struct {
	cfg         *config.Config
	log         *logger.Logger
	store       *AlertStore
	marketData  repository.MarketDataRepository
	news        repository.NewsSentimentRepository
	watchlist   repository.WatchlistRepository
	preferences repository.PreferencesRepository
	predictions PredictionService
	notifier    telegram.Notifier
}

// NewAlertService creates the alert synthesizer. The notifier may be nil;
// Telegram delivery of high-severity alerts is optional.
func NewAlertService(
	cfg *config.Config,
	log *logger.Logger,
	store *AlertStore,
	marketData repository.MarketDataRepository,
	news repository.NewsSentimentRepository,
	watchlist repository.WatchlistRepository,
	preferences repository.PreferencesRepository,
	predictions PredictionService,
	notifier telegram.Notifier,
) AlertService {
	return &alertService{
		cfg:         cfg,
		log:         log,
		store:       store,
		marketData:  marketData,
		news:        news,
		watchlist:   watchlist,
		preferences: preferences,
		predictions: predictions,
		notifier:    notifier,
	}
}

// Synthesize runs one full synthesis pass. Watchlist and preferences are
// snapshotted once at the start; the produced list fully replaces the
// previous one. A concurrent run is not cancelled; last writer wins.
func (s *alertService) Synthesize(ctx context.Context) ([]entity.Alert, error) {
	prefs, err := s.preferences.Get(ctx)
	if err != nil {
		s.log.Error("Failed to load preferences, using defaults", logger.ErrorField(err))
		prefs = entity.DefaultPreferences()
	}

	symbols := s.resolveSymbols(ctx)

	var (
		mu        sync.Mutex
		alerts    []entity.Alert
		attempted atomic.Int64
		succeeded atomic.Int64
		wg        sync.WaitGroup
	)

	collect := func(a *entity.Alert) {
		succeeded.Add(1)
		if a == nil {
			return // fetched fine, suppressed by policy
		}
		mu.Lock()
		alerts = append(alerts, *a)
		mu.Unlock()
		metrics.AlertsGenerated.WithLabelValues(string(a.Type), string(a.Severity)).Inc()
	}

	// Preference gating happens before any fetch is attempted, so disabled
	// categories cost nothing.
	if prefs.PriceAlerts {
		for _, symbol := range capBatch(symbols, s.cfg.Alerts.PriceBatchSize) {
			wg.Add(1)
			attempted.Add(1)
			go func(symbol string) {
				defer wg.Done()
				a, err := s.priceAlert(ctx, symbol)
				if err != nil {
					s.logSkip(ctx, "price", symbol, err)
					return
				}
				collect(a)
			}(symbol)
		}
	}

	if prefs.SentimentAlerts {
		for _, symbol := range capBatch(symbols, s.cfg.Alerts.SentimentBatchSize) {
			wg.Add(1)
			attempted.Add(1)
			go func(symbol string) {
				defer wg.Done()
				a, err := s.sentimentAlert(ctx, symbol)
				if err != nil {
					s.logSkip(ctx, "sentiment", symbol, err)
					return
				}
				collect(a)
			}(symbol)
		}
	}

	if prefs.PredictionAlerts {
		for _, symbol := range capBatch(symbols, s.cfg.Alerts.PredictionBatchSize) {
			wg.Add(1)
			attempted.Add(1)
			go func(symbol string) {
				defer wg.Done()
				a, err := s.predictionAlert(ctx, symbol)
				if err != nil {
					s.logSkip(ctx, "prediction", symbol, err)
					return
				}
				collect(a)
			}(symbol)
		}
	}

	wg.Wait()

	if attempted.Load() > 0 && succeeded.Load() == 0 {
		return nil, ErrEmptyBatch
	}

	s.store.Replace(alerts)
	metrics.SynthesisRuns.Inc()

	result := s.store.List()
	s.notifyHighSeverity(result)

	s.log.InfoContext(ctx, "Alert synthesis completed",
		logger.IntField("symbols", len(symbols)),
		logger.IntField("alerts", len(result)))

	return result, nil
}

// resolveSymbols snapshots the watchlist, falling back to a fixed liquid
// set when it is empty or unreadable.
func (s *alertService) resolveSymbols(ctx context.Context) []string {
	items, err := s.watchlist.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to load watchlist, using fallback symbols", logger.ErrorField(err))
		return common.FallbackSymbols
	}
	if len(items) == 0 {
		return common.FallbackSymbols
	}
	symbols := make([]string, 0, len(items))
	for _, item := range items {
		symbols = append(symbols, item.Symbol)
	}
	return symbols
}

func (s *alertService) priceAlert(ctx context.Context, symbol string) (*entity.Alert, error) {
	series, err := s.marketData.Historical(ctx, symbol, 2)
	if err != nil {
		return nil, err
	}
	points := series.Points
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: %s has fewer than two closes", repository.ErrDataUnavailable, symbol)
	}

	prev := points[len(points)-2].Close
	latest := points[len(points)-1].Close
	pct := 0.0
	if prev > 0 {
		pct = (latest - prev) / prev * 100
	}

	direction := "up"
	if pct < 0 {
		direction = "down"
	}

	a := s.newAlert(entity.AlertTypePrice, s.severityForChange(pct), symbol,
		fmt.Sprintf("%s moved %s %.2f%%", symbol, direction, math.Abs(pct)),
		fmt.Sprintf("%s closed at %.2f, %+.2f%% versus the previous close of %.2f.", symbol, latest, pct, prev),
	)
	return &a, nil
}

func (s *alertService) sentimentAlert(ctx context.Context, symbol string) (*entity.Alert, error) {
	out, err := s.news.GetSentiment(ctx, symbol, s.cfg.Alerts.SentimentLookbackDays, s.cfg.Alerts.SentimentArticleLimit)
	if err != nil {
		return nil, err
	}

	score := out.SentimentScore

	// Scores inside the band around neutral are deliberately suppressed to
	// cut noise, not an oversight.
	if score > s.cfg.Alerts.SentimentLowerBand && score < s.cfg.Alerts.SentimentUpperBand {
		return nil, nil
	}

	severity := entity.SeverityMedium
	if score <= s.cfg.Alerts.SentimentLowerBand {
		severity = entity.SeverityHigh
	}

	a := s.newAlert(entity.AlertTypeSentiment, severity, symbol,
		fmt.Sprintf("%s news sentiment is %s", symbol, out.OverallSentiment),
		fmt.Sprintf("%d recent articles on %s average a sentiment score of %.2f (%s).",
			out.TotalArticles, symbol, score, out.OverallSentiment),
	)
	return &a, nil
}

func (s *alertService) predictionAlert(ctx context.Context, symbol string) (*entity.Alert, error) {
	// LSTM 1-step is the cheap default for batch scanning.
	out, err := s.predictions.GetPrediction(ctx, dto.PredictionRequest{
		Symbol:        symbol,
		ModelType:     string(entity.ModelLSTM),
		SentimentType: string(entity.SentimentNone),
		TrainingSize:  50,
		Horizon:       1,
	})
	if err != nil {
		return nil, err
	}

	pct := out.Forecast.ChangePercent
	a := s.newAlert(entity.AlertTypePrediction, s.severityForChange(pct), symbol,
		fmt.Sprintf("%s forecast: %s %+.2f%%", symbol, out.Forecast.Trend, pct),
		fmt.Sprintf("Next-step model forecast for %s is %.2f against a current price of %.2f (confidence %.0f).",
			symbol, out.Result.Predictions[0], out.Result.CurrentPrice, out.Forecast.Confidence),
	)
	return &a, nil
}

// severityForChange applies the shared {2%, 1%} thresholds on an absolute
// percent move.
func (s *alertService) severityForChange(pct float64) entity.AlertSeverity {
	abs := math.Abs(pct)
	switch {
	case abs >= s.cfg.Alerts.HighChangePercent:
		return entity.SeverityHigh
	case abs >= s.cfg.Alerts.MediumChangePercent:
		return entity.SeverityMedium
	default:
		return entity.SeverityLow
	}
}

func (s *alertService) newAlert(alertType entity.AlertType, severity entity.AlertSeverity, symbol, title, message string) entity.Alert {
	return entity.Alert{
		ID:        s.store.NextID(),
		Type:      alertType,
		Severity:  severity,
		Symbol:    symbol,
		Title:     title,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func (s *alertService) logSkip(ctx context.Context, signal, symbol string, err error) {
	// A missing provider config is routine, not an error.
	if errors.Is(err, repository.ErrNotConfigured) {
		s.log.DebugContext(ctx, "Signal provider not configured, skipping", logger.StringField("signal", signal), logger.StringField("symbol", symbol))
		return
	}
	s.log.WarnContext(ctx, "Skipping symbol for signal", logger.StringField("signal", signal), logger.StringField("symbol", symbol), logger.ErrorField(err))
}

func (s *alertService) notifyHighSeverity(alerts []entity.Alert) {
	if s.notifier == nil {
		return
	}
	message := telegram.FormatHighSeverityAlerts(alerts)
	if message == "" {
		return
	}
	if err := s.notifier.SendMessage(message); err != nil {
		s.log.Error("Failed to send Telegram notification", logger.ErrorField(err))
	}
}

func (s *alertService) List() []entity.Alert {
	return s.store.List()
}

func (s *alertService) MarkRead(id int64) bool {
	return s.store.MarkRead(id)
}

func (s *alertService) Delete(id int64) bool {
	return s.store.Delete(id)
}

func (s *alertService) Clear() {
	s.store.Clear()
}

func capBatch(symbols []string, max int) []string {
	if max > 0 && len(symbols) > max {
		return symbols[:max]
	}
	return symbols
}
