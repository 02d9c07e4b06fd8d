package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-insight-engine/internal/engine/config"
	delivery "stock-insight-engine/internal/engine/delivery/http"
	"stock-insight-engine/internal/engine/repository"
	"stock-insight-engine/internal/engine/scheduler"
	"stock-insight-engine/internal/engine/service"
	"stock-insight-engine/pkg/logger"
	"stock-insight-engine/pkg/metrics"
	"stock-insight-engine/pkg/postgres"
	redisPkg "stock-insight-engine/pkg/redis"
	"stock-insight-engine/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the insight engine service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Insight Engine Service", logger.StringField("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redisPkg.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redisPkg.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize metrics
	metrics.Register()

	// Initialize repositories
	marketDataRepo := repository.NewMarketDataRepository(cfg, appLogger, redisClient)
	inferenceRepo := repository.NewInferenceRepository(cfg, appLogger)
	newsRepo := repository.NewNewsSentimentRepository(cfg, appLogger)
	fxRepo := repository.NewFXRepository(cfg, appLogger)
	watchlistRepo := repository.NewWatchlistRepository(db.DB)
	preferencesRepo := repository.NewPreferencesRepository(db.DB)
	predictionLogRepo := repository.NewPredictionLogRepository(db.DB)

	// Initialize the optional Telegram notifier
	var telegramNotifier telegram.Notifier
	if cfg.Telegram.Enabled {
		telegramNotifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize services
	providers := service.NewProviderRegistry(inferenceRepo)
	predictionSvc := service.NewPredictionService(cfg, appLogger, providers, marketDataRepo, inferenceRepo, predictionLogRepo)
	alertStore := service.NewAlertStore()
	alertSvc := service.NewAlertService(cfg, appLogger, alertStore, marketDataRepo, newsRepo, watchlistRepo, preferencesRepo, predictionSvc, telegramNotifier)

	// Start the alert refresh scheduler
	alertScheduler := scheduler.New(appLogger, alertSvc, cfg.Alerts.RefreshCron)
	if err := alertScheduler.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start alert scheduler", logger.ErrorField(err))
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Validator = delivery.NewRequestValidator()

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	predictionHandler := delivery.NewPredictionHandler(predictionSvc, appLogger)
	predictionHandler.RegisterRoutes(apiV1.Group("/predictions"))

	stockHandler := delivery.NewStockHandler(marketDataRepo, predictionSvc, appLogger)
	stockHandler.RegisterRoutes(apiV1.Group("/stocks"))

	alertHandler := delivery.NewAlertHandler(alertSvc, appLogger)
	alertHandler.RegisterRoutes(apiV1.Group("/alerts"))

	newsHandler := delivery.NewNewsHandler(newsRepo, appLogger)
	newsHandler.RegisterRoutes(apiV1.Group("/news"))

	fxHandler := delivery.NewFXHandler(fxRepo, appLogger)
	fxHandler.RegisterRoutes(apiV1.Group("/fx"))

	settingsHandler := delivery.NewSettingsHandler(watchlistRepo, preferencesRepo, appLogger)
	settingsHandler.RegisterWatchlistRoutes(apiV1.Group("/watchlist"))
	settingsHandler.RegisterPreferenceRoutes(apiV1.Group("/settings/preferences"))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.StringField("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down insight engine service...")
	alertScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", logger.ErrorField(err))
	}
	appLogger.Info("Insight engine service stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "engine-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-engine.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing engine-service CLI: %s\n", err)
		os.Exit(1)
	}
}
