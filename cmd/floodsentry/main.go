package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/flood-sentry/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/flood-sentry/internal/adapter/kafka"
	"github.com/couchcryptid/flood-sentry/internal/adapter/mapbox"
	"github.com/couchcryptid/flood-sentry/internal/adapter/openweather"
	"github.com/couchcryptid/flood-sentry/internal/config"
	"github.com/couchcryptid/flood-sentry/internal/domain"
	"github.com/couchcryptid/flood-sentry/internal/observability"
	"github.com/couchcryptid/flood-sentry/internal/pipeline"
	"github.com/couchcryptid/flood-sentry/internal/sites"
	"github.com/couchcryptid/flood-sentry/internal/vision"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry, err := sites.Load(cfg.SitesFile)
	if err != nil {
		logger.Error("failed to load sites", "error", err)
		os.Exit(1)
	}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder, err := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		if err != nil {
			logger.Error("failed to create geocoder", "error", err)
			os.Exit(1)
		}
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
		registry = domain.EnrichSites(ctx, registry, geocoder, logger)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	var fixtures vision.FixtureLookup
	if cfg.VisionFixturesEnabled {
		fixtures = vision.DemoFixtures()
	}
	verifier := vision.NewVerifier(fixtures, logger)

	rainfall := domain.NewRainfallSource(
		openweather.NewClient(cfg.WeatherTimeout, metrics, logger),
		cfg.WeatherCity,
		cfg.WeatherTimeout,
	)

	// Initialize alert publisher (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("alert publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaAlertTopic)
	} else {
		logger.Info("alert publishing disabled")
	}

	evaluator := pipeline.NewEvaluator(rainfall, verifier, registry, cfg.CameraFeeds, publisher, logger, metrics)

	defaults := pipeline.CycleInput{
		RainfallMode:   cfg.RainfallMode,
		APIKey:         cfg.OpenWeatherAPIKey,
		ManualRainfall: cfg.ManualRainfall,
		CameraFeed:     cfg.CameraFeed,
	}
	monitor := pipeline.NewMonitor(evaluator, defaults, cfg.MonitorSchedule, logger, metrics)

	api := httpadapter.NewAPI(evaluator, verifier, defaults, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, monitor, api, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start scheduled monitoring.
	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		if err := monitor.Run(ctx); err != nil {
			logger.Error("monitor error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-monitorDone:
	case <-shutdownCtx.Done():
		logger.Warn("monitor did not stop before shutdown timeout")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
