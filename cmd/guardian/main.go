package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/weather-guardian/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/weather-guardian/internal/adapter/kafka"
	"github.com/couchcryptid/weather-guardian/internal/adapter/nominatim"
	"github.com/couchcryptid/weather-guardian/internal/adapter/openmeteo"
	"github.com/couchcryptid/weather-guardian/internal/assistant"
	"github.com/couchcryptid/weather-guardian/internal/config"
	"github.com/couchcryptid/weather-guardian/internal/domain"
	"github.com/couchcryptid/weather-guardian/internal/guardrail"
	"github.com/couchcryptid/weather-guardian/internal/observability"
	"github.com/couchcryptid/weather-guardian/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	geocoder := nominatim.NewClient(cfg.GeocodeBaseURL, cfg.GeocodeTimeout, metrics, logger)
	var resolver domain.LocationResolver = nominatim.NewCachedResolver(geocoder, cfg.GeocodeCacheSize)
	fetcher := openmeteo.NewClient(cfg.ForecastBaseURL, cfg.ForecastTimeout, metrics, logger)

	// Audit trail: always log; additionally publish to Kafka when enabled.
	var sink guardrail.AuditSink = guardrail.NewLogSink(logger)
	var publisher *kafkaadapter.AuditPublisher
	if cfg.AuditKafkaEnabled {
		publisher = kafkaadapter.NewAuditPublisher(cfg.KafkaBrokers, cfg.KafkaAuditTopic, logger)
		sink = guardrail.MultiSink{sink, publisher}
		logger.Info("kafka audit trail enabled", "topic", cfg.KafkaAuditTopic)
	}

	store := session.NewStore(nil)
	engine := guardrail.New(sink, metrics, nil)
	a := assistant.New(resolver, fetcher, store, engine, nil, logger, metrics)
	srv := httpapi.NewServer(cfg.HTTPAddr, a, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.MarkReady()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
