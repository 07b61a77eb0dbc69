package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/flight-planner-service/internal/adapter/avwx"
	"github.com/couchcryptid/flight-planner-service/internal/adapter/checkwx"
	httpadapter "github.com/couchcryptid/flight-planner-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/flight-planner-service/internal/adapter/kafka"
	"github.com/couchcryptid/flight-planner-service/internal/adapter/openai"
	"github.com/couchcryptid/flight-planner-service/internal/auth"
	"github.com/couchcryptid/flight-planner-service/internal/config"
	"github.com/couchcryptid/flight-planner-service/internal/event"
	"github.com/couchcryptid/flight-planner-service/internal/observability"
	"github.com/couchcryptid/flight-planner-service/internal/planner"
	"github.com/couchcryptid/flight-planner-service/internal/store"
	"github.com/couchcryptid/flight-planner-service/internal/store/memory"
	"github.com/couchcryptid/flight-planner-service/internal/store/postgres"
	"github.com/couchcryptid/flight-planner-service/internal/weather"
)

// alwaysReady is the readiness check for the in-memory store.
type alwaysReady struct{}

func (alwaysReady) CheckReadiness(_ context.Context) error { return nil }

// pgReadiness reports ready when the database answers a ping.
type pgReadiness struct {
	db *postgres.Store
}

func (r pgReadiness) CheckReadiness(ctx context.Context) error { return r.db.Ping(ctx) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage: Postgres when DATABASE_URL is set, in-memory otherwise.
	var (
		st    store.Store
		ready httpadapter.ReadinessChecker
	)
	var pg *postgres.Store
	if cfg.DatabaseURL != "" {
		pg, err = postgres.New(ctx, cfg.DatabaseURL, clock, logger)
		if err != nil {
			logger.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		st = pg
		ready = pgReadiness{db: pg}
		logger.Info("using postgres store")
	} else {
		st = memory.New(clock)
		ready = alwaysReady{}
		logger.Warn("DATABASE_URL not set, using in-memory store; data is lost on restart")
	}

	// Weather: aviationweather.gov is always available, CheckWX takes
	// priority when an API key is configured.
	avwxClient := avwx.NewClient(cfg.WeatherTimeout, logger)
	var source weather.Source = weather.Instrument(avwxClient, "avwx", metrics.WeatherRequests)
	if cfg.CheckWXAPIKey != "" {
		source = weather.NewFallback(
			weather.Instrument(checkwx.NewClient(cfg.CheckWXAPIKey, cfg.WeatherTimeout, logger), "checkwx", metrics.WeatherRequests),
			source,
		)
		logger.Info("checkwx weather enabled")
	}
	cached := weather.NewCachedSource(source, cfg.WeatherCacheSize, cfg.WeatherCacheTTL)
	summarizer := weather.NewSummarizer(cached, avwxClient, clock, logger)

	var briefer httpadapter.Briefer
	if cfg.BriefingEnabled() {
		briefer = openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAITimeout, logger)
		logger.Info("ai briefings enabled", "model", cfg.OpenAIModel)
	}

	var publisher event.Publisher
	var kafkaPub *kafkaadapter.Publisher
	if cfg.EventsEnabled() {
		kafkaPub = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaPlanTopic, logger, metrics)
		publisher = kafkaPub
		logger.Info("plan events enabled", "topic", cfg.KafkaPlanTopic)
	}

	authService := auth.NewService(st, cfg.SessionTTL, clock, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Auth:       authService,
		Store:      st,
		Planner:    planner.New(summarizer, clock, logger, metrics),
		Weather:    cached,
		Summarizer: summarizer,
		Briefer:    briefer,
		Publisher:  publisher,
		Ready:      ready,
		Metrics:    metrics,
		Clock:      clock,
		Logger:     logger,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Expired sessions are swept in the background.
	go func() {
		ticker := clock.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				if n := authService.Sweep(); n > 0 {
					logger.Debug("swept expired sessions", "count", n)
				}
				metrics.ActiveSessions.Set(float64(authService.ActiveSessions()))
			}
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
