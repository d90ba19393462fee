package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aescanero/scheme-screener/internal/config"
	"github.com/aescanero/scheme-screener/internal/eligibility"
	"github.com/aescanero/scheme-screener/internal/events"
	"github.com/aescanero/scheme-screener/internal/i18n"
	"github.com/aescanero/scheme-screener/internal/metrics"
	"github.com/aescanero/scheme-screener/internal/scheme"
	"github.com/aescanero/scheme-screener/internal/screening"
	"github.com/aescanero/scheme-screener/internal/server"
	"github.com/aescanero/scheme-screener/internal/session"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			logger, err := initLogger(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}
}

// serve runs the screener until ctx is cancelled
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting screener",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// Log configuration (without sensitive data)
	logger.Info("configuration loaded", zap.String("config", cfg.String()))

	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("failed to close redis connection", zap.Error(err))
			}
		}()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	}

	var sessions session.Store
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		sessions = session.NewRedisStore(redisClient, cfg.SessionKeyPrefix, cfg.SessionTTL, logger)
	default:
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	}
	logger.Info("session store initialized", zap.String("backend", cfg.SessionBackend))

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.EventsEnabled {
		publisher = events.NewRedisStreamPublisher(redisClient, cfg.EventStream, cfg.EventStreamMax, logger)
		logger.Info("publishing screening events", zap.String("stream", cfg.EventStream))
	}
	defer func() { _ = publisher.Close() }()

	translations, err := i18n.Load(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}

	pages, err := server.Pages()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	catalog := scheme.NewFileCatalog(cfg.SchemesFile)
	if err := catalog.Check(); err != nil {
		logger.Warn("scheme catalog is not readable yet", zap.Error(err))
	}

	filter := eligibility.NewFilter(newConditionEvaluator(cfg.CELEnabled), logger)
	svc := screening.NewService(catalog, filter, sessions, publisher, m, logger)

	srv := server.New(
		server.Options{
			Port:         cfg.HTTPPort,
			CookieName:   cfg.SessionCookie,
			CookieSecure: cfg.CookieSecure,
			SessionTTL:   cfg.SessionTTL,
		},
		svc,
		pages,
		translations,
		server.NewHealthHandler(sessions, catalog, logger),
		registry,
		logger,
	)

	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start http server: %w", err)
	}

	logger.Info("screener running, press Ctrl+C to stop")
	<-ctx.Done()

	logger.Info("shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop http server", zap.Error(err))
		return err
	}

	logger.Info("screener stopped gracefully")
	return nil
}
