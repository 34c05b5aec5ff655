package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/uditmishra03/carthub/internal/config"
	"github.com/uditmishra03/carthub/internal/event"
	handler "github.com/uditmishra03/carthub/internal/handler/http"
	redisrepo "github.com/uditmishra03/carthub/internal/repository/redis"
	"github.com/uditmishra03/carthub/internal/service"
	"github.com/uditmishra03/carthub/pkg/database"
	"github.com/uditmishra03/carthub/pkg/health"
	pkgkafka "github.com/uditmishra03/carthub/pkg/kafka"
	"github.com/uditmishra03/carthub/pkg/middleware"
	"github.com/uditmishra03/carthub/pkg/tracing"
)

// App wires together all dependencies and runs the cart service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer // nil when events are disabled
	tracerShutdown tracing.ShutdownFunc
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger, version string) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    handler.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Initialize Redis client.
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
		PoolSize: cfg.RedisPoolSize,
	})
	if err != nil {
		_ = tracerShutdown(ctx)
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	database.SetSlowCommandLogging(cfg.SlowCommand, logger)
	if err := database.RegisterRedisPoolMetrics(prometheus.DefaultRegisterer, rdb, handler.ServiceName); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			_ = rdb.Close()
			_ = tracerShutdown(ctx)
			return nil, fmt.Errorf("register redis pool metrics: %w", err)
		}
		logger.Warn("redis pool metrics already registered")
	}

	// Health checks.
	healthHandler := health.NewHandler(logger)
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	// Cart events are optional; without brokers they are dropped.
	var (
		producer  *pkgkafka.Producer
		publisher event.Publisher = event.NopPublisher{}
	)
	if cfg.EventsEnabled() {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(producer, logger)
		healthHandler.RegisterOptional("kafka", producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("no kafka brokers configured, cart events disabled")
	}

	// Build the dependency graph.
	repo := redisrepo.NewCartRepository(rdb, cfg.CartKeyPrefix, cfg.CartTTLDuration())
	cartService := service.NewCartService(repo, publisher, logger)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSOrigins

	// HTTP router.
	router := handler.NewRouter(cartService, healthHandler, logger, cors)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		tracerShutdown: tracerShutdown,
		httpServer:     httpServer,
	}, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.closeDependencies(context.Background())
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.closeDependencies(shutdownCtx)

	a.logger.Info("application shutdown complete")
	return nil
}

func (a *App) closeDependencies(ctx context.Context) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if err := a.tracerShutdown(ctx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}
}
