// Package main is the entry point for the inventory API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"inventory/internal/app"
	"inventory/internal/config"
	"inventory/internal/core/idempotency"
	"inventory/internal/domain/auth"
	"inventory/internal/domain/reports"
	"inventory/internal/infrastructure/cache"
	v1 "inventory/internal/infrastructure/http/v1"
	"inventory/internal/infrastructure/http/v1/handlers"
	"inventory/internal/infrastructure/metrics"
	"inventory/internal/infrastructure/storage/postgres"
	"inventory/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults to $APP_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	defer zap.ReplaceGlobals(log.Desugar())()

	if err := run(cfg, log); err != nil {
		log.Fatalw("server failed", "error", err)
	}
}

func run(cfg config.Config, log *logger.Logger) error {
	ctx, stop := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer stop()
	log.Infow("starting inventory server", "storage", cfg.Storage.Driver)

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	checks := map[string]handlers.Pinger{}

	// --- Storage ---
	var repos app.Repositories
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn("memory storage selected: data is lost on restart")
		repos = app.MemoryRepositories(idempotency.DefaultTTL)

	default:
		if cfg.Migrations.Auto {
			if err := postgres.Migrate(ctx, cfg.Postgres.DSN, "up"); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}

		poolCfg := postgres.DefaultPoolConfig(cfg.Postgres.DSN)
		poolCfg.MaxConns = cfg.Postgres.MaxConns
		poolCfg.MinConns = cfg.Postgres.MinConns
		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		log.Info("database connection established")

		checks["database"] = pool
		if m != nil {
			m.RegisterPool(pool.Stats)
		}

		txm := postgres.NewTxManager(pool)
		repos = app.PostgresRepositories(txm, idempotency.DefaultTTL)

		idem := repos.Idempotency.(*postgres.IdempotencyStore)
		go cleanupIdempotency(ctx, idem, time.Hour)
	}

	// --- Redis (optional) ---
	var (
		dashboardCache reports.DashboardCache
		locker         auth.Locker
	)
	if cfg.RedisEnabled() {
		client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer func() { _ = client.Close() }()

		dashboardCache = cache.NewDashboardCache(client)
		locker = cache.NewLocker(client, cache.DefaultLockerConfig())
		checks["redis"] = redisPinger(client)
		log.Infow("redis enabled", "addr", cfg.Redis.Addr)
	}

	// --- Services ---
	jwtCfg := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtCfg.Issuer = cfg.JWT.Issuer
	jwtCfg.AccessTokenTTL = cfg.JWT.AccessTTL

	opts := app.Options{
		JWT:            jwtCfg,
		DashboardCache: dashboardCache,
		DashboardTTL:   cfg.Redis.DashboardTTL,
	}
	if m != nil {
		opts.StockObserver = m
	}
	services := app.NewServices(repos, opts)

	created, err := services.Auth.EnsureAdmin(ctx, auth.BootstrapAdmin{
		Name:     cfg.Bootstrap.AdminName,
		Email:    cfg.Bootstrap.AdminEmail,
		Password: cfg.Bootstrap.AdminPassword,
	}, locker)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		log.Infow("bootstrap admin created", "email", cfg.Bootstrap.AdminEmail)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		Services:     services,
		Idempotency:  repos.Idempotency,
		Metrics:      m,
		HealthChecks: checks,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func redisPinger(client *redis.Client) handlers.PingFunc {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// cleanupIdempotency removes expired keys until ctx ends.
func cleanupIdempotency(ctx context.Context, store *postgres.IdempotencyStore, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.CleanupExpired(ctx)
			if err != nil {
				logger.Warn(ctx, "idempotency cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info(ctx, "expired idempotency keys removed", "count", n)
			}
		}
	}
}
