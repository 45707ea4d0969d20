// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/instaiq-backend/internal/admin"
	"github.com/carterperez-dev/instaiq-backend/internal/auth"
	"github.com/carterperez-dev/instaiq-backend/internal/config"
	"github.com/carterperez-dev/instaiq-backend/internal/contact"
	"github.com/carterperez-dev/instaiq-backend/internal/core"
	"github.com/carterperez-dev/instaiq-backend/internal/course"
	"github.com/carterperez-dev/instaiq-backend/internal/event"
	"github.com/carterperez-dev/instaiq-backend/internal/health"
	"github.com/carterperez-dev/instaiq-backend/internal/media"
	"github.com/carterperez-dev/instaiq-backend/internal/middleware"
	"github.com/carterperez-dev/instaiq-backend/internal/migrations"
	"github.com/carterperez-dev/instaiq-backend/internal/notify"
	"github.com/carterperez-dev/instaiq-backend/internal/purchase"
	"github.com/carterperez-dev/instaiq-backend/internal/search"
	"github.com/carterperez-dev/instaiq-backend/internal/server"
	"github.com/carterperez-dev/instaiq-backend/internal/user"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := core.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)
	core.SetExposeErrors(cfg.IsDevelopment())

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, db.DB.DB); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	store, err := media.NewStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	uploader := media.NewUploader(store, cfg.Storage.MaxUploadSize)
	logger.Info("image storage configured", "driver", cfg.Storage.Driver)

	deps := []health.Dependency{
		{Name: "postgres", Checker: db},
		{Name: "redis", Checker: redis},
	}
	probes := []admin.Probe{
		{Name: "postgres", Ping: db.Ping},
		{Name: "redis", Ping: redis.Ping},
	}

	var indexer course.Indexer
	if cfg.Search.Enabled {
		es, esErr := search.NewClient(cfg.Search)
		if esErr != nil {
			return esErr
		}
		index := search.NewCourseIndex(es, cfg.Search.CoursesIndex)
		if err := index.EnsureIndex(ctx); err != nil {
			logger.Warn("course index unavailable, falling back to SQL search", "error", err)
		}
		indexer = index
		deps = append(deps, health.Dependency{Name: "elasticsearch", Checker: index, Optional: true})
		probes = append(probes, admin.Probe{Name: "elasticsearch", Ping: index.Ping})
		logger.Info("course search enabled", "index", cfg.Search.CoursesIndex)
	}

	var publisher notify.Publisher = notify.NopPublisher{}
	var amqpPublisher *notify.AMQPPublisher
	if cfg.Notify.Enabled {
		amqpPublisher, err = notify.NewAMQPPublisher(cfg.Notify.AMQPURL, cfg.Notify.Exchange)
		if err != nil {
			logger.Warn("notifications disabled, broker unreachable", "error", err)
		} else {
			publisher = amqpPublisher
			deps = append(deps, health.Dependency{Name: "rabbitmq", Checker: amqpPublisher, Optional: true})
			probes = append(probes, admin.Probe{Name: "rabbitmq", Ping: amqpPublisher.Ping})
			logger.Info("notification publisher connected", "exchange", cfg.Notify.Exchange)
		}
	}

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(jwtManager, userSvc)
	authHandler := auth.NewHandler(authSvc)

	courseSvc := course.NewService(
		course.NewRepository(db.DB),
		course.NewRedisCache(redis, cfg.Catalog.CacheTTL),
		indexer,
	)
	courseHandler := course.NewHandler(courseSvc, uploader)

	purchaseSvc := purchase.NewService(db, purchase.NewStores, publisher)
	purchaseHandler := purchase.NewHandler(purchaseSvc)

	eventHandler := event.NewHandler(event.NewService(event.NewRepository(db.DB)), uploader)
	contactHandler := contact.NewHandler(contact.NewService(contact.NewRepository(db.DB), publisher))

	healthHandler := health.NewHandler(deps...)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:     db.Stats,
		RedisStats:  redis.PoolStats,
		Probes:      probes,
		Marketplace: admin.NewStatsRepository(db.DB),
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.Per(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Window,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.Per(
			cfg.RateLimit.AuthRequests,
			cfg.RateLimit.AuthWindow,
			0,
		),
		Prefix:   "ratelimit:auth",
		FailOpen: true,
	}).Handler

	authenticator := middleware.Authenticator(jwtManager, userSvc)
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authLimiter)

		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		courseHandler.RegisterRoutes(r, purchaseHandler.CourseRoutes(authenticator))
		courseHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		purchaseHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		eventHandler.RegisterRoutes(r)
		eventHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		contactHandler.RegisterRoutes(r)
		contactHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	drainDelay := cfg.Server.DrainDelay
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if amqpPublisher != nil {
		if err := amqpPublisher.Close(); err != nil {
			logger.Error("rabbitmq close error", "error", err)
		}
	}

	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Error("image storage close error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}
