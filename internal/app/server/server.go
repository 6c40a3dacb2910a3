package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/blogapp/internal/cache"
	"github.com/magabrotheeeer/blogapp/internal/config"
	"github.com/magabrotheeeer/blogapp/internal/grpc/health"
	"github.com/magabrotheeeer/blogapp/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blogapp/internal/lib/jwt"
	"github.com/magabrotheeeer/blogapp/internal/lib/sl"
	"github.com/magabrotheeeer/blogapp/internal/metrics"
	"github.com/magabrotheeeer/blogapp/internal/migrations"
	"github.com/magabrotheeeer/blogapp/internal/rabbitmq"
	services "github.com/magabrotheeeer/blogapp/internal/services/auth"
	"github.com/magabrotheeeer/blogapp/internal/storage/mongo"
	"github.com/magabrotheeeer/blogapp/internal/storage/postgres"
)

const shutdownTimeout = 15 * time.Second

// UserStore — хранилище пользователей вместе с управлением соединением.
type UserStore interface {
	services.UserRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// App держит все ресурсы процесса.
type App struct {
	server         *http.Server
	health         *health.Server
	healthInterval time.Duration
	logger         *slog.Logger
	store          UserStore
	cache          *cache.Cache
	amqpConn       *amqp.Connection
	amqpCh         *amqp.Channel
}

// New подключает хранилище и необязательные зависимости и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{
		logger:         logger,
		store:          store,
		healthInterval: cfg.HealthCheckInterval,
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := []services.Option{services.WithMetrics(metrics.New(reg))}

	if cfg.AddressRedis != "" {
		app.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close(ctx)
			return nil, fmt.Errorf("cache not initialized: %w", err)
		}
		opts = append(opts, services.WithProfileCache(app.cache, cfg.ProfileTTL))
	}

	if cfg.RabbitMQ.URL != "" {
		app.amqpConn, err = rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.Retries, cfg.RetryDelay)
		if err != nil {
			app.close(ctx)
			return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
		}
		app.amqpCh, err = rabbitmq.SetupChannel(app.amqpConn, cfg.Exchange, rabbitmq.GetAuthQueues())
		if err != nil {
			app.close(ctx)
			return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
		}
		opts = append(opts, services.WithEvents(rabbitmq.NewPublisher(app.amqpCh, cfg.Exchange)))
	} else {
		opts = append(opts, services.WithEvents(rabbitmq.NopPublisher{}))
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, services.SessionTTL)
	authService := services.NewAuthService(logger, store, jwtMaker, opts...)

	app.health, err = health.New(cfg.AddressGRPC, logger)
	if err != nil {
		app.close(ctx)
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, RouteOptions{
		Production:     cfg.IsProduction(),
		AllowedOrigins: cfg.AllowedOrigins,
		Limiter:        middlewarectx.NewIPRateLimiter(cfg.RPS, cfg.Burst),
		Storage:        store,
		Gatherer:       reg,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

func openStorage(ctx context.Context, cfg *config.Config) (UserStore, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.PostgresConnectionString)
		if err != nil {
			return nil, err
		}
		if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			_ = db.Close(ctx)
			return nil, err
		}
		return db, nil
	default:
		db, err := mongo.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

// Run обслуживает HTTP и gRPC health до отмены ctx, затем корректно останавливается.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return a.health.Run(gctx)
	})

	g.Go(func() error {
		a.health.Watch(gctx, a.store, a.healthInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close(timeoutCtx)
		return err
	})

	return g.Wait()
}

func (a *App) close(ctx context.Context) {
	if a.amqpCh != nil {
		if err := a.amqpCh.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close cache", sl.Err(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(ctx); err != nil {
			a.logger.Error("failed to close storage", sl.Err(err))
		}
	}
}
