package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/saralhq/admin-backend/internal/core/port"
	"github.com/saralhq/admin-backend/internal/events"
	"github.com/saralhq/admin-backend/internal/infra/config"
	"github.com/saralhq/admin-backend/internal/infra/database"
	kafkainfra "github.com/saralhq/admin-backend/internal/infra/kafka"
	"github.com/saralhq/admin-backend/internal/infra/logger"
	"github.com/saralhq/admin-backend/internal/infra/notify"
	redisinfra "github.com/saralhq/admin-backend/internal/infra/redis"
	"github.com/saralhq/admin-backend/internal/infra/security"
	"github.com/saralhq/admin-backend/internal/infra/seed"
	postgresrepo "github.com/saralhq/admin-backend/internal/repository/postgres"
	redisrepo "github.com/saralhq/admin-backend/internal/repository/redis"
	"github.com/saralhq/admin-backend/internal/transport/http/middleware"
	"github.com/saralhq/admin-backend/internal/transport/http/routes"
	"github.com/saralhq/admin-backend/internal/usecase"
)

type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	hasher, err := security.NewHasher(security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	})
	if err != nil {
		return nil, fmt.Errorf("init password hasher: %w", err)
	}

	tokenManager, err := security.NewTokenManager(security.TokenManagerConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.AccessTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	var (
		redisClient     *redisinfra.Client
		permissionCache port.PermissionCache
	)
	if cfg.Redis.Host != "" {
		redisClient, err = redisinfra.NewClient(cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		permissionCache = redisrepo.NewPermissionCache(redisClient.Client(), "authz", cfg.Redis.PermissionCacheTTL)
	} else {
		log.Info("redis not configured, permission checks read from postgres")
	}

	dispatcher := events.NewDispatcher(log)

	var producer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			kafkainfra.NewStubPublisher(log).Register(dispatcher)
		} else {
			kafkainfra.NewEventPublisher(producer, cfg.App, log).Register(dispatcher)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		kafkainfra.NewStubPublisher(log).Register(dispatcher)
	}

	notify.NewEmailNotifier(log).Register(dispatcher)

	repos := postgresrepo.NewRepositories(pool)
	uow := postgresrepo.NewUnitOfWork(pool, dispatcher, log)

	seeder := seed.NewSeeder(uow, hasher, cfg.Seed, log)
	if err := seeder.Run(ctx); err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, fmt.Errorf("seed database: %w", err)
	}

	authzService := usecase.NewAuthorizationService(repos.Permissions, permissionCache, log)
	authzService.InvalidateCache(ctx)

	passwordValidator := security.DefaultPasswordValidator()

	authService := usecase.NewAuthService(repos.Users, hasher, tokenManager, log)
	userService := usecase.NewUserService(uow, repos.Users, repos.Roles, hasher, authzService, passwordValidator, log)
	roleService := usecase.NewRoleService(uow, repos.Roles, repos.Permissions, authzService, log)
	permissionService := usecase.NewPermissionService(repos.Permissions)
	efaService := usecase.NewEfaConfigurationService(uow, repos.EfaConfigurations, log)
	fileService := usecase.NewFileService(uow, repos.Files, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	var cache routes.CacheChecker
	if redisClient != nil {
		cache = redisClient
	}

	engine := routes.Register(routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Metrics:  metrics,
		Database: pool,
		Cache:    cache,
		Services: routes.ServiceSet{
			Auth:              authService,
			Authorization:     authzService,
			Users:             userService,
			Roles:             roleService,
			Permissions:       permissionService,
			EfaConfigurations: efaService,
			Files:             fileService,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting admin API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
