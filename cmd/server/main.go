package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/pagecheck/pageanalyzer/config"
	appmodel "github.com/pagecheck/pageanalyzer/internal/app/model"
	apprepository "github.com/pagecheck/pageanalyzer/internal/app/repository"
	appserver "github.com/pagecheck/pageanalyzer/internal/app/server"
	appservice "github.com/pagecheck/pageanalyzer/internal/app/service"
	"github.com/pagecheck/pageanalyzer/internal/infra/logger"
	infraNATS "github.com/pagecheck/pageanalyzer/internal/infra/nats"
	infraPostgres "github.com/pagecheck/pageanalyzer/internal/infra/postgres"
	infraPrometheus "github.com/pagecheck/pageanalyzer/internal/infra/prometheus"
	infraRedis "github.com/pagecheck/pageanalyzer/internal/infra/redis"
	"github.com/pagecheck/pageanalyzer/internal/page"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Configuration loaded successfully",
		zap.String("http_addr", cfg.HTTP.Addr),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("postgres_db", cfg.Postgres.Database),
		zap.String("redis_host", cfg.Redis.Host),
		zap.Int("redis_port", cfg.Redis.Port),
		zap.String("nats_host", cfg.NATS.Host),
		zap.Int("nats_port", cfg.NATS.Port),
		zap.Duration("checker_timeout", cfg.Checker.Timeout),
	)

	gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := infraPostgres.AutoMigrate(ctx, gormDB, &appmodel.URL{}, &appmodel.URLCheck{}); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()

	log.Info("Connected to Postgres successfully")

	redisClient, err := infraRedis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Connected to Redis successfully")

	natsConn, js, err := infraNATS.Connect(cfg.NATS)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Drain()
	log.Info("Connected to NATS successfully", zap.Bool("jetstream_ready", js != nil))

	if !isDev {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server",
				zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	urlRepo := apprepository.NewCachedURLRepository(
		apprepository.NewURLRepository(gormDB),
		redisClient,
	)
	checkRepo := apprepository.NewCheckRepository(gormDB)

	urlService := appservice.NewURLService(urlRepo, log)
	if err := urlService.Seed(ctx); err != nil {
		// Advisory: an empty filter only costs extra duplicate lookups.
		log.Warn("Failed to seed url filter", zap.Error(err))
	}

	checkService := appservice.NewCheckService(appservice.CheckServiceDeps{
		URLs:      urlRepo,
		Checks:    checkRepo,
		Fetcher:   page.NewFetcher(cfg.Checker),
		Publisher: appservice.NewCheckPublisher(js),
		Logger:    log,
	})

	consumer := appservice.NewCheckConsumer(js, log)
	if err := consumer.Start(); err != nil {
		log.Fatal("Failed to start check event consumer", zap.Error(err))
	}

	server := appserver.New(appserver.Dependencies{
		Logger:    log,
		Postgres:  pool,
		Redis:     redisClient,
		NATS:      natsConn,
		JetStream: js,
		URLs:      urlService,
		Checks:    checkService,
	})

	if err := server.Listen(cfg.HTTP.Addr); err != nil {
		log.Fatal("Fiber server exited", zap.Error(err))
	}
}
