package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightdesk/api"
	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/bootstrap"
	"github.com/Domenick1991/flightdesk/internal/cache"
	"github.com/Domenick1991/flightdesk/internal/catalog"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/engine"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/logger"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain returns the process exit code so deferred cleanup runs before os.Exit.
func runMain(args []string) int {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "config.yaml"
	}
	flags := pflag.NewFlagSet("app", pflag.ContinueOnError)
	cfgPath := flags.String("config", defaultPath, "path to the YAML config file")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	// .env is optional; values already in the environment win.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Printf("load config: %v", err)
		return 1
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Printf("init logger: %v", err)
		return 1
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Error("server error", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	offerings, err := loadOfferings(ctx, cfg)
	if err != nil {
		return err
	}

	opts := []engine.Option{engine.WithLogger(zl)}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Cache.RouteTTLSeconds)*time.Second)
		defer redisCache.Close()
		opts = append(opts, engine.WithRouteCache(redisCache))
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, zl)
		defer producer.Close()
		opts = append(opts, engine.WithEvents(producer, cfg.Kafka.BookingTopic, cfg.Kafka.NotificationsTopic))
	}

	eng, err := engine.New(offerings, opts...)
	if err != nil {
		return err
	}
	zl.Info("catalog loaded", zap.String("source", cfg.Catalog.Source), zap.Int("flights", len(offerings)))

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(eng.Flights, eng.Bookings, api.RouterOptions{Logger: zl, Swagger: cfg.HTTP.Swagger})

	return bootstrap.Run(ctx, cfg, router, zl)
}

func loadOfferings(ctx context.Context, cfg *config.Config) ([]domain.FlightOffering, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceFile:
		return catalog.LoadFile(cfg.Catalog.SeedFile)
	case config.CatalogSourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		return repository.NewFlightRepository(pool).ListOfferings(ctx)
	default:
		return catalog.DefaultOfferings()
	}
}
