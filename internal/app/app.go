// Package app wires the billing service from configuration. Both the gRPC
// and the REST entrypoints build their handlers from the same App.
package app

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-billing-service/config"
	"github.com/fekuna/omnipos-billing-service/internal/catalog"
	catRepoPkg "github.com/fekuna/omnipos-billing-service/internal/catalog/repository"
	catUCPkg "github.com/fekuna/omnipos-billing-service/internal/catalog/usecase"
	"github.com/fekuna/omnipos-billing-service/internal/invoice"
	invListenerPkg "github.com/fekuna/omnipos-billing-service/internal/invoice/listener"
	invRepoPkg "github.com/fekuna/omnipos-billing-service/internal/invoice/repository"
	invUCPkg "github.com/fekuna/omnipos-billing-service/internal/invoice/usecase"
	invWorker "github.com/fekuna/omnipos-billing-service/internal/invoice/worker"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/order"
	orderRepoPkg "github.com/fekuna/omnipos-billing-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-billing-service/internal/order/usecase"
	"github.com/fekuna/omnipos-billing-service/pkg/broker"
	"github.com/fekuna/omnipos-billing-service/pkg/cache"
	"github.com/fekuna/omnipos-billing-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/fekuna/omnipos-billing-service/pkg/search"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type App struct {
	Config *config.Config
	Logger logger.ZapLogger

	DB       *sqlx.DB
	Redis    *cache.RedisClient
	Producer *broker.KafkaProducer
	Queue    *asynq.Client

	Catalog  catalog.UseCase
	Orders   order.UseCase
	Invoices invoice.UseCase

	closers []func() error
}

// NewLogger builds the service logger from cfg.
func NewLogger(cfg *config.Config) logger.ZapLogger {
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     cfg.IsDevelopment(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	return logger.NewZapLogger(logConfig)
}

func PostgresConfig(cfg *config.Config) *postgres.Config {
	return &postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	}
}

func QueueConfig(cfg *config.Config) invWorker.ServerConfig {
	return invWorker.ServerConfig{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.QueueDB,
		Concurrency: cfg.Billing.WorkerConcurrency,
	}
}

// InvoiceOptions maps the billing settings onto the invoice use case.
func InvoiceOptions(cfg *config.Config) invUCPkg.Options {
	return invUCPkg.Options{
		AllowOverpayment: cfg.Billing.AllowOverpayment,
		DefaultCurrency:  model.ParseCurrency(cfg.Billing.DefaultCurrency, model.CurrencyINR),
		PaymentTerm:      time.Duration(cfg.Billing.PaymentTermDays) * 24 * time.Hour,
		LockTTL:          cfg.Billing.LockTTL,
	}
}

// New connects every backing service and builds the use cases. Postgres and
// Redis are required. Elasticsearch is optional and search falls back to
// Postgres without it.
func New(cfg *config.Config, log logger.ZapLogger) (*App, error) {
	a := &App{Config: cfg, Logger: log}

	db, err := postgres.NewPostgres(PostgresConfig(cfg))
	if err != nil {
		return nil, err
	}
	a.DB = db
	a.closers = append(a.closers, db.Close)
	log.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Redis = redisClient
	a.closers = append(a.closers, redisClient.Close)
	log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	a.Producer = broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	a.closers = append(a.closers, a.Producer.Close)

	a.Queue = asynq.NewClient(invWorker.RedisOpt(QueueConfig(cfg)))
	a.closers = append(a.closers, a.Queue.Close)

	var searcher catalog.Searcher
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		log.Warn("Could not connect to Elasticsearch, catalog search uses Postgres", zap.Error(err))
	} else {
		searcher = esClient
		log.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	opts := InvoiceOptions(cfg)
	a.Catalog = catUCPkg.NewCatalogUseCase(catRepoPkg.NewPGRepository(db), redisClient, searcher, log)
	a.Invoices = invUCPkg.NewInvoiceUseCase(
		invRepoPkg.NewPGRepository(db),
		a.Catalog,
		redisClient,
		invWorker.NewScheduler(a.Queue, log),
		opts,
		log,
	)
	a.Orders = orderUCPkg.NewOrderUseCase(
		orderRepoPkg.NewPGRepository(db),
		a.Catalog,
		a.Invoices,
		a.Producer,
		opts.DefaultCurrency,
		log,
	)
	return a, nil
}

// StartBackground runs the folio posting listener and the overdue worker
// until ctx is done. The returned function stops the worker.
func (a *App) StartBackground(ctx context.Context) func() {
	consumer := broker.NewConsumer(&broker.Config{
		Brokers: a.Config.Kafka.Brokers,
		Topic:   a.Config.Kafka.Topic,
		GroupID: a.Config.Kafka.GroupID,
	})
	listener := invListenerPkg.NewFolioListener(consumer, a.Invoices, a.Orders, a.Logger)
	go listener.Start(ctx)
	a.Logger.Info("Started Kafka consumer",
		zap.Strings("brokers", a.Config.Kafka.Brokers),
		zap.String("topic", a.Config.Kafka.Topic),
	)

	srv := invWorker.NewServer(QueueConfig(a.Config))
	go func() {
		if err := srv.Run(invWorker.NewServeMux(a.Invoices, a.Logger)); err != nil {
			a.Logger.Error("overdue worker stopped", zap.Error(err))
		}
	}()

	return func() {
		srv.Shutdown()
		if err := consumer.Close(); err != nil {
			a.Logger.Warn("failed to close kafka consumer", zap.Error(err))
		}
	}
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
