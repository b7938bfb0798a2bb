package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/eaglebank/ledger-service/internal/audit"
	txcmd "github.com/eaglebank/ledger-service/internal/command"
	"github.com/eaglebank/ledger-service/internal/config"
	"github.com/eaglebank/ledger-service/internal/handler"
	txqry "github.com/eaglebank/ledger-service/internal/query"
	"github.com/eaglebank/ledger-service/internal/repository"
	"github.com/eaglebank/ledger-service/shared/events"
	"github.com/eaglebank/ledger-service/shared/logger"
	"github.com/eaglebank/ledger-service/shared/middleware"
	"github.com/eaglebank/ledger-service/shared/models"
	redisClient "github.com/eaglebank/ledger-service/shared/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if err := logger.Init(cfg.LogEnv); err != nil {
		logger.Fatal("failed to init logger", zap.Error(err))
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection
	mongoClient, err := repository.ConnectToMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.ServerSelectionTimeout)
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	db := mongoClient.Database(cfg.Mongo.Database)
	transactions := db.Collection(repository.TransactionsCollection)

	// Redis connection, used by the summary cache and the redis event backend
	var redis *redisClient.Client
	if cfg.Redis.Addr != "" {
		redis, err = redisClient.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.DialTimeout)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
	}

	var (
		summaryCache       txqry.SummaryCache
		summaryInvalidator txcmd.SummaryInvalidator
	)
	if redis != nil {
		cache := redisClient.NewViewCache[models.Summary](redis.Client, "summary:", cfg.Redis.SummaryCacheTTL)
		summaryCache, summaryInvalidator = cache, cache
	}

	publisher, closePublisher := newPublisher(cfg, redis)

	sink, closeSink := newAuditSink(ctx, cfg, db)
	auditor := audit.New(sink, cfg.ServiceName, cfg.Audit.WriteTimeout)

	// CQRS: write repo, read repo
	writeRepo := repository.NewTransactionWriteRepository(transactions)
	readRepo := repository.NewTransactionReadRepository(transactions)

	commandSvc := txcmd.NewTransactionCommandService(writeRepo, summaryInvalidator, publisher, auditor)
	querySvc := txqry.NewTransactionQueryService(readRepo, summaryCache)

	router := handler.NewRouter(handler.RouterConfig{
		Port: cfg.Port,
		Headers: middleware.GatewayHeaders{
			Identity: cfg.Gateway.IdentityHeader,
			Role:     cfg.Gateway.RoleHeader,
		},
		AdminRole:      cfg.Gateway.AdminRole,
		ExposeInternal: cfg.ExposeInternalErrors,
	}, commandSvc, querySvc, querySvc)

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("transaction service starting", zap.String("service", cfg.ServiceName), zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}
	if err := auditor.Close(shutdownCtx); err != nil {
		logger.Warn("audit writes still pending at shutdown", zap.Error(err))
	}
	closeSink()
	closePublisher()
	if redis != nil {
		if err := redis.Close(); err != nil {
			logger.Warn("redis close", zap.Error(err))
		}
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Warn("mongodb disconnect", zap.Error(err))
	}
}

func newPublisher(cfg *config.Config, redis *redisClient.Client) (events.Publisher, func()) {
	switch cfg.Events.Backend {
	case config.BackendRedis:
		return events.NewRedisPublisher(redis.Client), func() {}
	case config.BackendKafka:
		kafka, err := events.NewKafkaPublisher(cfg.Events.KafkaBrokers, cfg.Events.PublishTimeout)
		if err != nil {
			logger.Fatal("failed to create kafka publisher", zap.Error(err))
		}
		return kafka, kafka.Close
	default:
		return events.NopPublisher{}, func() {}
	}
}

func newAuditSink(ctx context.Context, cfg *config.Config, db *mongo.Database) (audit.Sink, func()) {
	switch cfg.Audit.Sink {
	case config.BackendMongo:
		return repository.NewMongoAuditRepository(db.Collection(repository.AuditLogsCollection)), func() {}
	case config.BackendPostgres:
		pg, err := repository.OpenPostgres(ctx, cfg.Audit.PostgresDSN)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		return repository.NewPostgresAuditRepository(pg), closeDB(pg)
	default:
		return nil, func() {}
	}
}

func closeDB(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Warn("postgres close", zap.Error(err))
		}
	}
}
