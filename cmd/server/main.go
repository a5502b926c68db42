// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pharmacy-inventory/internal/alerts"
	"pharmacy-inventory/internal/analytics"
	"pharmacy-inventory/internal/chatbot"
	"pharmacy-inventory/internal/common/aws"
	"pharmacy-inventory/internal/common/config"
	"pharmacy-inventory/internal/common/database"
	"pharmacy-inventory/internal/common/logger"
	"pharmacy-inventory/internal/common/notify"
	"pharmacy-inventory/internal/common/observability"
	"pharmacy-inventory/internal/dataset"
	"pharmacy-inventory/internal/forecast"
	"pharmacy-inventory/internal/inventory"
	"pharmacy-inventory/internal/reorder"
	"pharmacy-inventory/internal/server"
	"pharmacy-inventory/internal/substitution"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting pharmacy inventory server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Load and clean the datasets ---
	ds, err := dataset.NewLoader(log).Load(cfg.Data.SalesPath, cfg.Data.PurchasesPath)
	if err != nil {
		zapLog.Fatal("dataset load failed", zap.Error(err))
	}
	snapshot := inventory.Calculate(ds)
	zapLog.Info("Datasets loaded",
		zap.Int("sales", len(ds.Sales)),
		zap.Int("purchases", len(ds.Purchases)),
		zap.Int("rejectedSales", ds.RejectedSales),
		zap.Int("rejectedPurchases", ds.RejectedPurchases),
		zap.Int("medicines", len(snapshot)),
	)

	// --- Init PostgreSQL with retry (optional) ---
	var reorderStore reorder.Store
	var reorderLog server.ReorderLog
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		store := reorder.NewPostgresStore(pg)
		if err := store.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("reorder schema migration failed", zap.Error(err))
		}
		reorderStore = store
		reorderLog = store
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Init Redis with retry (optional) ---
	var redis *database.RedisClient
	if cfg.Database.Redis.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Init manager notifications (optional) ---
	var notifier reorder.Notifier
	if cfg.Notifications.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWSRegion)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWSRegion)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		notifier = notify.NewManagerNotifier(cfg.Notifications, snsClient, sesClient, log)
		zapLog.Info("Manager notifications enabled")
	}

	// --- Train the intent classifier ---
	start := time.Now()
	model := chatbot.Train(chatbot.TrainingData, chatbot.TrainOptions{
		Iterations:   cfg.Chatbot.TrainIterations,
		LearningRate: cfg.Chatbot.LearningRate,
	})
	zapLog.Info("Intent classifier trained",
		zap.Int("examples", len(chatbot.TrainingData)),
		zap.Int("classes", len(model.Classes())),
		zap.Duration("took", time.Since(start)),
	)

	// --- Wire the engines ---
	reorderEngine := reorder.NewEngine(cfg.Alerts.LowStockThreshold, reorderStore, notifier, log)
	router := chatbot.NewRouter(cfg.Chatbot.ConfidenceThreshold, cfg.Alerts.LowStockThreshold,
		reorderEngine, substitution.Suggest)
	bot := chatbot.NewBot(model, router, log, obs)

	forecastEngine := forecast.NewCachedEngine(
		forecast.NewEngine(cfg.Forecast.HorizonDays),
		redis,
		time.Duration(cfg.Forecast.CacheTTL)*time.Second,
		log,
	)

	srv := server.New(cfg, log, server.Deps{
		Dataset:    ds,
		Snapshot:   snapshot,
		Bot:        bot,
		Alerts:     alerts.NewEngine(cfg.Alerts.LowStockThreshold, cfg.Alerts.ExpiryWindowDays),
		Analytics:  analytics.NewEngine(cfg.Alerts.LowStockThreshold, cfg.Alerts.ExpiryWindowDays),
		Forecast:   forecastEngine,
		Reorder:    reorderEngine,
		ReorderLog: reorderLog,
	})

	if err := srv.Start(ctx); err != nil {
		zapLog.Fatal("server failed", zap.Error(err))
	}
	zapLog.Info("Server stopped cleanly")
}
