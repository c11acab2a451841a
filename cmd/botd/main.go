// cmd/botd/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"talentops-bot/internal/api"
	"talentops-bot/internal/bot/classifier"
	"talentops-bot/internal/bot/extractor"
	"talentops-bot/internal/bot/formatter"
	"talentops-bot/internal/bot/orchestrator"
	"talentops-bot/internal/bot/parser"
	"talentops-bot/internal/cache"
	"talentops-bot/internal/common/config"
	"talentops-bot/internal/common/database"
	"talentops-bot/internal/common/logger"
	"talentops-bot/internal/common/observability"
	"talentops-bot/internal/handlers/expense"
	"talentops-bot/internal/handlers/invoice"
	"talentops-bot/internal/handlers/project"
	"talentops-bot/internal/handlers/timesheet"
	"talentops-bot/internal/models"
	"talentops-bot/internal/store/mongostore"
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

	zapLog.Info("Starting talentops bot",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- MongoDB with retry ---
	var mongoClient *database.MongoClient
	err = retryWithBackoff(func() error {
		var err error
		mongoClient, err = database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		return mongoClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "MongoDB connection")
	if err != nil {
		zapLog.Fatal("mongodb failed after retries", zap.Error(err))
	}
	defer mongoClient.Close(ctx)
	zapLog.Info("MongoDB connected")

	stores := mongostore.New(mongoClient, cfg.Mongo.QueryTimeoutDuration())

	// --- Redis parse cache (optional) ---
	var parseCache parser.Cache
	var redisClient *database.RedisClient
	if cfg.Redis.Address != "" {
		redisClient = database.NewRedis(cfg.Redis)
		if err := redisClient.Ping(ctx); err != nil {
			zapLog.Warn("redis unavailable, parse cache disabled", zap.Error(err))
			redisClient.Close()
			redisClient = nil
		} else {
			parseCache = cache.NewParseCache(redisClient, log, cfg.Redis.CacheTTLDuration())
			defer redisClient.Close()
			zapLog.Info("Redis connected", zap.String("address", cfg.Redis.Address))
		}
	}

	// --- Fallback parser (optional, needs an API key) ---
	var orchestratorOpts []orchestrator.Option
	interpreter, err := parser.NewAnthropicInterpreter(cfg.LLM)
	switch {
	case err == nil:
		parserOpts := []parser.Option{
			parser.WithTimeout(cfg.LLM.TimeoutDuration()),
			parser.WithMaxRetries(cfg.LLM.MaxRetries),
		}
		if parseCache != nil {
			parserOpts = append(parserOpts, parser.WithCache(parseCache))
		}
		orchestratorOpts = append(orchestratorOpts,
			orchestrator.WithFallbackParser(parser.New(interpreter, log, parserOpts...)))
		zapLog.Info("Fallback parser enabled", zap.String("model", cfg.LLM.Model))
	case errors.Is(err, parser.ErrAPIKeyRequired):
		zapLog.Warn("no LLM API key configured, fallback parser disabled")
	default:
		zapLog.Fatal("fallback parser init failed", zap.Error(err))
	}
	orchestratorOpts = append(orchestratorOpts, orchestrator.WithObservability(obs))

	listLimit := int64(cfg.Pipeline.ListLimit)
	handlers := map[models.EntityType]orchestrator.EntityHandler{
		models.EntityTimesheet: timesheet.New(stores.Timesheets, stores.Projects, log, listLimit),
		models.EntityInvoice:   invoice.New(stores.Invoices, stores.Timesheets, stores.Expenses, stores.Rates, log, listLimit),
		models.EntityExpense:   expense.New(stores.Expenses, log, listLimit),
		models.EntityProject:   project.New(stores.Projects, stores.Talents, log, listLimit),
		models.EntityTalent:    project.New(stores.Projects, stores.Talents, log, listLimit),
	}

	pipeline := orchestrator.New(
		extractor.New(),
		classifier.New(),
		handlers,
		formatter.New(cfg.Pipeline.ListLimit),
		log,
		orchestratorOpts...,
	)

	checks := map[string]api.HealthCheck{
		"mongo": mongoClient.Ping,
	}
	if redisClient != nil {
		checks["redis"] = redisClient.Ping
	}

	server := api.NewServer(pipeline, cfg.App, cfg.Server, log, checks)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		zapLog.Error("server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
