package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cotacao-hub/cotacao/internal/app"
	"github.com/cotacao-hub/cotacao/internal/digisac"
	"github.com/cotacao-hub/cotacao/internal/dispatch"
	jobmetrics "github.com/cotacao-hub/cotacao/internal/jobs"
	"github.com/cotacao-hub/cotacao/internal/masterdata/suppliers"
	"github.com/cotacao-hub/cotacao/internal/observability"
	"github.com/cotacao-hub/cotacao/internal/quotations"
	"github.com/cotacao-hub/cotacao/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	if cfg.QuotationStore != app.StoreRedis {
		return errors.New("worker requires QUOTATION_STORE=redis to share quotations with the api")
	}

	repos, err := app.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repos.Close()

	redisClient, err := app.OpenRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	store, err := app.NewQuotationStore(cfg, redisClient)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	supplierService := suppliers.NewService(repos.Suppliers)
	digisacClient := digisac.NewClient(digisac.Config{
		BaseURL:       cfg.DigisacBaseURL,
		Token:         cfg.DigisacToken,
		ServiceID:     cfg.DigisacServiceID,
		RecipientMode: digisac.RecipientMode(cfg.DigisacRecipientMode),
		Timeout:       cfg.DigisacTimeout,
	}, nil)
	orchestrator := dispatch.NewOrchestrator(logger, supplierService, digisacClient, metrics, cfg.DispatchConcurrency)
	quotationService := quotations.NewService(logger, store, supplierService, orchestrator, nil)

	redisOpt, err := app.QueueRedisOpt(cfg)
	if err != nil {
		return err
	}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   redisOpt,
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{
				Type:    jobs.TaskQuotationDispatch,
				Handler: jobs.NewQuotationDispatchHandler(quotationService, logger, jobmetrics.NewMetrics(metrics.Registerer())),
			},
		},
	})
	if err != nil {
		return err
	}

	logger.Info("worker started", slog.Int("concurrency", cfg.WorkerConcurrency))
	return worker.Run(ctx)
}
