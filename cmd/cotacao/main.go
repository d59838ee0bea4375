package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/cotacao-hub/cotacao/internal/app"
	"github.com/cotacao-hub/cotacao/internal/digisac"
	"github.com/cotacao-hub/cotacao/internal/dispatch"
	"github.com/cotacao-hub/cotacao/internal/inbox"
	"github.com/cotacao-hub/cotacao/internal/masterdata/products"
	"github.com/cotacao-hub/cotacao/internal/masterdata/suppliers"
	"github.com/cotacao-hub/cotacao/internal/observability"
	"github.com/cotacao-hub/cotacao/internal/procurement"
	"github.com/cotacao-hub/cotacao/internal/quotations"
	"github.com/cotacao-hub/cotacao/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	if err := run(ctx, stop, cfg, logger); err != nil {
		logger.Error("cotacao api", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, stop context.CancelFunc, cfg *app.Config, logger *slog.Logger) error {
	repos, err := app.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repos.Close()

	redisClient, err := app.OpenRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func(c *redis.Client) {
			if err := c.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}(redisClient)
	}

	metrics := observability.NewMetrics()

	supplierService := suppliers.NewService(repos.Suppliers)
	productService := products.NewService(repos.Products, supplierService)
	procurementService := procurement.NewService(repos.Procurement)

	digisacClient := digisac.NewClient(digisac.Config{
		BaseURL:       cfg.DigisacBaseURL,
		Token:         cfg.DigisacToken,
		ServiceID:     cfg.DigisacServiceID,
		RecipientMode: digisac.RecipientMode(cfg.DigisacRecipientMode),
		Timeout:       cfg.DigisacTimeout,
	}, nil)
	orchestrator := dispatch.NewOrchestrator(logger, supplierService, digisacClient, metrics, cfg.DispatchConcurrency)

	store, err := app.NewQuotationStore(cfg, redisClient)
	if err != nil {
		return err
	}

	var (
		enqueuer  quotations.Enqueuer
		inspector jobs.QueueInspector
	)
	if cfg.QueueEnabled {
		redisOpt, err := app.QueueRedisOpt(cfg)
		if err != nil {
			return err
		}
		jobClient := jobs.NewClient(redisOpt)
		defer func() { _ = jobClient.Close() }()
		queueInspector := asynq.NewInspector(redisOpt)
		defer func() { _ = queueInspector.Close() }()
		enqueuer = jobClient
		inspector = queueInspector
	}
	quotationService := quotations.NewService(logger, store, supplierService, orchestrator, enqueuer)
	inboxService := inbox.NewService(logger, repos.Inbox, quotationService, metrics)

	router, routes := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SupplierHandler:    suppliers.NewHandler(logger, supplierService),
		ProductHandler:     products.NewHandler(logger, productService),
		ProcurementHandler: procurement.NewHandler(logger, procurementService),
		DispatchHandler:    dispatch.NewHandler(logger, digisacClient, orchestrator),
		InboxHandler:       inbox.NewHandler(logger, inboxService),
		QuotationHandler:   quotations.NewHandler(logger, quotationService),
		JobHandler:         jobs.NewHandler(inspector, logger),
		Metrics:            metrics,
		AccessLog:          true,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.Int("routes", len(routes)),
			slog.String("db_driver", cfg.DBDriver),
			slog.String("quotation_store", cfg.QuotationStore),
			slog.Bool("queue_enabled", cfg.QueueEnabled))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
	return nil
}
