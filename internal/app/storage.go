package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/cotacao-hub/cotacao/internal/inbox"
	"github.com/cotacao-hub/cotacao/internal/masterdata/products"
	"github.com/cotacao-hub/cotacao/internal/masterdata/suppliers"
	"github.com/cotacao-hub/cotacao/internal/platform/cache"
	"github.com/cotacao-hub/cotacao/internal/platform/db"
	"github.com/cotacao-hub/cotacao/internal/procurement"
	"github.com/cotacao-hub/cotacao/internal/quotations"
)

// Repositories bundles the relational repositories for the configured driver.
type Repositories struct {
	Suppliers   suppliers.Repository
	Products    products.Repository
	Procurement procurement.RepositoryPort
	Inbox       inbox.Repository
	close       func()
}

// Close releases the underlying connection pool.
func (r *Repositories) Close() {
	if r != nil && r.close != nil {
		r.close()
	}
}

// OpenRepositories connects to the configured database and creates the schema.
func OpenRepositories(ctx context.Context, cfg *Config, logger *slog.Logger) (*Repositories, error) {
	switch cfg.DBDriver {
	case DriverPostgres:
		pool, err := db.New(ctx, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.Info("database ready", slog.String("driver", DriverPostgres))
		return &Repositories{
			Suppliers:   suppliers.NewRepository(pool),
			Products:    products.NewRepository(pool),
			Procurement: procurement.NewRepository(pool),
			Inbox:       inbox.NewRepository(pool),
			close:       pool.Close,
		}, nil
	case DriverSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info("database ready", slog.String("driver", DriverSQLite), slog.String("path", cfg.DSN()))
		return &Repositories{
			Suppliers:   suppliers.NewSQLiteRepository(conn),
			Products:    products.NewSQLiteRepository(conn),
			Procurement: procurement.NewSQLiteRepository(conn),
			Inbox:       inbox.NewSQLiteRepository(conn),
			close: func() {
				if err := conn.Close(); err != nil {
					logger.Warn("close sqlite", slog.Any("error", err))
				}
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// OpenRedis connects to Redis when the quotation store or the queue needs it.
func OpenRedis(ctx context.Context, cfg *Config) (*redis.Client, error) {
	if cfg.QuotationStore != StoreRedis && !cfg.QueueEnabled {
		return nil, nil
	}
	return cache.New(ctx, cfg.RedisAddr)
}

// NewQuotationStore picks the quotation store named by QUOTATION_STORE.
func NewQuotationStore(cfg *Config, client *redis.Client) (quotations.Store, error) {
	switch cfg.QuotationStore {
	case StoreRedis:
		if client == nil {
			return nil, fmt.Errorf("QUOTATION_STORE=redis requires a redis client")
		}
		return quotations.NewRedisStore(client), nil
	case StoreMemory:
		return quotations.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported QUOTATION_STORE %q", cfg.QuotationStore)
	}
}

// QueueRedisOpt converts REDIS_ADDR into asynq connection options.
func QueueRedisOpt(cfg *Config) (asynq.RedisConnOpt, error) {
	opts, err := cache.Options(cfg.RedisAddr)
	if err != nil {
		return nil, err
	}
	return asynq.RedisClientOpt{
		Addr:      opts.Addr,
		Username:  opts.Username,
		Password:  opts.Password,
		DB:        opts.DB,
		TLSConfig: opts.TLSConfig,
	}, nil
}
