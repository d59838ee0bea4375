package products

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

type sqliteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository returns a Repository backed by the embedded SQLite store.
func NewSQLiteRepository(conn *sqlx.DB) Repository {
	return &sqliteRepository{db: conn}
}

func (r *sqliteRepository) List(ctx context.Context, filters ListFilters) ([]Product, error) {
	query := selectColumns
	args := []any{}
	if filters.SupplierID != nil {
		query += ` WHERE fornecedor_id = ?`
		args = append(args, *filters.SupplierID)
	}
	products := []Product{}
	err := r.db.SelectContext(ctx, &products, query+` ORDER BY id`, args...)
	return products, httpx.Storage("list products", err)
}

func (r *sqliteRepository) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.db.GetContext(ctx, &p, selectColumns+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, notFound(id)
	}
	return p, httpx.Storage("get product", err)
}

func (r *sqliteRepository) Create(ctx context.Context, product Product) (Product, error) {
	now := time.Now().UTC()
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO produtos (nome, preco, fornecedor_id, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		product.Name, product.Price, product.SupplierID, now).Scan(&product.ID)
	if err != nil {
		return Product{}, classifyInsert(product, err)
	}
	product.CreatedAt = now
	return product, nil
}

func (r *sqliteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM produtos WHERE id = ?`, id)
	if err != nil {
		return httpx.Storage("delete product", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	return nil
}
