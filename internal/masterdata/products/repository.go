package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cotacao-hub/cotacao/internal/platform/db"
	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Delete(ctx context.Context, id int64) error
}

const selectColumns = `SELECT id, nome, preco, fornecedor_id, created_at FROM produtos`

func notFound(id int64) error {
	return fmt.Errorf("produto %d: %w", id, httpx.ErrNotFound)
}

func classifyInsert(product Product, err error) error {
	if db.IsForeignKeyViolation(err) {
		return httpx.Validation("fornecedor %d não existe", *product.SupplierID)
	}
	return httpx.Storage("create product", err)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Product, error) {
	query := selectColumns
	args := []any{}
	if filters.SupplierID != nil {
		query += ` WHERE fornecedor_id = $1`
		args = append(args, *filters.SupplierID)
	}
	rows, err := r.db.Query(ctx, query+` ORDER BY id`, args...)
	if err != nil {
		return nil, httpx.Storage("list products", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.SupplierID, &p.CreatedAt); err != nil {
			return nil, httpx.Storage("list products", err)
		}
		products = append(products, p)
	}
	return products, httpx.Storage("list products", rows.Err())
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id).Scan(&p.ID, &p.Name, &p.Price, &p.SupplierID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, notFound(id)
	}
	return p, httpx.Storage("get product", err)
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	query := `INSERT INTO produtos (nome, preco, fornecedor_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	now := time.Now().UTC()
	if err := r.db.QueryRow(ctx, query, product.Name, product.Price, product.SupplierID, now).Scan(&product.ID); err != nil {
		return Product{}, classifyInsert(product, err)
	}
	product.CreatedAt = now
	return product, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM produtos WHERE id = $1`, id)
	if err != nil {
		return httpx.Storage("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(id)
	}
	return nil
}
