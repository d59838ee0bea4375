package procurement

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

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	List(ctx context.Context) ([]PurchaseRequest, error)
	Get(ctx context.Context, id int64) (PurchaseRequest, error)
	Create(ctx context.Context, pr PurchaseRequest) (PurchaseRequest, error)
	UpdateStatus(ctx context.Context, id int64, status string) (PurchaseRequest, error)
	Delete(ctx context.Context, id int64) error
}

const selectColumns = `SELECT id, titulo, descricao, status, produto_id, fornecedor_id, created_at, updated_at FROM pedidos`

func notFound(id int64) error {
	return fmt.Errorf("pedido %d: %w", id, httpx.ErrNotFound)
}

func classifyWrite(op string, err error) error {
	if db.IsForeignKeyViolation(err) {
		return httpx.Validation("produto ou fornecedor referenciado não existe")
	}
	return httpx.Storage(op, err)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanPR(row pgx.Row) (PurchaseRequest, error) {
	var pr PurchaseRequest
	err := row.Scan(&pr.ID, &pr.Title, &pr.Description, &pr.Status, &pr.ProductID, &pr.SupplierID, &pr.CreatedAt, &pr.UpdatedAt)
	return pr, err
}

// List returns every purchase request ordered by id.
func (r *Repository) List(ctx context.Context) ([]PurchaseRequest, error) {
	rows, err := r.pool.Query(ctx, selectColumns+` ORDER BY id`)
	if err != nil {
		return nil, httpx.Storage("list purchase requests", err)
	}
	defer rows.Close()

	out := []PurchaseRequest{}
	for rows.Next() {
		pr, err := scanPR(rows)
		if err != nil {
			return nil, httpx.Storage("list purchase requests", err)
		}
		out = append(out, pr)
	}
	return out, httpx.Storage("list purchase requests", rows.Err())
}

// Get returns a purchase request by id.
func (r *Repository) Get(ctx context.Context, id int64) (PurchaseRequest, error) {
	pr, err := scanPR(r.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseRequest{}, notFound(id)
	}
	return pr, httpx.Storage("get purchase request", err)
}

// Create inserts a purchase request.
func (r *Repository) Create(ctx context.Context, pr PurchaseRequest) (PurchaseRequest, error) {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO pedidos (titulo, descricao, status, produto_id, fornecedor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		pr.Title, pr.Description, pr.Status, pr.ProductID, pr.SupplierID, now, now).Scan(&pr.ID)
	if err != nil {
		return PurchaseRequest{}, classifyWrite("create purchase request", err)
	}
	pr.CreatedAt = now
	pr.UpdatedAt = now
	return pr, nil
}

// UpdateStatus changes the free-text status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) (PurchaseRequest, error) {
	pr, err := scanPR(r.pool.QueryRow(ctx,
		`UPDATE pedidos SET status = $1, updated_at = $2 WHERE id = $3
		RETURNING id, titulo, descricao, status, produto_id, fornecedor_id, created_at, updated_at`,
		status, time.Now().UTC(), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseRequest{}, notFound(id)
	}
	return pr, httpx.Storage("update purchase request", err)
}

// Delete removes a purchase request.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pedidos WHERE id = $1`, id)
	if err != nil {
		return httpx.Storage("delete purchase request", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(id)
	}
	return nil
}
