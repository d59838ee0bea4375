package procurement

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

// SQLiteRepository persists purchase requests in the embedded store.
type SQLiteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository constructs a SQLite repository.
func NewSQLiteRepository(conn *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{db: conn}
}

func (r *SQLiteRepository) List(ctx context.Context) ([]PurchaseRequest, error) {
	out := []PurchaseRequest{}
	err := r.db.SelectContext(ctx, &out, selectColumns+` ORDER BY id`)
	return out, httpx.Storage("list purchase requests", err)
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (PurchaseRequest, error) {
	var pr PurchaseRequest
	err := r.db.GetContext(ctx, &pr, selectColumns+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return PurchaseRequest{}, notFound(id)
	}
	return pr, httpx.Storage("get purchase request", err)
}

func (r *SQLiteRepository) Create(ctx context.Context, pr PurchaseRequest) (PurchaseRequest, error) {
	now := time.Now().UTC()
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO pedidos (titulo, descricao, status, produto_id, fornecedor_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		pr.Title, pr.Description, pr.Status, pr.ProductID, pr.SupplierID, now, now).Scan(&pr.ID)
	if err != nil {
		return PurchaseRequest{}, classifyWrite("create purchase request", err)
	}
	pr.CreatedAt = now
	pr.UpdatedAt = now
	return pr, nil
}

func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id int64, status string) (PurchaseRequest, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE pedidos SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now().UTC(), id)
	if err != nil {
		return PurchaseRequest{}, httpx.Storage("update purchase request", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return PurchaseRequest{}, notFound(id)
	}
	return r.Get(ctx, id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pedidos WHERE id = ?`, id)
	if err != nil {
		return httpx.Storage("delete purchase request", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	return nil
}
