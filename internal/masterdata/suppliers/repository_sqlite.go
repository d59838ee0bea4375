package suppliers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cotacao-hub/cotacao/internal/platform/db"
	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

type sqliteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository returns a Repository backed by the embedded SQLite store.
func NewSQLiteRepository(conn *sqlx.DB) Repository {
	return &sqliteRepository{db: conn}
}

func (r *sqliteRepository) List(ctx context.Context) ([]Supplier, error) {
	suppliers := []Supplier{}
	err := r.db.SelectContext(ctx, &suppliers, selectColumns+` ORDER BY id`)
	return suppliers, httpx.Storage("list suppliers", err)
}

func (r *sqliteRepository) Get(ctx context.Context, id int64) (Supplier, error) {
	var s Supplier
	err := r.db.GetContext(ctx, &s, selectColumns+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Supplier{}, notFound(id)
	}
	return s, httpx.Storage("get supplier", err)
}

func (r *sqliteRepository) FindByIDs(ctx context.Context, ids []int64) ([]Supplier, error) {
	query, args, err := sqlx.In(selectColumns+` WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, httpx.Storage("find suppliers", err)
	}
	suppliers := []Supplier{}
	err = r.db.SelectContext(ctx, &suppliers, r.db.Rebind(query), args...)
	return suppliers, httpx.Storage("find suppliers", err)
}

func (r *sqliteRepository) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	now := time.Now().UTC()
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO fornecedores (nome, contato, digisac_contact_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		supplier.Name, supplier.Contact, supplier.DigisacContactID, now, now).Scan(&supplier.ID)
	if err != nil {
		return Supplier{}, httpx.Storage("create supplier", err)
	}
	supplier.CreatedAt = now
	supplier.UpdatedAt = now
	return supplier, nil
}

func (r *sqliteRepository) Update(ctx context.Context, id int64, supplier Supplier) (Supplier, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE fornecedores SET nome = ?, contato = ?, digisac_contact_id = ?, updated_at = ? WHERE id = ?`,
		supplier.Name, supplier.Contact, supplier.DigisacContactID, time.Now().UTC(), id)
	if err != nil {
		return Supplier{}, httpx.Storage("update supplier", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Supplier{}, notFound(id)
	}
	return r.Get(ctx, id)
}

func (r *sqliteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fornecedores WHERE id = ?`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return errHasProducts
		}
		return httpx.Storage("delete supplier", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	return nil
}

func (r *sqliteRepository) DeleteCascade(ctx context.Context, id int64) error {
	err := db.WithSQLiteTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM produtos WHERE fornecedor_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM fornecedores WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return notFound(id)
		}
		return nil
	})
	return httpx.Storage("cascade delete supplier", err)
}

func (r *sqliteRepository) ListProducts(ctx context.Context, id int64) ([]LinkedProduct, error) {
	products := []LinkedProduct{}
	err := r.db.SelectContext(ctx, &products, `SELECT p.id, p.nome FROM produtos p
		JOIN fornecedor_produto fp ON fp.produto_id = p.id
		WHERE fp.fornecedor_id = ? ORDER BY p.id`, id)
	return products, httpx.Storage("list supplier products", err)
}

func (r *sqliteRepository) LinkProduct(ctx context.Context, id, productID int64) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO fornecedor_produto (fornecedor_id, produto_id) VALUES (?, ?)`, id, productID)
	switch {
	case db.IsUniqueViolation(err):
		return errAlreadyLinked
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("fornecedor %d ou produto %d: %w", id, productID, httpx.ErrNotFound)
	}
	return httpx.Storage("link product", err)
}

func (r *sqliteRepository) UnlinkProduct(ctx context.Context, id, productID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fornecedor_produto WHERE fornecedor_id = ? AND produto_id = ?`, id, productID)
	if err != nil {
		return httpx.Storage("unlink product", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("vínculo %d/%d: %w", id, productID, httpx.ErrNotFound)
	}
	return nil
}
