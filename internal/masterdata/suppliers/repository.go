package suppliers

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
	List(ctx context.Context) ([]Supplier, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
	Update(ctx context.Context, id int64, supplier Supplier) (Supplier, error)
	Delete(ctx context.Context, id int64) error
	DeleteCascade(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, id int64) ([]LinkedProduct, error)
	LinkProduct(ctx context.Context, id, productID int64) error
	UnlinkProduct(ctx context.Context, id, productID int64) error
}

var (
	errHasProducts   = fmt.Errorf("%w: fornecedor possui produtos vinculados; use cascade=true", httpx.ErrConflict)
	errAlreadyLinked = fmt.Errorf("%w: produto já vinculado ao fornecedor", httpx.ErrConflict)
)

func notFound(id int64) error {
	return fmt.Errorf("fornecedor %d: %w", id, httpx.ErrNotFound)
}

const selectColumns = `SELECT id, nome, contato, digisac_contact_id, created_at, updated_at FROM fornecedores`

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func scanSupplier(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Contact, &s.DigisacContactID, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *repository) collect(ctx context.Context, query string, args ...any) ([]Supplier, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := []Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *repository) List(ctx context.Context) ([]Supplier, error) {
	suppliers, err := r.collect(ctx, selectColumns+` ORDER BY id`)
	return suppliers, httpx.Storage("list suppliers", err)
}

func (r *repository) Get(ctx context.Context, id int64) (Supplier, error) {
	s, err := scanSupplier(r.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, notFound(id)
	}
	return s, httpx.Storage("get supplier", err)
}

func (r *repository) FindByIDs(ctx context.Context, ids []int64) ([]Supplier, error) {
	suppliers, err := r.collect(ctx, selectColumns+` WHERE id = ANY($1) ORDER BY id`, ids)
	return suppliers, httpx.Storage("find suppliers", err)
}

func (r *repository) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	query := `INSERT INTO fornecedores (nome, contato, digisac_contact_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, query, supplier.Name, supplier.Contact, supplier.DigisacContactID, now, now).Scan(&supplier.ID)
	if err != nil {
		return Supplier{}, httpx.Storage("create supplier", err)
	}
	supplier.CreatedAt = now
	supplier.UpdatedAt = now
	return supplier, nil
}

func (r *repository) Update(ctx context.Context, id int64, supplier Supplier) (Supplier, error) {
	query := `UPDATE fornecedores SET nome = $1, contato = $2, digisac_contact_id = $3, updated_at = $4 WHERE id = $5
		RETURNING id, nome, contato, digisac_contact_id, created_at, updated_at`
	s, err := scanSupplier(r.db.QueryRow(ctx, query, supplier.Name, supplier.Contact, supplier.DigisacContactID, time.Now().UTC(), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, notFound(id)
	}
	return s, httpx.Storage("update supplier", err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM fornecedores WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return errHasProducts
		}
		return httpx.Storage("delete supplier", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(id)
	}
	return nil
}

func (r *repository) DeleteCascade(ctx context.Context, id int64) error {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM produtos WHERE fornecedor_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM fornecedores WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return notFound(id)
		}
		return nil
	})
	return httpx.Storage("cascade delete supplier", err)
}

func (r *repository) ListProducts(ctx context.Context, id int64) ([]LinkedProduct, error) {
	rows, err := r.db.Query(ctx, `SELECT p.id, p.nome FROM produtos p
		JOIN fornecedor_produto fp ON fp.produto_id = p.id
		WHERE fp.fornecedor_id = $1 ORDER BY p.id`, id)
	if err != nil {
		return nil, httpx.Storage("list supplier products", err)
	}
	defer rows.Close()

	products := []LinkedProduct{}
	for rows.Next() {
		var p LinkedProduct
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, httpx.Storage("list supplier products", err)
		}
		products = append(products, p)
	}
	return products, httpx.Storage("list supplier products", rows.Err())
}

func (r *repository) LinkProduct(ctx context.Context, id, productID int64) error {
	_, err := r.db.Exec(ctx, `INSERT INTO fornecedor_produto (fornecedor_id, produto_id) VALUES ($1, $2)`, id, productID)
	switch {
	case db.IsUniqueViolation(err):
		return errAlreadyLinked
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("fornecedor %d ou produto %d: %w", id, productID, httpx.ErrNotFound)
	}
	return httpx.Storage("link product", err)
}

func (r *repository) UnlinkProduct(ctx context.Context, id, productID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM fornecedor_produto WHERE fornecedor_id = $1 AND produto_id = $2`, id, productID)
	if err != nil {
		return httpx.Storage("unlink product", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vínculo %d/%d: %w", id, productID, httpx.ErrNotFound)
	}
	return nil
}
