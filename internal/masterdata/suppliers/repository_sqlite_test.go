package suppliers

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotacao-hub/cotacao/internal/platform/db"
	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

func newSQLiteRepo(t *testing.T) (*sqlx.DB, Repository) {
	t.Helper()
	conn, err := db.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, NewSQLiteRepository(conn)
}

func insertProduct(t *testing.T, conn *sqlx.DB, name string, supplierID int64) int64 {
	t.Helper()
	var id int64
	err := conn.QueryRowx(`INSERT INTO produtos (nome, fornecedor_id, created_at) VALUES (?, ?, ?) RETURNING id`,
		name, supplierID, time.Now()).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestSQLiteCreateAndGet(t *testing.T) {
	_, repo := newSQLiteRepo(t)
	ctx := context.Background()
	handle := "c-123"

	created, err := repo.Create(ctx, Supplier{Name: "Alfa", Contact: "14 3333-0000", DigisacContactID: &handle})
	require.NoError(t, err)
	require.Positive(t, created.ID)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alfa", got.Name)
	assert.Equal(t, "14 3333-0000", got.Contact)
	require.NotNil(t, got.DigisacContactID)
	assert.Equal(t, "c-123", *got.DigisacContactID)

	_, err = repo.Get(ctx, created.ID+100)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestSQLiteFindByIDsOrdersAscending(t *testing.T) {
	_, repo := newSQLiteRepo(t)
	ctx := context.Background()
	for _, name := range []string{"A", "B", "C"} {
		_, err := repo.Create(ctx, Supplier{Name: name})
		require.NoError(t, err)
	}

	found, err := repo.FindByIDs(ctx, []int64{3, 1, 42})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, int64(1), found[0].ID)
	assert.Equal(t, int64(3), found[1].ID)
}

func TestSQLiteUpdate(t *testing.T) {
	_, repo := newSQLiteRepo(t)
	ctx := context.Background()
	created, err := repo.Create(ctx, Supplier{Name: "Antigo"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, Supplier{Name: "Novo", Contact: "1199"})
	require.NoError(t, err)
	assert.Equal(t, "Novo", updated.Name)
	assert.Equal(t, "1199", updated.Contact)

	_, err = repo.Update(ctx, 999, Supplier{Name: "x"})
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestSQLiteDeleteCascadeRemovesProducts(t *testing.T) {
	conn, repo := newSQLiteRepo(t)
	ctx := context.Background()
	keep, err := repo.Create(ctx, Supplier{Name: "Fica"})
	require.NoError(t, err)
	gone, err := repo.Create(ctx, Supplier{Name: "Sai"})
	require.NoError(t, err)
	insertProduct(t, conn, "Areia", gone.ID)
	insertProduct(t, conn, "Brita", gone.ID)
	insertProduct(t, conn, "Tijolo", keep.ID)

	require.ErrorIs(t, repo.Delete(ctx, gone.ID), httpx.ErrConflict)

	require.NoError(t, repo.DeleteCascade(ctx, gone.ID))

	var orphans int
	require.NoError(t, conn.Get(&orphans, `SELECT COUNT(*) FROM produtos WHERE fornecedor_id = ?`, gone.ID))
	assert.Zero(t, orphans)
	var remaining int
	require.NoError(t, conn.Get(&remaining, `SELECT COUNT(*) FROM produtos`))
	assert.Equal(t, 1, remaining)
	_, err = repo.Get(ctx, gone.ID)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestSQLiteDeleteUnknownReportsNotFound(t *testing.T) {
	_, repo := newSQLiteRepo(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Delete(ctx, 77), httpx.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteCascade(ctx, 77), httpx.ErrNotFound)
}

func TestSQLiteProductLinks(t *testing.T) {
	conn, repo := newSQLiteRepo(t)
	ctx := context.Background()
	sup, err := repo.Create(ctx, Supplier{Name: "Alfa"})
	require.NoError(t, err)
	productID := insertProduct(t, conn, "Cal", sup.ID)

	require.NoError(t, repo.LinkProduct(ctx, sup.ID, productID))
	assert.ErrorIs(t, repo.LinkProduct(ctx, sup.ID, productID), httpx.ErrConflict)
	assert.ErrorIs(t, repo.LinkProduct(ctx, sup.ID, 999), httpx.ErrNotFound)

	linked, err := repo.ListProducts(ctx, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, []LinkedProduct{{ID: productID, Name: "Cal"}}, linked)

	require.NoError(t, repo.UnlinkProduct(ctx, sup.ID, productID))
	assert.ErrorIs(t, repo.UnlinkProduct(ctx, sup.ID, productID), httpx.ErrNotFound)
}
