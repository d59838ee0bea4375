package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteCreatesSchemaIdempotently(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.ExecContext(ctx, sqliteSchema)
	require.NoError(t, err, "schema must be re-runnable")

	var tables []string
	require.NoError(t, conn.SelectContext(ctx, &tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`))
	assert.Equal(t, []string{"fornecedor_produto", "fornecedores", "mensagens_digisac", "pedidos", "produtos"}, tables)
}

func TestSQLiteEnforcesForeignKeys(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.ExecContext(ctx, `INSERT INTO produtos (nome, fornecedor_id, created_at) VALUES (?, ?, ?)`, "Cimento", 99, time.Now())
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))
}

func TestSQLiteForeignKeysSurviveReconnect(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "cotacao.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	conn.SetMaxIdleConns(0)
	for i := 0; i < 3; i++ {
		var enabled int
		require.NoError(t, conn.GetContext(ctx, &enabled, `PRAGMA foreign_keys`))
		assert.Equal(t, 1, enabled)
	}
}

func TestWithSQLiteTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	now := time.Now()
	err = WithSQLiteTx(ctx, conn, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO fornecedores (nome, contato, created_at, updated_at) VALUES (?, ?, ?, ?)`, "Alfa", "", now, now); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	var count int
	require.NoError(t, conn.GetContext(ctx, &count, `SELECT COUNT(*) FROM fornecedores`))
	assert.Zero(t, count)
}
