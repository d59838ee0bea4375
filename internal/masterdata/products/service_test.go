package products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotacao-hub/cotacao/internal/masterdata/suppliers"
	"github.com/cotacao-hub/cotacao/internal/platform/db"
	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

type fixture struct {
	service   *Service
	repo      Repository
	supplier  suppliers.Supplier
	suppliers *suppliers.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	supplierService := suppliers.NewService(suppliers.NewSQLiteRepository(conn))
	sup, err := supplierService.Create(ctx, suppliers.Supplier{Name: "Alfa"})
	require.NoError(t, err)

	repo := NewSQLiteRepository(conn)
	return fixture{service: NewService(repo, supplierService), repo: repo, supplier: sup, suppliers: supplierService}
}

func ptr[T any](v T) *T { return &v }

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]Product{
		"empty name":       {Name: " ", SupplierID: &f.supplier.ID},
		"missing supplier": {Name: "Areia"},
		"negative price":   {Name: "Areia", SupplierID: &f.supplier.ID, Price: ptr(-0.01)},
		"unknown supplier": {Name: "Areia", SupplierID: ptr(int64(404))},
	}
	for name, product := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.service.Create(ctx, product)
			assert.ErrorIs(t, err, httpx.ErrValidation)
		})
	}
}

func TestCreateWithoutPrice(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.Create(context.Background(), Product{Name: "Areia", SupplierID: &f.supplier.ID})
	require.NoError(t, err)
	assert.Nil(t, created.Price)

	got, err := f.service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Areia", got.Name)
	assert.Nil(t, got.Price)
	require.NotNil(t, got.SupplierID)
	assert.Equal(t, f.supplier.ID, *got.SupplierID)
}

func TestListFiltersBySupplier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other, err := f.suppliers.Create(ctx, suppliers.Supplier{Name: "Beta"})
	require.NoError(t, err)

	_, err = f.service.Create(ctx, Product{Name: "Areia", SupplierID: &f.supplier.ID, Price: ptr(12.5)})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, Product{Name: "Brita", SupplierID: &other.ID})
	require.NoError(t, err)

	all, err := f.service.List(ctx, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := f.service.List(ctx, ListFilters{SupplierID: &other.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Brita", filtered[0].Name)
}

func TestCascadeDeleteLeavesNoProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, name := range []string{"Areia", "Brita"} {
		_, err := f.service.Create(ctx, Product{Name: name, SupplierID: &f.supplier.ID})
		require.NoError(t, err)
	}

	require.NoError(t, f.suppliers.Delete(ctx, f.supplier.ID, true))

	remaining, err := f.service.List(ctx, ListFilters{SupplierID: &f.supplier.ID})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDeleteUnknownProduct(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.service.Delete(context.Background(), 31), httpx.ErrNotFound)
	assert.ErrorIs(t, f.service.Delete(context.Background(), 0), httpx.ErrValidation)
}
