package suppliers

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

type memoryRepo struct {
	suppliers map[int64]Supplier
	links     map[int64][]LinkedProduct
	nextID    int64
	cascaded  []int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{suppliers: map[int64]Supplier{}, links: map[int64][]LinkedProduct{}}
}

func (m *memoryRepo) List(ctx context.Context) ([]Supplier, error) {
	out := make([]Supplier, 0, len(m.suppliers))
	for _, s := range m.suppliers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryRepo) Get(ctx context.Context, id int64) (Supplier, error) {
	s, ok := m.suppliers[id]
	if !ok {
		return Supplier{}, notFound(id)
	}
	return s, nil
}

func (m *memoryRepo) FindByIDs(ctx context.Context, ids []int64) ([]Supplier, error) {
	all, _ := m.List(ctx)
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []Supplier
	for _, s := range all {
		if want[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryRepo) Create(ctx context.Context, s Supplier) (Supplier, error) {
	m.nextID++
	s.ID = m.nextID
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	m.suppliers[s.ID] = s
	return s, nil
}

func (m *memoryRepo) Update(ctx context.Context, id int64, s Supplier) (Supplier, error) {
	existing, ok := m.suppliers[id]
	if !ok {
		return Supplier{}, notFound(id)
	}
	s.ID = id
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = time.Now()
	m.suppliers[id] = s
	return s, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.suppliers[id]; !ok {
		return notFound(id)
	}
	delete(m.suppliers, id)
	return nil
}

func (m *memoryRepo) DeleteCascade(ctx context.Context, id int64) error {
	m.cascaded = append(m.cascaded, id)
	return m.Delete(ctx, id)
}

func (m *memoryRepo) ListProducts(ctx context.Context, id int64) ([]LinkedProduct, error) {
	return m.links[id], nil
}

func (m *memoryRepo) LinkProduct(ctx context.Context, id, productID int64) error {
	m.links[id] = append(m.links[id], LinkedProduct{ID: productID})
	return nil
}

func (m *memoryRepo) UnlinkProduct(ctx context.Context, id, productID int64) error {
	return nil
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), Supplier{Name: "   ", Contact: "14 99999-0000"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateEchoesInput(t *testing.T) {
	svc := NewService(newMemoryRepo())

	created, err := svc.Create(context.Background(), Supplier{Name: " Casa do Cimento ", Contact: "+55 (14) 99524-1168"})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, "Casa do Cimento", created.Name)
	assert.Equal(t, "+55 (14) 99524-1168", created.Contact)
	assert.Nil(t, created.DigisacContactID)
}

func TestCreateDropsBlankContactHandle(t *testing.T) {
	svc := NewService(newMemoryRepo())
	blank := "  "

	created, err := svc.Create(context.Background(), Supplier{Name: "Alfa", DigisacContactID: &blank})
	require.NoError(t, err)
	assert.Nil(t, created.DigisacContactID)
}

func TestDeleteChoosesCascade(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()
	a, _ := svc.Create(ctx, Supplier{Name: "A"})
	b, _ := svc.Create(ctx, Supplier{Name: "B"})

	require.NoError(t, svc.Delete(ctx, a.ID, false))
	require.NoError(t, svc.Delete(ctx, b.ID, true))
	assert.Equal(t, []int64{b.ID}, repo.cascaded)
	assert.ErrorIs(t, svc.Delete(ctx, b.ID, false), httpx.ErrNotFound)
}

func TestRejectsInvalidID(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Get(ctx, 0)
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.ErrorIs(t, svc.Delete(ctx, -1, true), httpx.ErrValidation)
	_, err = svc.Update(ctx, 0, Supplier{Name: "x"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestFindByIDsSkipsEmptyInput(t *testing.T) {
	svc := NewService(newMemoryRepo())
	found, err := svc.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}
