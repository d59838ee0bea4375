package quotations

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

// Store persists quotations.
type Store interface {
	List(ctx context.Context) ([]Quotation, error)
	Create(ctx context.Context, q Quotation) error
	Get(ctx context.Context, id string) (Quotation, error)
	// Update applies fn to the stored quotation atomically and returns the result.
	Update(ctx context.Context, id string, fn func(*Quotation) error) (Quotation, error)
}

func notFound(id string) error {
	return fmt.Errorf("cotação %s: %w", id, httpx.ErrNotFound)
}

// MemoryStore keeps quotations in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Quotation
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Quotation)}
}

// List returns quotations ordered by send time.
func (s *MemoryStore) List(_ context.Context) ([]Quotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Quotation, 0, len(s.items))
	for _, q := range s.items {
		out = append(out, clone(q))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HoraEnvio.Equal(out[j].HoraEnvio) {
			return out[i].ID < out[j].ID
		}
		return out[i].HoraEnvio.Before(out[j].HoraEnvio)
	})
	return out, nil
}

// Create stores a new quotation.
func (s *MemoryStore) Create(_ context.Context, q Quotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[q.ID]; ok {
		return fmt.Errorf("cotação %s: %w", q.ID, httpx.ErrConflict)
	}
	s.items[q.ID] = clone(q)
	return nil
}

// Get returns a quotation by id.
func (s *MemoryStore) Get(_ context.Context, id string) (Quotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.items[id]
	if !ok {
		return Quotation{}, notFound(id)
	}
	return clone(q), nil
}

// Update mutates a quotation under the store lock.
func (s *MemoryStore) Update(_ context.Context, id string, fn func(*Quotation) error) (Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.items[id]
	if !ok {
		return Quotation{}, notFound(id)
	}
	q = clone(q)
	if err := fn(&q); err != nil {
		return Quotation{}, err
	}
	s.items[id] = clone(q)
	return q, nil
}

func clone(q Quotation) Quotation {
	q.Fornecedores = append([]Supplier(nil), q.Fornecedores...)
	q.Respostas = append([]Reply{}, q.Respostas...)
	if q.Envio != nil {
		report := *q.Envio
		report.Resultados = append(report.Resultados[:0:0], report.Resultados...)
		report.NaoEncontrados = append(report.NaoEncontrados[:0:0], report.NaoEncontrados...)
		q.Envio = &report
	}
	return q
}
