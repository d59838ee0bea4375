package products

import (
	"context"
	"errors"
	"strings"

	"github.com/cotacao-hub/cotacao/internal/masterdata/suppliers"
	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

// SupplierLookup resolves the owning supplier of a product.
type SupplierLookup interface {
	Get(ctx context.Context, id int64) (suppliers.Supplier, error)
}

type Service struct {
	repo      Repository
	suppliers SupplierLookup
}

func NewService(repo Repository, suppliers SupplierLookup) *Service {
	return &Service{repo: repo, suppliers: suppliers}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, httpx.Validation("id de produto inválido")
	}
	return s.repo.Get(ctx, id)
}

// Create validates the product and checks that its supplier exists before inserting.
func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if err := validate(product); err != nil {
		return Product{}, err
	}
	if s.suppliers != nil {
		if _, err := s.suppliers.Get(ctx, *product.SupplierID); err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				return Product{}, httpx.Validation("fornecedor %d não existe", *product.SupplierID)
			}
			return Product{}, err
		}
	}
	return s.repo.Create(ctx, product)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.Validation("id de produto inválido")
	}
	return s.repo.Delete(ctx, id)
}
