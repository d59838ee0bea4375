package procurement

import (
	"context"
	"strings"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

// Service orchestrates purchase request flows.
type Service struct {
	repo RepositoryPort
}

// NewService constructs procurement service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns every purchase request.
func (s *Service) List(ctx context.Context) ([]PurchaseRequest, error) {
	return s.repo.List(ctx)
}

// Get returns a single purchase request.
func (s *Service) Get(ctx context.Context, id int64) (PurchaseRequest, error) {
	if id <= 0 {
		return PurchaseRequest{}, httpx.Validation("id de pedido inválido")
	}
	return s.repo.Get(ctx, id)
}

// Create registers a purchase request, defaulting the status to DefaultStatus.
func (s *Service) Create(ctx context.Context, req CreateRequest) (PurchaseRequest, error) {
	pr := PurchaseRequest{
		Title:       strings.TrimSpace(req.Titulo),
		Description: strings.TrimSpace(req.Descricao),
		Status:      strings.TrimSpace(req.Status),
		ProductID:   req.ProdutoID,
		SupplierID:  req.FornecedorID,
	}
	if pr.Title == "" {
		return PurchaseRequest{}, httpx.Validation("O título é obrigatório.")
	}
	if pr.Status == "" {
		pr.Status = DefaultStatus
	}
	return s.repo.Create(ctx, pr)
}

// UpdateStatus moves a purchase request to a new free-text status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (PurchaseRequest, error) {
	if id <= 0 {
		return PurchaseRequest{}, httpx.Validation("id de pedido inválido")
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return PurchaseRequest{}, httpx.Validation("status é obrigatório")
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete removes a purchase request.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.Validation("id de pedido inválido")
	}
	return s.repo.Delete(ctx, id)
}
