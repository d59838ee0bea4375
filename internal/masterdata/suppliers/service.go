package suppliers

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Supplier, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	if err := validateID(id); err != nil {
		return Supplier{}, err
	}
	return s.repo.Get(ctx, id)
}

// FindByIDs loads the suppliers matching ids in ascending id order. Unknown ids are skipped.
func (s *Service) FindByIDs(ctx context.Context, ids []int64) ([]Supplier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.repo.FindByIDs(ctx, ids)
}

func (s *Service) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	supplier = normalize(supplier)
	if err := validate(supplier); err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, supplier)
}

func (s *Service) Update(ctx context.Context, id int64, supplier Supplier) (Supplier, error) {
	if err := validateID(id); err != nil {
		return Supplier{}, err
	}
	supplier = normalize(supplier)
	if err := validate(supplier); err != nil {
		return Supplier{}, err
	}
	return s.repo.Update(ctx, id, supplier)
}

// Delete removes a supplier. With cascade the supplier's products are removed in the same transaction;
// without it a supplier that still owns products yields httpx.ErrConflict.
func (s *Service) Delete(ctx context.Context, id int64, cascade bool) error {
	if err := validateID(id); err != nil {
		return err
	}
	if cascade {
		return s.repo.DeleteCascade(ctx, id)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, id int64) ([]LinkedProduct, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.ListProducts(ctx, id)
}

func (s *Service) LinkProduct(ctx context.Context, id, productID int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.repo.LinkProduct(ctx, id, productID)
}

func (s *Service) UnlinkProduct(ctx context.Context, id, productID int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.repo.UnlinkProduct(ctx, id, productID)
}
