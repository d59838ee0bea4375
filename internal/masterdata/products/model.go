package products

import "time"

// Product represents an item offered by a supplier.
type Product struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"nome" db:"nome"`
	Price      *float64  `json:"preco" db:"preco"`
	SupplierID *int64    `json:"fornecedorId" db:"fornecedor_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// CreateProductRequest is the body for POST /produtos.
type CreateProductRequest struct {
	Nome         string   `json:"nome" validate:"required,max=200"`
	FornecedorID *int64   `json:"fornecedorId" validate:"required,gt=0"`
	Preco        *float64 `json:"preco" validate:"omitempty,gte=0"`
}

// ListFilters narrows the product listing.
type ListFilters struct {
	SupplierID *int64
}
