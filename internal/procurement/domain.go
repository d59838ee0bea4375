package procurement

import (
	"time"
)

// DefaultStatus is assigned to purchase requests created without a status.
const DefaultStatus = "aberto"

// PurchaseRequest (pedido) is an internal request tracked through a free-text status.
type PurchaseRequest struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"titulo" db:"titulo"`
	Description string    `json:"descricao" db:"descricao"`
	Status      string    `json:"status" db:"status"`
	ProductID   *int64    `json:"produtoId,omitempty" db:"produto_id"`
	SupplierID  *int64    `json:"fornecedorId,omitempty" db:"fornecedor_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateRequest is the body for POST /pedidos.
type CreateRequest struct {
	Titulo       string `json:"titulo" validate:"required,max=200"`
	Descricao    string `json:"descricao" validate:"max=4000"`
	Status       string `json:"status" validate:"max=40"`
	ProdutoID    *int64 `json:"produtoId" validate:"omitempty,gt=0"`
	FornecedorID *int64 `json:"fornecedorId" validate:"omitempty,gt=0"`
}

// StatusRequest is the body for PATCH /pedidos/{id}/status.
type StatusRequest struct {
	Status string `json:"status" validate:"required,max=40"`
}
