package suppliers

import (
	"time"
)

// Supplier represents a supplier (fornecedor) entity.
type Supplier struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"nome" db:"nome"`
	Contact          string    `json:"contato" db:"contato"`
	DigisacContactID *string   `json:"digisacContactId,omitempty" db:"digisac_contact_id"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// LinkedProduct is a product associated to a supplier through the link table.
type LinkedProduct struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"nome" db:"nome"`
}

// SaveSupplierRequest is the body accepted by create and update.
type SaveSupplierRequest struct {
	Nome             string  `json:"nome" validate:"required,max=200"`
	Contato          string  `json:"contato" validate:"max=64"`
	DigisacContactID *string `json:"digisacContactId" validate:"omitempty,max=128"`
}

// LinkProductRequest is the body for POST /fornecedores/{id}/produtos.
type LinkProductRequest struct {
	ProdutoID int64 `json:"produtoId" validate:"required,gt=0"`
}

func (r SaveSupplierRequest) supplier() Supplier {
	return Supplier{Name: r.Nome, Contact: r.Contato, DigisacContactID: r.DigisacContactID}
}
