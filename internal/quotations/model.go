// Package quotations tracks price requests sent to suppliers and the replies they send back.
package quotations

import (
	"time"

	"github.com/cotacao-hub/cotacao/internal/dispatch"
)

// Quotation statuses.
const (
	StatusRegistered = "registrada"
	StatusQueued     = "na_fila"
	StatusSent       = "enviada"
	StatusPartial    = "parcial"
	StatusFailed     = "falhou"
	StatusAnswered   = "respondida"
)

// Supplier is the snapshot of a supplier taken when the quotation was created.
type Supplier struct {
	FornecedorID int64  `json:"fornecedorId"`
	Nome         string `json:"nome"`
	Contato      string `json:"contato,omitempty"`
	ContactID    string `json:"contactId,omitempty"`
}

// Reply is a supplier answer received through the webhook.
type Reply struct {
	ContactID    string    `json:"contactId"`
	FornecedorID int64     `json:"fornecedorId"`
	Mensagem     string    `json:"mensagem"`
	Hora         time.Time `json:"hora"`
}

// Quotation is a price request addressed to one or more suppliers.
type Quotation struct {
	ID           string           `json:"id"`
	Produto      string           `json:"produto"`
	Mensagem     string           `json:"mensagem"`
	Fornecedores []Supplier       `json:"fornecedores"`
	HoraEnvio    time.Time        `json:"horaEnvio"`
	Status       string           `json:"status"`
	Envio        *dispatch.Report `json:"envio,omitempty"`
	Respostas    []Reply          `json:"respostas"`
}

// SupplierIDs returns the ids of every addressed supplier in order.
func (q Quotation) SupplierIDs() []int64 {
	ids := make([]int64, 0, len(q.Fornecedores))
	for _, s := range q.Fornecedores {
		ids = append(ids, s.FornecedorID)
	}
	return ids
}

// SupplierByContact finds the addressed supplier with the given Digisac contact id.
func (q Quotation) SupplierByContact(contactID string) (Supplier, bool) {
	for _, s := range q.Fornecedores {
		if s.ContactID != "" && s.ContactID == contactID {
			return s, true
		}
	}
	return Supplier{}, false
}

// CreateRequest is the body for POST /cotacoes/enviar.
type CreateRequest struct {
	Produto       string  `json:"produto" validate:"required,max=200"`
	FornecedorIDs []int64 `json:"fornecedorIds" validate:"required,min=1,dive,gt=0"`
	Mensagem      string  `json:"mensagem" validate:"max=4000"`
	Disparar      *bool   `json:"disparar"`
}
