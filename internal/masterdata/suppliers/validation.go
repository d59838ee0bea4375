package suppliers

import (
	"strings"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

func normalize(sup Supplier) Supplier {
	sup.Name = strings.TrimSpace(sup.Name)
	sup.Contact = strings.TrimSpace(sup.Contact)
	if sup.DigisacContactID != nil {
		handle := strings.TrimSpace(*sup.DigisacContactID)
		if handle == "" {
			sup.DigisacContactID = nil
		} else {
			sup.DigisacContactID = &handle
		}
	}
	return sup
}

func validate(sup Supplier) error {
	if sup.Name == "" {
		return httpx.Validation("O nome é obrigatório.")
	}
	return nil
}

func validateID(id int64) error {
	if id <= 0 {
		return httpx.Validation("id de fornecedor inválido")
	}
	return nil
}
