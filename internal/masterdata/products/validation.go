package products

import (
	"strings"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

func validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return httpx.Validation("O nome do produto é obrigatório.")
	}
	if p.SupplierID == nil || *p.SupplierID <= 0 {
		return httpx.Validation("fornecedorId é obrigatório")
	}
	if p.Price != nil && *p.Price < 0 {
		return httpx.Validation("preco não pode ser negativo")
	}
	return nil
}
