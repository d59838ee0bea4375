package suppliers

import (
	"net/http"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

// Routes lists the supplier endpoints relative to /fornecedores.
func (h *Handler) Routes() []httpx.Route {
	return []httpx.Route{
		{Method: http.MethodGet, Pattern: "/", Name: "suppliers.list", Handler: h.List},
		{Method: http.MethodPost, Pattern: "/", Name: "suppliers.create", Handler: h.Create},
		{Method: http.MethodGet, Pattern: "/{id}", Name: "suppliers.show", Handler: h.Show},
		{Method: http.MethodPut, Pattern: "/{id}", Name: "suppliers.update", Handler: h.Update},
		{Method: http.MethodDelete, Pattern: "/{id}", Name: "suppliers.delete", Handler: h.Delete},
		{Method: http.MethodGet, Pattern: "/{id}/produtos", Name: "suppliers.products", Handler: h.ListProducts},
		{Method: http.MethodPost, Pattern: "/{id}/produtos", Name: "suppliers.products.link", Handler: h.LinkProduct},
		{Method: http.MethodDelete, Pattern: "/{id}/produtos/{produtoId}", Name: "suppliers.products.unlink", Handler: h.UnlinkProduct},
	}
}
