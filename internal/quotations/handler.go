package quotations

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

// Handler exposes the quotation endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds the quotation handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Routes lists the endpoints relative to /cotacoes.
func (h *Handler) Routes() []httpx.Route {
	return []httpx.Route{
		{Method: http.MethodPost, Pattern: "/enviar", Name: "quotations.send", Handler: h.send},
		{Method: http.MethodGet, Pattern: "/status", Name: "quotations.status", Handler: h.status},
		{Method: http.MethodGet, Pattern: "/{id}", Name: "quotations.show", Handler: h.show},
	}
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	q, err := h.service.Enviar(context.WithoutCancel(r.Context()), req)
	if err != nil {
		h.fail(w, "send quotation", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, q)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, "list quotations", err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "get quotation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	if httpx.StatusOf(err) >= http.StatusInternalServerError {
		h.logger.Error(msg, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
