package procurement

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

// Handler exposes purchase request endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds the HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Routes lists the endpoints relative to /pedidos.
func (h *Handler) Routes() []httpx.Route {
	return []httpx.Route{
		{Method: http.MethodGet, Pattern: "/", Name: "purchase_requests.list", Handler: h.list},
		{Method: http.MethodPost, Pattern: "/", Name: "purchase_requests.create", Handler: h.create},
		{Method: http.MethodGet, Pattern: "/{id}", Name: "purchase_requests.show", Handler: h.show},
		{Method: http.MethodPatch, Pattern: "/{id}/status", Name: "purchase_requests.status", Handler: h.updateStatus},
		{Method: http.MethodDelete, Pattern: "/{id}", Name: "purchase_requests.delete", Handler: h.delete},
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	prs, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, "list purchase requests", err)
		return
	}
	httpx.JSON(w, http.StatusOK, prs)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	pr, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get purchase request", err)
		return
	}
	httpx.JSON(w, http.StatusOK, pr)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	pr, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.fail(w, "create purchase request", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, pr)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req StatusRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	pr, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.fail(w, "update purchase request status", err)
		return
	}
	httpx.JSON(w, http.StatusOK, pr)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete purchase request", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "id inválido")
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	if httpx.StatusOf(err) >= http.StatusInternalServerError {
		h.logger.Error(msg, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
