package inbox

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

const (
	maxWebhookBody = 1 << 20
	maxListLimit   = 500
)

// Handler serves the Digisac webhook and the stored message listing.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds the inbox handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// WebhookRoutes lists the endpoints relative to /webhook.
func (h *Handler) WebhookRoutes() []httpx.Route {
	return []httpx.Route{
		{Method: http.MethodPost, Pattern: "/digisac", Name: "webhook.digisac", Handler: h.webhook},
	}
}

// Routes lists the endpoints relative to /mensagens.
func (h *Handler) Routes() []httpx.Route {
	return []httpx.Route{
		{Method: http.MethodGet, Pattern: "/", Name: "messages.list", Handler: h.list},
	}
}

// webhook always acknowledges so the platform does not retry.
func (h *Handler) webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.logger.Warn("read webhook body", slog.Any("error", err))
	} else {
		outcome := h.service.Ingest(r.Context(), body)
		h.logger.Debug("webhook processed", slog.String("outcome", outcome))
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxListLimit {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "limit deve estar entre 1 e 500")
			return
		}
		limit = n
	}
	msgs, err := h.service.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("list inbound messages", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, msgs)
}
