package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cotacao-hub/cotacao/internal/digisac"
	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

// Handler exposes the Digisac send endpoints.
type Handler struct {
	logger       *slog.Logger
	sender       Sender
	orchestrator *Orchestrator
}

// NewHandler wires the send endpoints.
func NewHandler(logger *slog.Logger, sender Sender, orchestrator *Orchestrator) *Handler {
	return &Handler{logger: logger, sender: sender, orchestrator: orchestrator}
}

type sendRequest struct {
	Numero    string `json:"numero"`
	ContactID string `json:"contactId"`
	Text      string `json:"text"`
}

type sendSupplierRequest struct {
	FornecedorID int64  `json:"fornecedorId"`
	Text         string `json:"text"`
}

type sendManyRequest struct {
	FornecedorIDs []int64 `json:"fornecedorIds"`
	Text          string  `json:"text"`
}

type envelope struct {
	OK       bool            `json:"ok"`
	Resposta json.RawMessage `json:"resposta,omitempty"`
	Erro     string          `json:"erro,omitempty"`
	Detalhes string          `json:"detalhes,omitempty"`
}

// Routes lists the endpoints relative to /digisac.
func (h *Handler) Routes() []httpx.Route {
	return []httpx.Route{
		{Method: http.MethodPost, Pattern: "/send", Name: "digisac.send", Handler: h.send},
		{Method: http.MethodPost, Pattern: "/send-fornecedor", Name: "digisac.send_supplier", Handler: h.sendSupplier},
		{Method: http.MethodPost, Pattern: "/send-many", Name: "digisac.send_many", Handler: h.sendMany},
	}
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := httpx.Bind(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	recipient, opts := req.Numero, digisac.SendOptions{}
	if strings.TrimSpace(req.ContactID) != "" {
		recipient, opts = req.ContactID, digisac.SendOptions{Mode: digisac.ModeContact}
	} else if strings.TrimSpace(req.Numero) == "" {
		h.fail(w, httpx.Validation("numero ou contactId é obrigatório"))
		return
	}
	resp, err := h.sender.Send(r.Context(), recipient, req.Text, opts)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, envelope{OK: true, Resposta: resp})
}

func (h *Handler) sendSupplier(w http.ResponseWriter, r *http.Request) {
	var req sendSupplierRequest
	if err := httpx.Bind(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	resp, err := h.orchestrator.SendToSupplier(r.Context(), req.FornecedorID, req.Text)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, envelope{OK: true, Resposta: resp})
}

func (h *Handler) sendMany(w http.ResponseWriter, r *http.Request) {
	var req sendManyRequest
	if err := httpx.Bind(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	// A started batch runs to completion; only the Digisac client timeout bounds each send.
	report, err := h.orchestrator.SendToMany(context.WithoutCancel(r.Context()), req.FornecedorIDs, req.Text)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := httpx.StatusOf(err)
	body := envelope{Erro: httpx.Message(err)}
	var remote *httpx.RemoteError
	if errors.As(err, &remote) {
		body.Erro = "falha ao enviar mensagem pela Digisac"
		body.Detalhes = remote.Body
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("digisac request failed", slog.Any("error", err))
	}
	httpx.JSON(w, status, body)
}
