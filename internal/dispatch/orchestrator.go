// Package dispatch fans a message out to suppliers through the Digisac client.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cotacao-hub/cotacao/internal/digisac"
	"github.com/cotacao-hub/cotacao/internal/masterdata/suppliers"
	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

// ErrNoContact marks a supplier that has neither a Digisac contact id nor a phone.
var ErrNoContact = errors.New("fornecedor sem contato")

// SupplierFinder loads suppliers for dispatch.
type SupplierFinder interface {
	Get(ctx context.Context, id int64) (suppliers.Supplier, error)
	FindByIDs(ctx context.Context, ids []int64) ([]suppliers.Supplier, error)
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, recipient, text string, opts digisac.SendOptions) (json.RawMessage, error)
}

// readier is implemented by senders that can report missing configuration
// before any delivery is attempted.
type readier interface {
	Ready() error
}

// Recorder observes per-message outcomes.
type Recorder interface {
	DispatchOutcome(outcome string)
}

// Result is the outcome of one supplier delivery.
type Result struct {
	FornecedorID int64           `json:"fornecedorId"`
	Nome         string          `json:"nome"`
	Destino      string          `json:"destino,omitempty"`
	OK           bool            `json:"ok"`
	Resposta     json.RawMessage `json:"resposta,omitempty"`
	Erro         string          `json:"erro,omitempty"`
}

// Report aggregates a bulk dispatch.
type Report struct {
	OK             bool     `json:"ok"`
	Total          int      `json:"total"`
	Enviados       int      `json:"enviados"`
	Falharam       int      `json:"falharam"`
	Resultados     []Result `json:"resultados"`
	NaoEncontrados []int64  `json:"naoEncontrados"`
}

// Orchestrator resolves suppliers and sends to each of them.
type Orchestrator struct {
	logger      *slog.Logger
	suppliers   SupplierFinder
	sender      Sender
	recorder    Recorder
	concurrency int
}

// NewOrchestrator builds an orchestrator. Concurrency below 2 sends sequentially.
func NewOrchestrator(logger *slog.Logger, finder SupplierFinder, sender Sender, recorder Recorder, concurrency int) *Orchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Orchestrator{logger: logger, suppliers: finder, sender: sender, recorder: recorder, concurrency: concurrency}
}

// Recipient picks the delivery handle for a supplier: the Digisac contact id
// when present, otherwise the phone number.
func Recipient(s suppliers.Supplier) (string, digisac.SendOptions, error) {
	if s.DigisacContactID != nil && strings.TrimSpace(*s.DigisacContactID) != "" {
		return strings.TrimSpace(*s.DigisacContactID), digisac.SendOptions{Mode: digisac.ModeContact}, nil
	}
	if strings.TrimSpace(s.Contact) != "" {
		return s.Contact, digisac.SendOptions{Mode: digisac.ModePhone}, nil
	}
	return "", digisac.SendOptions{}, ErrNoContact
}

// SendToSupplier sends text to a single supplier.
func (o *Orchestrator) SendToSupplier(ctx context.Context, id int64, text string) (json.RawMessage, error) {
	if id <= 0 {
		return nil, httpx.Validation("fornecedorId inválido")
	}
	if strings.TrimSpace(text) == "" {
		return nil, httpx.Validation("texto é obrigatório")
	}
	supplier, err := o.suppliers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	recipient, opts, err := Recipient(supplier)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	resp, err := o.sender.Send(ctx, recipient, text, opts)
	o.observe(err)
	return resp, err
}

// SendToMany sends text to every distinct supplier id. A failed delivery is
// reported in its Result and never stops the remaining ones.
func (o *Orchestrator) SendToMany(ctx context.Context, ids []int64, text string) (Report, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return Report{}, httpx.Validation("fornecedorIds deve conter ao menos um id")
	}
	if strings.TrimSpace(text) == "" {
		return Report{}, httpx.Validation("texto é obrigatório")
	}
	for _, id := range unique {
		if id <= 0 {
			return Report{}, httpx.Validation("fornecedorId inválido: %d", id)
		}
	}

	if r, ok := o.sender.(readier); ok {
		if err := r.Ready(); err != nil {
			return Report{}, err
		}
	}

	found, err := o.suppliers.FindByIDs(ctx, unique)
	if err != nil {
		return Report{}, err
	}

	results := make([]Result, len(found))
	if o.concurrency > 1 && len(found) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.concurrency)
		for i, s := range found {
			g.Go(func() error {
				results[i] = o.deliver(gctx, s, text)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, s := range found {
			results[i] = o.deliver(ctx, s, text)
		}
	}

	report := Report{Total: len(results), Resultados: results, NaoEncontrados: missing(unique, found)}
	for _, r := range results {
		if r.OK {
			report.Enviados++
		} else {
			report.Falharam++
		}
	}
	report.OK = report.Falharam == 0
	o.logger.Info("bulk dispatch finished",
		slog.Int("total", report.Total),
		slog.Int("sent", report.Enviados),
		slog.Int("failed", report.Falharam),
		slog.Int("not_found", len(report.NaoEncontrados)))
	return report, nil
}

func (o *Orchestrator) deliver(ctx context.Context, s suppliers.Supplier, text string) Result {
	result := Result{FornecedorID: s.ID, Nome: s.Name}
	recipient, opts, err := Recipient(s)
	if err != nil {
		result.Erro = err.Error()
		o.observe(err)
		return result
	}
	result.Destino = recipient
	resp, err := o.sender.Send(ctx, recipient, text, opts)
	o.observe(err)
	if err != nil {
		o.logger.Warn("supplier dispatch failed", slog.Int64("supplier_id", s.ID), slog.Any("error", err))
		result.Erro = errorDetail(err)
		return result
	}
	result.OK = true
	result.Resposta = resp
	return result
}

func (o *Orchestrator) observe(err error) {
	if o.recorder == nil {
		return
	}
	if err != nil {
		o.recorder.DispatchOutcome("failed")
		return
	}
	o.recorder.DispatchOutcome("sent")
}

func errorDetail(err error) string {
	var remote *httpx.RemoteError
	if errors.As(err, &remote) {
		return fmt.Sprintf("digisac respondeu %d: %s", remote.Status, remote.Body)
	}
	return httpx.Message(err)
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missing(requested []int64, found []suppliers.Supplier) []int64 {
	present := make(map[int64]struct{}, len(found))
	for _, s := range found {
		present[s.ID] = struct{}{}
	}
	out := []int64{}
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
