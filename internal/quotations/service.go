package quotations

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cotacao-hub/cotacao/internal/dispatch"
	"github.com/cotacao-hub/cotacao/internal/masterdata/suppliers"
	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

// SupplierFinder loads the suppliers addressed by a quotation.
type SupplierFinder interface {
	FindByIDs(ctx context.Context, ids []int64) ([]suppliers.Supplier, error)
}

// Dispatcher sends the quotation text to suppliers.
type Dispatcher interface {
	SendToMany(ctx context.Context, ids []int64, text string) (dispatch.Report, error)
}

// Enqueuer schedules a quotation dispatch on the background queue.
type Enqueuer interface {
	EnqueueQuotationDispatch(ctx context.Context, quotationID string) error
}

// Service registers quotations, dispatches them and records replies.
type Service struct {
	logger     *slog.Logger
	store      Store
	suppliers  SupplierFinder
	dispatcher Dispatcher
	enqueuer   Enqueuer
	now        func() time.Time
	newID      func() string
}

// NewService builds the service. With a nil enqueuer dispatch runs inline.
func NewService(logger *slog.Logger, store Store, finder SupplierFinder, dispatcher Dispatcher, enqueuer Enqueuer) *Service {
	return &Service{
		logger:     logger,
		store:      store,
		suppliers:  finder,
		dispatcher: dispatcher,
		enqueuer:   enqueuer,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() string { return uuid.NewString() },
	}
}

// DefaultMessage builds the text sent when the request carries none.
func DefaultMessage(produto string) string {
	return fmt.Sprintf("Olá! Gostaríamos de receber uma cotação para: %s. Poderia nos informar preço e prazo de entrega?", produto)
}

// Enviar registers a quotation for the given suppliers and, unless disabled,
// dispatches it inline or through the queue.
func (s *Service) Enviar(ctx context.Context, req CreateRequest) (Quotation, error) {
	produto := strings.TrimSpace(req.Produto)
	if produto == "" {
		return Quotation{}, httpx.Validation("produto é obrigatório")
	}
	if len(req.FornecedorIDs) == 0 {
		return Quotation{}, httpx.Validation("fornecedorIds deve conter ao menos um id")
	}

	found, err := s.suppliers.FindByIDs(ctx, req.FornecedorIDs)
	if err != nil {
		return Quotation{}, err
	}
	if len(found) == 0 {
		return Quotation{}, httpx.Validation("nenhum fornecedor encontrado para os ids informados")
	}

	mensagem := strings.TrimSpace(req.Mensagem)
	if mensagem == "" {
		mensagem = DefaultMessage(produto)
	}

	q := Quotation{
		ID:           s.newID(),
		Produto:      produto,
		Mensagem:     mensagem,
		Fornecedores: make([]Supplier, 0, len(found)),
		HoraEnvio:    s.now(),
		Status:       StatusRegistered,
		Respostas:    []Reply{},
	}
	for _, sup := range found {
		snapshot := Supplier{FornecedorID: sup.ID, Nome: sup.Name, Contato: sup.Contact}
		if sup.DigisacContactID != nil {
			snapshot.ContactID = *sup.DigisacContactID
		}
		q.Fornecedores = append(q.Fornecedores, snapshot)
	}
	if err := s.store.Create(ctx, q); err != nil {
		return Quotation{}, err
	}
	s.logger.Info("quotation registered", slog.String("quotation_id", q.ID), slog.Int("suppliers", len(q.Fornecedores)))

	if req.Disparar != nil && !*req.Disparar {
		return q, nil
	}
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueQuotationDispatch(ctx, q.ID); err != nil {
			return Quotation{}, fmt.Errorf("enqueue quotation %s: %w", q.ID, err)
		}
		return s.store.Update(ctx, q.ID, func(q *Quotation) error {
			if q.Status == StatusRegistered {
				q.Status = StatusQueued
			}
			return nil
		})
	}
	return s.Dispatch(ctx, q.ID)
}

// Dispatch sends a registered quotation to its suppliers and stores the report.
func (s *Service) Dispatch(ctx context.Context, id string) (Quotation, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return Quotation{}, err
	}
	report, err := s.dispatcher.SendToMany(ctx, q.SupplierIDs(), q.Mensagem)
	if err != nil {
		return Quotation{}, err
	}
	return s.store.Update(ctx, id, func(q *Quotation) error {
		q.Envio = &report
		if q.Status != StatusAnswered {
			q.Status = dispatchStatus(report)
		}
		return nil
	})
}

func dispatchStatus(report dispatch.Report) string {
	switch {
	case report.Total > 0 && report.Enviados == report.Total:
		return StatusSent
	case report.Enviados == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}

// RecordReply appends text to every quotation addressed to contactID and
// returns how many were updated.
func (s *Service) RecordReply(ctx context.Context, contactID, text string, at time.Time) (int, error) {
	contactID = strings.TrimSpace(contactID)
	if contactID == "" || strings.TrimSpace(text) == "" {
		return 0, nil
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, q := range all {
		sup, ok := q.SupplierByContact(contactID)
		if !ok {
			continue
		}
		_, err := s.store.Update(ctx, q.ID, func(q *Quotation) error {
			q.Respostas = append(q.Respostas, Reply{
				ContactID:    contactID,
				FornecedorID: sup.FornecedorID,
				Mensagem:     text,
				Hora:         at.UTC(),
			})
			q.Status = StatusAnswered
			return nil
		})
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// List returns every quotation.
func (s *Service) List(ctx context.Context) ([]Quotation, error) {
	return s.store.List(ctx)
}

// Get returns one quotation.
func (s *Service) Get(ctx context.Context, id string) (Quotation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Quotation{}, httpx.Validation("id de cotação inválido")
	}
	return s.store.Get(ctx, id)
}
