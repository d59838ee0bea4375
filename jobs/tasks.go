package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/cotacao-hub/cotacao/internal/jobs"
	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
	"github.com/cotacao-hub/cotacao/internal/quotations"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskQuotationDispatch sends a registered quotation to its suppliers.
	TaskQuotationDispatch = "cotacao:dispatch"
)

// QuotationDispatchPayload identifies the quotation to send.
type QuotationDispatchPayload struct {
	QuotationID string `json:"cotacaoId"`
}

// NewQuotationDispatchTask constructs an Asynq task.
func NewQuotationDispatchTask(payload QuotationDispatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQuotationDispatch, data, asynq.MaxRetry(3)), nil
}

// QuotationDispatcher runs the dispatch of one quotation.
type QuotationDispatcher interface {
	Dispatch(ctx context.Context, id string) (quotations.Quotation, error)
}

// QuotationDispatchHandler processes TaskQuotationDispatch tasks.
type QuotationDispatchHandler struct {
	dispatcher QuotationDispatcher
	logger     *slog.Logger
	metrics    *jobmetrics.Metrics
}

// NewQuotationDispatchHandler wires the handler. metrics may be nil.
func NewQuotationDispatchHandler(dispatcher QuotationDispatcher, logger *slog.Logger, metrics *jobmetrics.Metrics) *QuotationDispatchHandler {
	return &QuotationDispatchHandler{dispatcher: dispatcher, logger: logger, metrics: metrics}
}

// ProcessTask implements asynq.Handler.
func (h *QuotationDispatchHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload QuotationDispatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.QuotationID == "" {
		return fmt.Errorf("decode %s payload: %w", TaskQuotationDispatch, asynq.SkipRetry)
	}
	tracker := h.metrics.Track(TaskQuotationDispatch)
	q, err := h.dispatcher.Dispatch(ctx, payload.QuotationID)
	if err != nil {
		tracker.End(err)
		if errors.Is(err, httpx.ErrNotFound) || errors.Is(err, httpx.ErrValidation) {
			h.logger.Warn("quotation dispatch dropped", slog.String("quotation_id", payload.QuotationID), slog.Any("error", err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	tracker.End(nil)
	h.logger.Info("quotation dispatched",
		slog.String("quotation_id", q.ID),
		slog.String("status", q.Status))
	return nil
}
