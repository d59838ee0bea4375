package inbox

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Webhook outcomes, also used as metric labels.
const (
	OutcomeInvalid   = "invalid"
	OutcomeIgnored   = "ignored"
	OutcomeDuplicate = "duplicate"
	OutcomeStored    = "stored"
	OutcomeError     = "error"
)

// ReplyRecorder attaches a supplier reply to the quotations sent to that contact.
type ReplyRecorder interface {
	RecordReply(ctx context.Context, contactID, text string, at time.Time) (int, error)
}

// Observer counts webhook outcomes.
type Observer interface {
	WebhookResult(result string)
}

// Service ingests webhook deliveries and lists stored messages.
type Service struct {
	logger   *slog.Logger
	repo     Repository
	replies  ReplyRecorder
	observer Observer
	now      func() time.Time
}

// NewService builds the inbox service. replies and observer may be nil.
func NewService(logger *slog.Logger, repo Repository, replies ReplyRecorder, observer Observer) *Service {
	return &Service{
		logger:   logger,
		repo:     repo,
		replies:  replies,
		observer: observer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type envelope struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

// Ingest classifies one webhook body and stores relevant messages. Failures are
// logged and reported through the outcome, never returned.
func (s *Service) Ingest(ctx context.Context, body []byte) string {
	outcome := s.ingest(ctx, body)
	if s.observer != nil {
		s.observer.WebhookResult(outcome)
	}
	return outcome
}

func (s *Service) ingest(ctx context.Context, body []byte) string {
	var env envelope
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil || env.Event == "" || env.Data == nil {
		s.logger.Debug("webhook payload without event or data")
		return OutcomeInvalid
	}

	msg := Message{
		Event:     env.Event,
		IsFromMe:  boolField(env.Data, "isFromMe"),
		ContactID: stringField(env.Data, "contactId"),
		ThreadID:  stringField(env.Data, "ticketId", "threadId"),
		Text:      stringField(env.Data, "text"),
		MessageID: stringField(env.Data, "id", "messageId"),
		Payload:   json.RawMessage(body),
	}
	if env.Event != EventMessageCreated || msg.IsFromMe || msg.MessageID == "" {
		return OutcomeIgnored
	}
	if ts, ok := parseTimestamp(env.Data["timestamp"]); ok {
		msg.RemoteTimestamp = &ts
	}
	msg.ReceivedAt = s.now()

	inserted, err := s.repo.InsertIgnore(ctx, msg)
	if err != nil {
		s.logger.Error("store inbound message", slog.String("message_id", msg.MessageID), slog.Any("error", err))
		return OutcomeError
	}
	if !inserted {
		return OutcomeDuplicate
	}

	if s.replies != nil && msg.ContactID != "" && strings.TrimSpace(msg.Text) != "" {
		at := msg.ReceivedAt
		if msg.RemoteTimestamp != nil {
			at = *msg.RemoteTimestamp
		}
		n, err := s.replies.RecordReply(ctx, msg.ContactID, msg.Text, at)
		if err != nil {
			s.logger.Error("record quotation reply", slog.String("contact_id", msg.ContactID), slog.Any("error", err))
		} else if n > 0 {
			s.logger.Info("quotation reply recorded", slog.String("contact_id", msg.ContactID), slog.Int("quotations", n))
		}
	}
	return OutcomeStored
}

// List returns the newest stored messages first.
func (s *Service) List(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.repo.List(ctx, limit)
}

func stringField(data map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := data[key].(type) {
		case string:
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func boolField(data map[string]any, key string) bool {
	switch v := data[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// parseTimestamp accepts RFC3339 strings and unix seconds or milliseconds.
func parseTimestamp(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t.UTC(), true
		}
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return unix(n), true
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return unix(n), true
		}
		if f, err := v.Float64(); err == nil {
			return unix(int64(f)), true
		}
	}
	return time.Time{}, false
}

func unix(n int64) time.Time {
	if n > 1e12 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}
