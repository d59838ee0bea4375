// Package inbox stores inbound Digisac messages delivered by webhook.
package inbox

import (
	"encoding/json"
	"time"
)

// EventMessageCreated is the only webhook event that is persisted.
const EventMessageCreated = "message.created"

// Message is a persisted inbound message.
type Message struct {
	ID              int64           `json:"id"`
	MessageID       string          `json:"messageId"`
	Event           string          `json:"event"`
	IsFromMe        bool            `json:"isFromMe"`
	ContactID       string          `json:"contactId"`
	ThreadID        string          `json:"threadId"`
	Text            string          `json:"text"`
	RemoteTimestamp *time.Time      `json:"timestamp,omitempty"`
	Payload         json.RawMessage `json:"payload"`
	ReceivedAt      time.Time       `json:"receivedAt"`
}

// row mirrors mensagens_digisac; payload is kept as text so both drivers can scan it.
type row struct {
	ID              int64      `db:"id"`
	MessageID       string     `db:"message_id"`
	Event           string     `db:"event"`
	IsFromMe        bool       `db:"is_from_me"`
	ContactID       string     `db:"contact_id"`
	ThreadID        string     `db:"thread_id"`
	Text            string     `db:"text"`
	RemoteTimestamp *time.Time `db:"remote_timestamp"`
	Payload         string     `db:"payload"`
	ReceivedAt      time.Time  `db:"received_at"`
}

func (r row) message() Message {
	return Message{
		ID:              r.ID,
		MessageID:       r.MessageID,
		Event:           r.Event,
		IsFromMe:        r.IsFromMe,
		ContactID:       r.ContactID,
		ThreadID:        r.ThreadID,
		Text:            r.Text,
		RemoteTimestamp: r.RemoteTimestamp,
		Payload:         json.RawMessage(r.Payload),
		ReceivedAt:      r.ReceivedAt,
	}
}
