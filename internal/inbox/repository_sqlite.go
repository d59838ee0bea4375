package inbox

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

type sqliteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository returns the embedded store repository.
func NewSQLiteRepository(conn *sqlx.DB) Repository {
	return &sqliteRepository{db: conn}
}

func (r *sqliteRepository) InsertIgnore(ctx context.Context, msg Message) (bool, error) {
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO mensagens_digisac `+insertColumns+`
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (message_id) DO NOTHING`,
		msg.MessageID, msg.Event, msg.IsFromMe, msg.ContactID, msg.ThreadID, msg.Text,
		msg.RemoteTimestamp, string(msg.Payload), msg.ReceivedAt)
	if err != nil {
		return false, httpx.Storage("insert inbound message", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, httpx.Storage("insert inbound message", err)
	}
	return n > 0, nil
}

func (r *sqliteRepository) List(ctx context.Context, limit int) ([]Message, error) {
	var rows []row
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, message_id, event, is_from_me, contact_id, thread_id, text, remote_timestamp, payload, received_at
		FROM mensagens_digisac ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, httpx.Storage("list inbound messages", err)
	}
	out := make([]Message, 0, len(rows))
	for _, rec := range rows {
		out = append(out, rec.message())
	}
	return out, nil
}
