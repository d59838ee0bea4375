package inbox

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

// DefaultListLimit caps GET /mensagens when no limit is given.
const DefaultListLimit = 100

// Repository persists inbound messages.
type Repository interface {
	// InsertIgnore stores msg unless its MessageID already exists and reports whether a row was written.
	InsertIgnore(ctx context.Context, msg Message) (bool, error)
	List(ctx context.Context, limit int) ([]Message, error)
}

const insertColumns = `(message_id, event, is_from_me, contact_id, thread_id, text, remote_timestamp, payload, received_at)`

const selectColumns = `SELECT id, message_id, event, is_from_me, contact_id, thread_id, text, remote_timestamp, payload::text, received_at FROM mensagens_digisac`

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository returns the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) InsertIgnore(ctx context.Context, msg Message) (bool, error) {
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now().UTC()
	}
	tag, err := r.pool.Exec(ctx, `INSERT INTO mensagens_digisac `+insertColumns+`
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)
		ON CONFLICT (message_id) DO NOTHING`,
		msg.MessageID, msg.Event, msg.IsFromMe, msg.ContactID, msg.ThreadID, msg.Text,
		msg.RemoteTimestamp, string(msg.Payload), msg.ReceivedAt)
	if err != nil {
		return false, httpx.Storage("insert inbound message", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *pgRepository) List(ctx context.Context, limit int) ([]Message, error) {
	rows, err := r.pool.Query(ctx, selectColumns+` ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, httpx.Storage("list inbound messages", err)
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		var rec row
		if err := rows.Scan(&rec.ID, &rec.MessageID, &rec.Event, &rec.IsFromMe, &rec.ContactID, &rec.ThreadID,
			&rec.Text, &rec.RemoteTimestamp, &rec.Payload, &rec.ReceivedAt); err != nil {
			return nil, httpx.Storage("list inbound messages", err)
		}
		out = append(out, rec.message())
	}
	return out, httpx.Storage("list inbound messages", rows.Err())
}
