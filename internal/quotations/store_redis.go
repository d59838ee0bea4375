package quotations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

const (
	redisKeyPrefix   = "cotacao:"
	redisIndexKey    = "cotacoes"
	maxUpdateRetries = 10
)

// RedisStore persists quotations as JSON documents indexed by a sorted set.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

// List returns quotations ordered by send time.
func (s *RedisStore) List(ctx context.Context) ([]Quotation, error) {
	ids, err := s.client.ZRange(ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return nil, httpx.Storage("list quotations", err)
	}
	out := make([]Quotation, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, httpx.Storage("list quotations", err)
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var q Quotation
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return nil, httpx.Storage("decode quotation", err)
		}
		out = append(out, q)
	}
	return out, nil
}

// Create stores a new quotation; an existing id is a conflict.
func (s *RedisStore) Create(ctx context.Context, q Quotation) error {
	raw, err := json.Marshal(q)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, redisKey(q.ID), raw, 0).Result()
	if err != nil {
		return httpx.Storage("create quotation", err)
	}
	if !ok {
		return fmt.Errorf("cotação %s: %w", q.ID, httpx.ErrConflict)
	}
	score := float64(q.HoraEnvio.UnixMilli())
	if err := s.client.ZAdd(ctx, redisIndexKey, redis.Z{Score: score, Member: q.ID}).Err(); err != nil {
		return httpx.Storage("index quotation", err)
	}
	return nil
}

// Get loads a quotation by id.
func (s *RedisStore) Get(ctx context.Context, id string) (Quotation, error) {
	return s.get(ctx, s.client, id)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) get(ctx context.Context, c getter, id string) (Quotation, error) {
	raw, err := c.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Quotation{}, notFound(id)
	}
	if err != nil {
		return Quotation{}, httpx.Storage("get quotation", err)
	}
	var q Quotation
	if err := json.Unmarshal(raw, &q); err != nil {
		return Quotation{}, httpx.Storage("decode quotation", err)
	}
	return q, nil
}

// Update runs fn inside a WATCH/MULTI transaction, retrying when the key changes concurrently.
func (s *RedisStore) Update(ctx context.Context, id string, fn func(*Quotation) error) (Quotation, error) {
	key := redisKey(id)
	var result Quotation
	txf := func(tx *redis.Tx) error {
		q, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(&q); err != nil {
			return err
		}
		raw, err := json.Marshal(q)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, 0)
			return nil
		})
		if err == nil {
			result = q
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return Quotation{}, httpx.Storage("update quotation", err)
		}
		return result, nil
	}
	return Quotation{}, httpx.Storage("update quotation", errors.New("too many concurrent updates"))
}
