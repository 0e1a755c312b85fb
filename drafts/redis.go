package drafts

import (
	"context"
	"fmt"
	"time"

	"stayvia/rdx"
)

const redisPrefix = "draft:"

// RedisStore keeps drafts in redis with the key TTL set to the draft's
// remaining lifetime. It uses the shared rdx connection.
type RedisStore struct {
	now func() time.Time
}

func NewRedisStore() *RedisStore {
	return &RedisStore{now: time.Now}
}

func (s *RedisStore) Put(ctx context.Context, rec Record) error {
	ttl := rec.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("store draft %s: already expired", rec.ID)
	}
	if err := rdx.RdxSetJSON(ctx, redisPrefix+rec.ID, rec, ttl); err != nil {
		return fmt.Errorf("store draft %s: %w", rec.ID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	ok, err := rdx.RdxGetJSON(ctx, redisPrefix+id, &rec)
	if err != nil {
		return Record{}, fmt.Errorf("load draft %s: %w", id, err)
	}
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return rdx.RdxDel(ctx, redisPrefix+id)
}
