package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/onoyima/project-exeat-sub001/pkg/redis"
)

// RedisStore keeps snapshots in Redis under session:<id>.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a Store on top of the shared Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, snap *Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.client.SaveSession(ctx, snap.ID, data, ttl)
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	data, err := s.client.LoadSession(ctx, id)
	if err != nil {
		if redis.IsNil(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &snap, nil
}

func (s *RedisStore) Invalidate(ctx context.Context, id, tokenID string, tokenTTL time.Duration) error {
	return s.client.InvalidateSession(ctx, id, tokenID, tokenTTL)
}

func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.client.IsBlacklisted(ctx, tokenID)
}
