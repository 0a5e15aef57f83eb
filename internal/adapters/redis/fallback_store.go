package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teamdesk/teamdesk/internal/ports"
)

// DefaultFallbackTTL bounds how long a fallback record can outlive the login
// that wrote it.
const DefaultFallbackTTL = 30 * 24 * time.Hour

// FallbackStore keeps best-effort role records in Redis so guards can answer
// before the authoritative session state is populated. Reads never fail:
// storage errors degrade to "no record".
type FallbackStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewFallbackStore creates a Redis-backed fallback store with the default
// key prefix and TTL.
func NewFallbackStore(client redis.UniversalClient, logger *slog.Logger) *FallbackStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackStore{
		client: client,
		prefix: "fallback:",
		ttl:    DefaultFallbackTTL,
		logger: logger.With("component", "fallback_store"),
	}
}

// NewFallbackStoreWithTTL creates a Redis-backed fallback store with a
// custom record TTL. Non-positive TTLs fall back to the default.
func NewFallbackStoreWithTTL(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *FallbackStore {
	s := NewFallbackStore(client, logger)
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

func (s *FallbackStore) Load(ctx context.Context, key string) (ports.FallbackRecord, bool) {
	if key == "" {
		return ports.FallbackRecord{}, false
	}

	data, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "fallback load failed", "err", err)
		}
		return ports.FallbackRecord{}, false
	}

	var rec ports.FallbackRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		s.logger.WarnContext(ctx, "fallback record corrupt", "err", err)
		return ports.FallbackRecord{}, false
	}
	return rec, true
}

func (s *FallbackStore) Save(ctx context.Context, key string, rec ports.FallbackRecord) error {
	if key == "" {
		return errors.New("fallback key cannot be empty")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal fallback record: %w", err)
	}
	return s.client.Set(ctx, s.prefix+key, data, s.ttl).Err()
}

func (s *FallbackStore) Clear(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+key).Err()
}
