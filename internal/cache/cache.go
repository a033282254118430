// Package cache is the Redis-backed TTL store for widget envelopes. Every
// operation degrades to a logged no-op when Redis is not configured or not
// reachable; the widget layer never sees a cache error.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/logger"
)

const keyPrefix = "widget:"

type Service struct {
	rdb *redis.Client
}

// New wraps a Redis client; rdb may be nil, in which case every operation is
// a no-op and Get always misses.
func New(rdb *redis.Client) *Service {
	return &Service{rdb: rdb}
}

// Get returns the cached envelope for key, or (nil, false) on miss, backend
// failure, or a corrupt entry.
func (s *Service) Get(ctx context.Context, key string) (*dto.WidgetData, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.FromContext(ctx).Warn("cache get failed", "key", key, "error", err)
		return nil, false
	}
	var data dto.WidgetData
	if err := json.Unmarshal(raw, &data); err != nil {
		logger.FromContext(ctx).Warn("corrupt cache entry, treating as miss", "key", key, "error", err)
		s.Delete(ctx, key)
		return nil, false
	}
	return &data, true
}

// Set stores the envelope under key for ttl.
func (s *Service) Set(ctx context.Context, key string, data *dto.WidgetData, ttl time.Duration) {
	if s.rdb == nil || data == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		logger.FromContext(ctx).Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := s.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn("cache set failed", "key", key, "error", err)
	}
}

// Delete removes key.
func (s *Service) Delete(ctx context.Context, key string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		logger.FromContext(ctx).Warn("cache delete failed", "key", key, "error", err)
	}
}

// Clear removes every widget entry.
func (s *Service) Clear(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		s.Delete(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.FromContext(ctx).Warn("cache clear failed", "error", err)
	}
}

// Close releases the underlying client.
func (s *Service) Close() error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
