// Package cache fronts the dashboard listing with a Redis cache-aside
// layer. It is a pure performance optimization: every code path that reads
// through it falls back to the source of truth on a miss, and every
// mutation invalidates it, so correctness never depends on a hit.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache: miss")

// DashboardKey is the single key the dashboard listing lives under; it has
// no per-tournament variant because the listing itself spans every
// tournament.
const DashboardKey = "dashboard:listing"

// DashboardTTL bounds how stale a cache hit can be before the next request
// falls through to the store regardless of invalidation.
const DashboardTTL = 30 * time.Second

// Store wraps a redis.Client with the narrow Get/Set/Delete surface the
// service layer needs.
type Store struct {
	client *redis.Client
	logger *log.Logger
}

func NewStore(client *redis.Client, logger *log.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// Set marshals value as JSON and stores it with the given expiration. A
// zero-value Store (no client configured) is a no-op, so the cache can be
// disabled in tests or degraded deployments without branching at call sites.
func (s *Store) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

// Get unmarshals the cached value for key into dest, returning ErrMiss if
// it is absent or the cache is disabled.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) error {
	if s.client == nil {
		return ErrMiss
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("cache: get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache: unmarshal %s: %w", key, err)
	}
	return nil
}

// Delete removes key, logging rather than failing the caller — a cache
// invalidation that doesn't land just means the next read is stale by one
// write, not a correctness issue.
func (s *Store) Delete(ctx context.Context, key string) {
	if s.client == nil {
		return
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Printf("cache: delete %s: %v", key, err)
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx).Err()
}
