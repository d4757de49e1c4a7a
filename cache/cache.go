// Package cache provides an optional Redis-backed read cache for
// integration responses.
//
// The cache sits beside the adapters, never inside them: adapters stay
// stateless single-call translations, and callers that want cached reads
// compose a Store with an adapter via ConfigSource. Values are encoded with
// msgpack and expire after a fixed TTL.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultTTL is the entry lifetime used when none is configured.
const DefaultTTL = 10 * time.Minute

// Store is a Redis-backed key/value cache with msgpack-encoded values.
// Immutable after construction and safe for concurrent use.
type Store struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewStore creates a cache store from a Redis URL.
// Returns an error if the URL is empty or invalid. Construction does not
// dial; connection failures surface on first use.
func NewStore(url, prefix string, ttl time.Duration) (*Store, error) {
	if url == "" {
		return nil, errors.New("cache store requires a redis URL")
	}

	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache store: invalid URL: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Store{
		client: goredis.NewClient(opts),
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

// Get reads the cached value for key into dest.
// Returns false on a miss; an error only for transport or decode failures.
func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := msgpack.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set writes value under key with the store TTL.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Invalidate removes the cached value for key. Removing an absent key is
// not an error.
func (s *Store) Invalidate(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", key, err)
	}
	return nil
}

// Ping reports whether the Redis backend is reachable.
func (s *Store) Ping(ctx context.Context) bool {
	return s.client.Ping(ctx).Err() == nil
}

// Close releases the underlying Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
