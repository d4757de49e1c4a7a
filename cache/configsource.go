package cache

import (
	"context"

	"github.com/llm-dev-ops/policy-fabric/integration"
)

// ConfigGetter is the slice of the config manager adapter that ConfigSource
// consumes. Satisfied by *integration.ConfigManagerClient.
type ConfigGetter interface {
	GetConfig(ctx context.Context, key string) (integration.ConfigValue, error)
}

// ConfigSource is a read-through view over a config manager adapter.
// With a nil store every read goes straight to the adapter, so callers can
// compose the same code path whether or not a cache is configured.
type ConfigSource struct {
	getter ConfigGetter
	store  *Store
}

// NewConfigSource wraps getter with an optional read-through cache.
func NewConfigSource(getter ConfigGetter, store *Store) *ConfigSource {
	return &ConfigSource{getter: getter, store: store}
}

// Get returns the configuration value for key, consulting the cache first.
// A cache read or write failure falls back to the adapter silently — cached
// reads are an optimization, not a correctness dependency. Adapter failures
// propagate unchanged.
func (s *ConfigSource) Get(ctx context.Context, key string) (integration.ConfigValue, error) {
	if s.store != nil {
		var cached integration.ConfigValue
		if hit, err := s.store.Get(ctx, "config:"+key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	value, err := s.getter.GetConfig(ctx, key)
	if err != nil {
		return integration.ConfigValue{}, err
	}

	if s.store != nil {
		_ = s.store.Set(ctx, "config:"+key, value)
	}
	return value, nil
}

// Invalidate drops the cached value for key, if a store is present.
func (s *ConfigSource) Invalidate(ctx context.Context, key string) error {
	if s.store == nil {
		return nil
	}
	return s.store.Invalidate(ctx, "config:"+key)
}
