package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jmgilman/go/repometa/internal/logging"
)

// Kind names a cached metadata set.
type Kind string

const (
	KindSize        Kind = "size"
	KindBranchNames Kind = "branch_names"
	KindTagNames    Kind = "tag_names"
)

// Kinds returns every cached kind. Invalidate deletes all of them.
func Kinds() []Kind {
	return []Kind{KindSize, KindBranchNames, KindTagNames}
}

// Key returns the provider key for kind and identifier.
func Key(kind Kind, identifier string) string {
	return fmt.Sprintf("%s:%s", kind, identifier)
}

// Provider is a shared key-value byte store. Get returns (value, true, nil) on
// a hit and (nil, false, nil) on a miss. Delete of an absent key is not an
// error. Implementations must be safe for concurrent use.
type Provider interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Cache fronts a Provider with JSON encoding, logging and metrics.
type Cache struct {
	provider Provider
	logger   logging.Logger
	metrics  *metrics
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithRegisterer registers the cache's counters on reg. Collectors already
// registered by another Cache on the same registry are shared.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Cache) {
		c.metrics = newMetrics(reg)
	}
}

// New creates a Cache over provider.
//
// Example:
//
//	c := cache.New(cache.NewMemory(1024), cache.WithRegisterer(prometheus.DefaultRegisterer))
func New(provider Provider, opts ...Option) *Cache {
	c := &Cache{
		provider: provider,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = newMetrics(nil)
	}

	return c
}

// Provider returns the underlying provider.
func (c *Cache) Provider() Provider {
	return c.provider
}

// ReadThrough returns the value cached under kind and identifier, calling
// compute and storing its result on a miss. compute errors are returned and
// nothing is stored.
//
// An entry that cannot be decoded into T is treated as a miss and overwritten.
//
// Example:
//
//	names, err := cache.ReadThrough(ctx, c, cache.KindBranchNames, "group/project",
//	    repo.BranchNames)
func ReadThrough[T any](ctx context.Context, c *Cache, kind Kind, identifier string, compute func() (T, error)) (T, error) {
	key := Key(kind, identifier)

	data, ok, err := c.provider.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn(ctx, "cache read failed", "key", key, "error", err)
	case ok:
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			c.metrics.hits.WithLabelValues(string(kind)).Inc()
			c.logger.Debug(ctx, "cache hit", "key", key)
			return value, nil
		}
		c.logger.Warn(ctx, "discarding undecodable cache entry", "key", key)
	}

	c.metrics.misses.WithLabelValues(string(kind)).Inc()
	c.logger.Debug(ctx, "cache miss", "key", key)

	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn(ctx, "failed to encode cache entry", "key", key, "error", err)
		return value, nil
	}

	if err := c.provider.Set(ctx, key, encoded); err != nil {
		c.logger.Warn(ctx, "cache write failed", "key", key, "error", err)
		return value, nil
	}
	c.metrics.writes.WithLabelValues(string(kind)).Inc()

	return value, nil
}

// Invalidate deletes every cached kind for identifier. All deletions are
// attempted; failures are joined into the returned error.
func (c *Cache) Invalidate(ctx context.Context, identifier string) error {
	var errs []error
	for _, kind := range Kinds() {
		key := Key(kind, identifier)
		if err := c.provider.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete %q: %w", key, err))
			continue
		}
		c.metrics.invalidations.WithLabelValues(string(kind)).Inc()
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	c.logger.Debug(ctx, "cache invalidated", "repository", identifier)
	return nil
}
