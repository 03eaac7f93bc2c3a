// Package cache stores pipeline results between runs.
//
// A [Cache] is a byte store with per-entry TTLs. Three backends exist:
//
//   - [FileCache]: JSON entry files under the user cache directory (default)
//   - [RedisCache]: a shared Redis instance
//   - [NullCache]: stores nothing
//
// Keys come from a [Keyer], which hashes the content and the options that
// influence a stage, so a changed dataset or option never hits a stale
// entry.
package cache

import (
	"context"
	"time"
)

// Default TTLs per stage.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a key/value byte store.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendNone  = "none"
	BackendRedis = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend  string
	Dir      string // file backend
	RedisURL string // redis backend, e.g. redis://localhost:6379/0
	Prefix   string // redis key prefix
}

// Open creates the cache described by cfg. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, cfg.RedisURL, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, &UnknownBackendError{Backend: cfg.Backend}
	}
}

// UnknownBackendError reports an unsupported backend name.
type UnknownBackendError struct {
	Backend string
}

func (e *UnknownBackendError) Error() string {
	return "unknown cache backend: " + e.Backend
}
