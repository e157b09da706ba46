// Package store provides the namespaced key-value storage behind user settings,
// analysis history and the fetched-page cache.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Namespaces used by the server.
const (
	NamespaceSettings = "settings"
	NamespaceHistory  = "history"
)

// ErrNotFound is returned when a key is missing or expired.
var ErrNotFound = errors.New("store: key not found")

// Entry is one stored value.
type Entry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// Store is a namespaced key-value store. A zero ttl means the value never expires.
type Store interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Set(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, namespace, key string) error
	List(ctx context.Context, namespace string) ([]Entry, error)
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Backend       Backend
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// SecretKey seals stored values when set.
	SecretKey string
}

// UnsupportedBackendError is returned by New for an unknown backend name.
type UnsupportedBackendError struct {
	Backend Backend
}

func (e *UnsupportedBackendError) Error() string {
	return fmt.Sprintf("unsupported store backend %q", e.Backend)
}

// New builds the configured backend, wrapped in a SealedStore when a secret is set.
// An empty backend selects memory.
func New(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case "", BackendMemory:
		s = NewMemoryStore()
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
	case BackendPostgres:
		s, err = NewPostgresStore(ctx, opts.DatabaseURL)
	default:
		return nil, &UnsupportedBackendError{Backend: opts.Backend}
	}
	if err != nil {
		return nil, err
	}

	if opts.SecretKey != "" {
		return NewSealedStore(s, opts.SecretKey), nil
	}
	return s, nil
}
