package main

import (
	"context"
	"fmt"

	"github.com/jonathan/ats-optimizer/internal/fetch"
	"github.com/jonathan/ats-optimizer/internal/logging"
	"github.com/jonathan/ats-optimizer/internal/store"
)

// openStore opens the configured settings and cache backend.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.New(ctx, store.Options{
		Backend:       store.Backend(cfg.Store.Backend),
		DatabaseURL:   cfg.Store.DatabaseURL,
		RedisAddr:     cfg.Store.RedisAddr,
		RedisPassword: cfg.Store.RedisPassword,
		RedisDB:       cfg.Store.RedisDB,
		SecretKey:     cfg.Store.SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	return st, nil
}

// pageCache returns the configured store for caching fetched pages, or an
// in-memory cache when the backend is unavailable. The returned func
// releases it.
func pageCache(ctx context.Context) (fetch.PageCache, func()) {
	st, err := openStore(ctx)
	if err != nil {
		logging.Get().WithError(err).Warn("page cache unavailable, using memory")
		st = store.NewMemoryStore()
	}
	release := func() { _ = st.Close() }
	if sealed, ok := st.(*store.SealedStore); ok {
		return sealed.Unwrap(), release
	}
	return st, release
}
