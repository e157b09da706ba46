package store

import (
	"context"
	"time"

	"github.com/jonathan/ats-optimizer/internal/db"
)

// PostgresStore stores entries in the kv_entries table.
type PostgresStore struct {
	db *db.DB
}

// NewPostgresStore connects and creates the schema if needed.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	conn, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := conn.EnsureSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return &PostgresStore{db: conn}, nil
}

func (p *PostgresStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	entry, err := p.db.GetEntry(ctx, namespace, key)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	return entry.Value, nil
}

func (p *PostgresStore) Set(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}
	return p.db.PutEntry(ctx, namespace, key, value, expiresAt)
}

func (p *PostgresStore) Delete(ctx context.Context, namespace, key string) error {
	deleted, err := p.db.DeleteEntry(ctx, namespace, key)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) List(ctx context.Context, namespace string) ([]Entry, error) {
	rows, err := p.db.ListEntries(ctx, namespace)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, Entry{Key: row.Key, Value: row.Value, UpdatedAt: row.UpdatedAt})
	}
	return entries, nil
}

// PurgeExpired removes expired rows.
func (p *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	return p.db.PurgeExpired(ctx)
}

func (p *PostgresStore) Close() error {
	p.db.Close()
	return nil
}
