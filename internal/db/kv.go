package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// KVEntry is one row of kv_entries.
type KVEntry struct {
	Namespace string
	Key       string
	Value     []byte
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetEntry returns a live entry, or nil if it is missing or expired.
func (db *DB) GetEntry(ctx context.Context, namespace, key string) (*KVEntry, error) {
	var e KVEntry
	err := db.pool.QueryRow(ctx,
		`SELECT namespace, key, value, expires_at, created_at, updated_at
		 FROM kv_entries
		 WHERE namespace = $1 AND key = $2
		   AND (expires_at IS NULL OR expires_at > NOW())`,
		namespace, key,
	).Scan(&e.Namespace, &e.Key, &e.Value, &e.ExpiresAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return &e, nil
}

// PutEntry inserts or replaces an entry. A nil expiresAt never expires.
func (db *DB) PutEntry(ctx context.Context, namespace, key string, value []byte, expiresAt *time.Time) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO kv_entries (namespace, key, value, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (namespace, key) DO UPDATE
		 SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = NOW()`,
		namespace, key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put entry: %w", err)
	}
	return nil
}

// DeleteEntry removes an entry and reports whether it existed.
func (db *DB) DeleteEntry(ctx context.Context, namespace, key string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM kv_entries WHERE namespace = $1 AND key = $2`,
		namespace, key,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListEntries returns the live entries of a namespace ordered by key.
func (db *DB) ListEntries(ctx context.Context, namespace string) ([]KVEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT namespace, key, value, expires_at, created_at, updated_at
		 FROM kv_entries
		 WHERE namespace = $1 AND (expires_at IS NULL OR expires_at > NOW())
		 ORDER BY key`,
		namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []KVEntry
	for rows.Next() {
		var e KVEntry
		if err := rows.Scan(&e.Namespace, &e.Key, &e.Value, &e.ExpiresAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// PurgeExpired deletes expired rows and returns how many were removed.
func (db *DB) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM kv_entries WHERE expires_at IS NOT NULL AND expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
