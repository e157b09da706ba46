package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix prefixes every key written by RedisStore.
const KeyPrefix = "ats"

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore stores entries in Redis under "ats:<namespace>:<key>".
type RedisStore struct {
	client *redis.Client
}

// redisRecord keeps the update time alongside the value.
type redisRecord struct {
	Value     []byte    `json:"v"`
	UpdatedAt time.Time `json:"u"`
}

// NewRedisStore connects to Redis and pings it.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

func redisKey(namespace, key string) string {
	return KeyPrefix + ":" + namespace + ":" + key
}

func (r *RedisStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, redisKey(namespace, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", namespace, key, err)
	}

	var rec redisRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s: %w", namespace, key, err)
	}
	return rec.Value, nil
}

func (r *RedisStore) Set(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	raw, err := json.Marshal(redisRecord{Value: value, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", namespace, key, err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, redisKey(namespace, key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, namespace, key string) error {
	n, err := r.client.Del(ctx, redisKey(namespace, key)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", namespace, key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List scans the namespace and returns entries ordered by key.
func (r *RedisStore) List(ctx context.Context, namespace string) ([]Entry, error) {
	prefix := redisKey(namespace, "")
	entries := []Entry{}

	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		full := iter.Val()
		raw, err := r.client.Get(ctx, full).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", full, err)
		}
		var rec redisRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		entries = append(entries, Entry{
			Key:       strings.TrimPrefix(full, prefix),
			Value:     rec.Value,
			UpdatedAt: rec.UpdatedAt,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan namespace %s: %w", namespace, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
