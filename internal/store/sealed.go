package store

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrSealBroken is returned when a stored value cannot be opened with the key.
var ErrSealBroken = errors.New("store: sealed value could not be opened")

// SealedStore encrypts values with NaCl secretbox before handing them to
// the wrapped Store. Keys are stored in the clear.
type SealedStore struct {
	inner Store
	key   [32]byte
}

// NewSealedStore derives the box key as SHA-256 of secret.
func NewSealedStore(inner Store, secret string) *SealedStore {
	return &SealedStore{inner: inner, key: sha256.Sum256([]byte(secret))}
}

// Unwrap returns the wrapped store.
func (s *SealedStore) Unwrap() Store { return s.inner }

func (s *SealedStore) seal(value []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], value, &nonce, &s.key), nil
}

func (s *SealedStore) open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, ErrSealBroken
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	out, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, ErrSealBroken
	}
	return out, nil
}

func (s *SealedStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, namespace, key)
	if err != nil {
		return nil, err
	}
	return s.open(sealed)
}

func (s *SealedStore) Set(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	sealed, err := s.seal(value)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, namespace, key, sealed, ttl)
}

func (s *SealedStore) Delete(ctx context.Context, namespace, key string) error {
	return s.inner.Delete(ctx, namespace, key)
}

// List opens every entry and fails on the first one that does not open.
func (s *SealedStore) List(ctx context.Context, namespace string) ([]Entry, error) {
	entries, err := s.inner.List(ctx, namespace)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		value, err := s.open(entries[i].Value)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s/%s: %w", namespace, entries[i].Key, err)
		}
		entries[i].Value = value
	}
	return entries, nil
}

func (s *SealedStore) Close() error { return s.inner.Close() }
