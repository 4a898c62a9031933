// Package kv provides the durable key-value backends behind the repository.
// Values are opaque byte slices; callers own the encoding.
package kv

import (
	"context"
	"embed"
	"errors"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("key not found")

//go:embed migrations
var migrations embed.FS

// Store is a string-keyed, whole-value key-value store.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping checks backend connectivity.
	Ping(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

// Prefixed wraps a Store so every key is namespaced with prefix.
func Prefixed(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return &prefixed{Store: s, prefix: prefix}
}

type prefixed struct {
	Store
	prefix string
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.Store.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.Store.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.Store.Delete(ctx, p.prefix+key)
}
