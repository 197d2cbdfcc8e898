// Package store persists classifier state and practice journals as opaque
// blobs under string keys.  Several backends satisfy the same Store
// interface, from an in memory map to remote databases and object storage.
package store

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates no blob is stored under the key
	ErrNotFound = errors.New("blob not found")
	// ErrEmptyKey indicates an empty key was provided
	ErrEmptyKey = errors.New("store key must not be empty")
	// ErrInvalidKey indicates the key contains a path traversal segment
	ErrInvalidKey = errors.New("store key contains invalid path segment")
	// ErrUnknownBackend indicates the configured backend is not supported
	ErrUnknownBackend = errors.New("unknown store backend")
)

// Store is a key to blob persistence contract
type Store interface {
	// Load returns the blob stored under key or ErrNotFound
	Load(ctx context.Context, key string) ([]byte, error)
	// Save stores the blob under key replacing any previous value
	Save(ctx context.Context, key string, blob []byte) error
	// Delete removes the blob under key.  Deleting an absent key is not an
	// error
	Delete(ctx context.Context, key string) error
	// Close releases the resources held by the store
	Close() error
}

// validateKey checks a key is usable by every backend
func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
