package store

import (
	"context"
	"sync"
)

// Memory is a Store held in process memory
type Memory struct {
	blobs map[string][]byte
	sync.RWMutex
}

// NewMemory returns an empty in memory store
func NewMemory() *Memory {
	return &Memory{
		blobs: make(map[string][]byte),
	}
}

// Load returns a copy of the blob under key
func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	m.RLock()
	defer m.RUnlock()

	blob, ok := m.blobs[key]

	if !ok {
		return nil, ErrNotFound
	}

	return append([]byte(nil), blob...), nil
}

// Save stores a copy of the blob under key
func (m *Memory) Save(_ context.Context, key string, blob []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.Lock()
	defer m.Unlock()

	m.blobs[key] = append([]byte(nil), blob...)
	return nil
}

// Delete removes the blob under key
func (m *Memory) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.Lock()
	defer m.Unlock()

	delete(m.blobs, key)
	return nil
}

// Close does nothing for the memory store
func (m *Memory) Close() error {
	return nil
}
