package storage

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// MemoryBackend keeps documents in memory. Useful for tests and dry runs.
// This implementation is safe for concurrent use.
type MemoryBackend struct {
	docs map[string][]byte
	mu   sync.RWMutex
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string][]byte)}
}

// Put stores the document under key.
func (m *MemoryBackend) Put(key string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[key] = data
	return nil
}

// Get writes the document stored under key to w.
func (m *MemoryBackend) Get(key string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.docs[key]
	if !ok {
		return fmt.Errorf("%s: %w", key, ErrNotExist)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

// Compile-time check that MemoryBackend implements Backend
var _ Backend = (*MemoryBackend)(nil)
