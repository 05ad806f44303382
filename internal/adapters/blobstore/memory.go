package blobstore

import (
	"bytes"
	"context"
	"io"
	"sync"

	"carecircle/internal/ports/blob"
)

// Memory guarda los blobs en un map. Para dev y tests.
type Memory struct {
	mu    sync.RWMutex
	byKey map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{byKey: map[string][]byte{}}
}

func (m *Memory) Put(_ context.Context, key string, r io.Reader) (int64, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byKey[key] = b
	return int64(len(b)), nil
}

func (m *Memory) Open(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.byKey[key]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byKey[key]; !ok {
		return blob.ErrNotFound
	}
	delete(m.byKey, key)
	return nil
}
