package storage

import (
	"context"
	"strings"
	"sync"

	mediaapp "github.com/TreasureUzoma/idolomerch/internal/application/media"
)

// MemoryObject is one stored object
type MemoryObject struct {
	Data        []byte
	ContentType string
}

// MemoryObjectStorage keeps objects in process memory. It backs local
// development when no bucket is configured, and tests.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]MemoryObject
	baseURL string
}

// NewMemoryObjectStorage creates an empty store whose URLs start with baseURL
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost/uploads"
	}
	return &MemoryObjectStorage{
		objects: make(map[string]MemoryObject),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Put stores a copy of data
func (m *MemoryObjectStorage) Put(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errEmptyKey
	}
	cp := make([]byte, len(data))
	copy(cp, data)

	m.mu.Lock()
	m.objects[key] = MemoryObject{Data: cp, ContentType: contentType}
	m.mu.Unlock()
	return nil
}

// Delete removes key
func (m *MemoryObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// Exists reports whether key is stored
func (m *MemoryObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errEmptyKey
	}
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	return ok, nil
}

// Get returns the stored object
func (m *MemoryObjectStorage) Get(key string) (MemoryObject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}

// URL returns the public URL of key
func (m *MemoryObjectStorage) URL(key string) string {
	return m.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Ensure MemoryObjectStorage implements ObjectStorage
var _ mediaapp.ObjectStorage = (*MemoryObjectStorage)(nil)
