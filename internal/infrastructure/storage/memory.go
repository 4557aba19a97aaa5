package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
)

// MemoryArchive keeps minute documents in process memory
type MemoryArchive struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryArchive creates an empty archive
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{objects: make(map[string][]byte)}
}

// Put stores a copy of body under key
func (a *MemoryArchive) Put(ctx context.Context, key string, body []byte, contentType string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.objects[key] = append([]byte(nil), body...)
	return nil
}

// Get returns the document stored under key
func (a *MemoryArchive) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	body, ok := a.objects[key]
	if !ok {
		return nil, fmt.Errorf("archive object %q: %w", key, entities.ErrNotFound)
	}
	return append([]byte(nil), body...), nil
}

// URL returns a memory:// reference for key
func (a *MemoryArchive) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if _, err := a.Get(ctx, key); err != nil {
		return "", err
	}
	return "memory://" + key, nil
}

// List returns the keys stored under prefix in order
func (a *MemoryArchive) List(ctx context.Context, prefix string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var keys []string
	for k := range a.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
