// Package memory provides an in-process kvstore.Store, used for tests and
// for one-shot runs that do not need persistence.
package memory

import (
	"maps"
	"sync"

	"github.com/haukened/tabrename/internal/titles/repos/kvstore"
)

type memStore struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// New returns an empty store, optionally seeded with values.
func New(seed map[string]string) kvstore.Store {
	values := make(map[string]string, len(seed))
	maps.Copy(values, seed)
	return &memStore{values: values}
}

func (s *memStore) Get(key, def string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return def, kvstore.ErrClosed
	}
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return def, nil
}

func (s *memStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return kvstore.ErrClosed
	}
	s.values[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return kvstore.ErrClosed
	}
	delete(s.values, key)
	return nil
}

func (s *memStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of every key and value in s. It is meant for tests
// and returns nil for stores not created by New.
func Snapshot(s kvstore.Store) map[string]string {
	ms, ok := s.(*memStore)
	if !ok {
		return nil
	}
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return maps.Clone(ms.values)
}

var _ kvstore.Store = (*memStore)(nil)
