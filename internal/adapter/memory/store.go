package memory

import (
	"errors"
	"sync"

	"github.com/vertextoedge/academic-admin/internal/port"
)

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("memory store is closed")

// Store is an in-memory port.KeyValueStore.
// Values are copied on the way in and out so callers cannot alias stored bytes.
type Store struct {
	mu     sync.Mutex
	data   map[string][]byte
	closed bool
}

// Ensure Store implements port.KeyValueStore
var _ port.KeyValueStore = (*Store)(nil)

// New creates an empty in-memory store
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get returns the value stored under key
func (s *Store) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, ErrClosed
	}
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

// Set replaces the value stored under key
func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.data[key] = clone(value)
	return nil
}

// Update holds the store lock for the duration of fn and applies the
// staged writes only when fn succeeds.
func (s *Store) Update(fn func(tx port.KeyValue) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	tx := &txKeyValue{base: s.data, staged: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}

	for k, v := range tx.staged {
		s.data[k] = v
	}
	return nil
}

// Ping reports whether the store is open
func (s *Store) Ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Close marks the store closed
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// txKeyValue reads through staged writes to the committed data
type txKeyValue struct {
	base   map[string][]byte
	staged map[string][]byte
}

func (t *txKeyValue) Get(key string) ([]byte, bool, error) {
	if v, ok := t.staged[key]; ok {
		return clone(v), true, nil
	}
	v, ok := t.base[key]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

func (t *txKeyValue) Set(key string, value []byte) error {
	t.staged[key] = clone(value)
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
