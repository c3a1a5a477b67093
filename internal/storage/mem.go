package storage

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// MemStore: хранилище в памяти (тесты, локальные прогоны).
type MemStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	// PutErr, если задан, возвращается из Put.
	PutErr error
	// DeleteErr, если задан, возвращается из Delete.
	DeleteErr error
}

var _ BlobStore = (*MemStore)(nil)

// NewMemStore создаёт пустое хранилище.
func NewMemStore() *MemStore {
	return &MemStore{blobs: map[string][]byte{}}
}

func (s *MemStore) Put(_ context.Context, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return "", s.PutErr
	}
	key := uuid.NewString() + filepath.Ext(name)
	s.blobs[key] = append([]byte(nil), data...)
	return key, nil
}

func (s *MemStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return append([]byte(nil), b...), nil
}

func (s *MemStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return false, s.DeleteErr
	}
	_, ok := s.blobs[key]
	delete(s.blobs, key)
	return ok, nil
}

// Len возвращает число хранимых блобов.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
