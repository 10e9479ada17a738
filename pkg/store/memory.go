package store

import (
	"context"
	"sort"
	"sync"

	"github.com/depscope/depscope/pkg/document"
	"github.com/depscope/depscope/pkg/errors"
)

// MemoryStore is an in-memory Store for tests and single-process development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Put stores the record for the document.
func (s *MemoryStore) Put(ctx context.Context, doc document.Document) (Record, error) {
	rec, err := NewRecord(doc)
	if err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[rec.ID]; ok {
		return existing, nil
	}
	s.records[rec.ID] = rec
	return rec, nil
}

// Get retrieves a record by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{}, errors.New(errors.ErrCodeNotFound, "graph %s is not stored", id)
	}
	return rec, nil
}

// Delete removes a record by id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// List returns all records, newest first, without their documents.
func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		rec.Doc = document.Document{}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Close does nothing for an in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
