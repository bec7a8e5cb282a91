package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/justschema/pkg/domain"
)

// Store implements ports.DocumentStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.SchemaRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.SchemaRecord),
	}
}

// Save keeps a copy of the record.
func (s *Store) Save(ctx context.Context, record *domain.SchemaRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[record.Model] = clone(record)
	return nil
}

// Load returns a copy of the stored record so callers cannot mutate the store.
func (s *Store) Load(ctx context.Context, model string) (*domain.SchemaRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.data[model]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return clone(record), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, model)
	return nil
}

// List returns the stored model names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	models := make([]string, 0, len(s.data))
	for name := range s.data {
		models = append(models, name)
	}
	sort.Strings(models)
	return models, nil
}

func clone(r *domain.SchemaRecord) *domain.SchemaRecord {
	c := *r
	c.Document = append([]byte(nil), r.Document...)
	return &c
}
