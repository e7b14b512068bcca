package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

var _ ports.RecordStore = (*Store)(nil)

// Store implements ports.RecordStore in memory.
// Ids are sequential decimal numbers starting at 1.
// Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[string]domain.Record
	order   []string
	lastID  int64
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]domain.Record),
	}
}

// Create allocates a record in its initial state.
func (s *Store) Create(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	id := strconv.FormatInt(s.lastID, 10)
	s.records[id] = domain.NewRecord(id)
	s.order = append(s.order, id)
	return id, nil
}

// Get retrieves a copy of the record so callers can't mutate store state directly.
func (s *Store) Get(ctx context.Context, id string) (domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return domain.Record{}, domain.ErrRecordNotFound
	}
	return rec.Clone(), nil
}

// Patch merges patch into the stored record.
func (s *Store) Patch(ctx context.Context, id string, patch domain.Patch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	s.records[id] = patch.Apply(rec)
	return nil
}

// List returns summaries in creation order.
func (s *Store) List(ctx context.Context) ([]domain.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Summary, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id].Summary())
	}
	return out, nil
}
