package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/aretw0/tds/pkg/domain"
)

// Store implements ports.ResultStore and ports.AnswerStore in memory.
// Safe for concurrent use.
type Store struct {
	results map[string]*domain.Snapshot
	answers map[string]domain.Answers
	mu      sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		results: make(map[string]*domain.Snapshot),
		answers: make(map[string]domain.Answers),
	}
}

func copySnapshot(snap *domain.Snapshot) *domain.Snapshot {
	ret := *snap
	ret.Traits = append([]string(nil), snap.Traits...)
	return &ret
}

// Save persists the snapshot in memory.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	copied := copySnapshot(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[snap.ID] = copied
	return nil
}

// Load retrieves a snapshot from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.results[id]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	return copySnapshot(snap), nil
}

// Latest returns the most recent snapshot by timestamp.
func (s *Store) Latest(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.Snapshot
	for _, snap := range s.results {
		if latest == nil || snap.At.After(latest.At) || (snap.At.Equal(latest.At) && snap.ID > latest.ID) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, domain.ErrResultNotFound
	}
	return copySnapshot(latest), nil
}

// Delete removes a snapshot.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, id)
	return nil
}

// List returns stored snapshot IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.results))
	for id := range s.results {
		ids = append(ids, id)
	}
	return ids, nil
}

// SaveAnswers stores a copy of the answer set.
func (s *Store) SaveAnswers(ctx context.Context, key string, answers domain.Answers) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[key] = maps.Clone(answers)
	return nil
}

// LoadAnswers returns a copy of the saved answer set.
func (s *Store) LoadAnswers(ctx context.Context, key string) (domain.Answers, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	answers, ok := s.answers[key]
	if !ok {
		return nil, domain.ErrAnswersNotFound
	}
	return maps.Clone(answers), nil
}

// ClearAnswers removes the saved answer set.
func (s *Store) ClearAnswers(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.answers, key)
	return nil
}
