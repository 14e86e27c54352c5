package memory

import (
	"context"
	"sync"
)

// Source implements ports.CatalogSource over an in-process document.
// The document can be replaced at runtime; watchers are signaled on every Set.
type Source struct {
	mu       sync.RWMutex
	doc      any
	watchers []chan struct{}
}

// NewSource creates a source serving doc. doc is typically a []any of entry maps
// or a map wrapping one under "zones" or "focus_personas".
func NewSource(doc any) *Source {
	return &Source{doc: doc}
}

// Load returns the current document.
func (s *Source) Load(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, nil
}

// Set replaces the document and notifies watchers.
func (s *Source) Set(doc any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Watch returns a channel signaled after each Set. It is closed when ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}
