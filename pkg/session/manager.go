package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/aretw0/tds/internal/logging"
	"github.com/aretw0/tds/pkg/domain"
	"github.com/aretw0/tds/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates answer-set access, ensuring safe concurrent updates.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.AnswerStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// DefaultLockTTL bounds how long a crashed replica can hold a distributed lock.
const DefaultLockTTL = 30 * time.Second

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithLocker enables distributed locking across replicas sharing the store.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// NewManager creates a Manager over the given answer store.
func NewManager(store ports.AnswerStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// ActiveLocks is the number of keys currently holding or waiting for a lock.
func (m *Manager) ActiveLocks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// Load returns the answers saved under key, or an empty set when there are none.
func (m *Manager) Load(ctx context.Context, key string) (domain.Answers, error) {
	var answers domain.Answers
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		var err error
		answers, err = m.load(ctx, key)
		return err
	})
	return answers, err
}

// Merge applies partial to the answers saved under key and persists the result.
// A nil value in partial removes that answer. The merged set is returned.
func (m *Manager) Merge(ctx context.Context, key string, partial domain.Answers) (domain.Answers, error) {
	var merged domain.Answers
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		current, err := m.load(ctx, key)
		if err != nil {
			return err
		}
		for id, v := range partial {
			if v == nil {
				delete(current, id)
				continue
			}
			current[id] = v
		}
		if err := m.store.SaveAnswers(ctx, key, current); err != nil {
			return fmt.Errorf("failed to save answers: %w", err)
		}
		merged = current
		return nil
	})
	return merged, err
}

// Clear removes the answers saved under key.
func (m *Manager) Clear(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.ClearAnswers(ctx, key)
	})
}

// Complete runs fn with the saved answers and clears them when fn succeeds.
// The key stays locked for the whole call.
func (m *Manager) Complete(ctx context.Context, key string, fn func(context.Context, domain.Answers) error) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		answers, err := m.load(ctx, key)
		if err != nil {
			return err
		}
		if err := fn(ctx, answers); err != nil {
			return err
		}
		if err := m.store.ClearAnswers(ctx, key); err != nil {
			m.logger.Warn("Failed to clear completed answers", "key", key, "err", err)
		}
		return nil
	})
}

// WithLock executes fn while holding the lock for key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func (m *Manager) load(ctx context.Context, key string) (domain.Answers, error) {
	answers, err := m.store.LoadAnswers(ctx, key)
	if errors.Is(err, domain.ErrAnswersNotFound) {
		return domain.Answers{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}
	if answers == nil {
		return domain.Answers{}, nil
	}
	return maps.Clone(answers), nil
}
