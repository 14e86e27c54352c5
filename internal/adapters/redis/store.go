package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/tds/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.ResultStore and ports.AnswerStore using Redis.
//
// Snapshots are stored as JSON under <prefix>result:<id> and indexed in a ZSET
// scored by their timestamp, so Latest is a single ZREVRANGE. Index members whose
// key has expired are pruned lazily on read.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for results and answer sets.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "tds:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) resultKey(id string) string {
	return s.prefix + "result:" + id
}

func (s *Store) indexKey() string {
	return s.prefix + "result:index"
}

func (s *Store) answersKey(key string) string {
	return s.prefix + "answers:" + key
}

// Save persists the snapshot and indexes it by timestamp.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.resultKey(snap.ID), data, s.ttl)
	// Microseconds keep the score exact in a float64.
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(snap.At.UnixMicro()),
		Member: snap.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves a snapshot from Redis.
func (s *Store) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	val, err := s.client.Get(ctx, s.resultKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &snap, nil
}

// Latest walks the index from the newest entry, skipping members that have expired.
func (s *Store) Latest(ctx context.Context) (*domain.Snapshot, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read result index: %w", err)
	}
	for _, id := range ids {
		snap, err := s.Load(ctx, id)
		if errors.Is(err, domain.ErrResultNotFound) {
			s.client.ZRem(ctx, s.indexKey(), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		return snap, nil
	}
	return nil, domain.ErrResultNotFound
}

// Delete removes the snapshot and its index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.resultKey(id))
	pipe.ZRem(ctx, s.indexKey(), id)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns indexed snapshot IDs, oldest first, pruning entries whose key expired.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	if len(ids) == 0 {
		return []string{}, nil
	}

	pipe := s.client.Pipeline()
	checks := make([]*backend.IntCmd, len(ids))
	for i, id := range ids {
		checks[i] = pipe.Exists(ctx, s.resultKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check results: %w", err)
	}

	live := make([]string, 0, len(ids))
	var stale []any
	for i, id := range ids {
		if checks[i].Val() > 0 {
			live = append(live, id)
		} else {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired results: %w", err)
		}
	}
	return live, nil
}

// SaveAnswers persists an answer set.
func (s *Store) SaveAnswers(ctx context.Context, key string, answers domain.Answers) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}
	if err := s.client.Set(ctx, s.answersKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save answers to redis: %w", err)
	}
	return nil
}

// LoadAnswers reads a saved answer set.
func (s *Store) LoadAnswers(ctx context.Context, key string) (domain.Answers, error) {
	val, err := s.client.Get(ctx, s.answersKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrAnswersNotFound
		}
		return nil, fmt.Errorf("failed to get answers from redis: %w", err)
	}
	var answers domain.Answers
	if err := json.Unmarshal(val, &answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}
	if answers == nil {
		answers = domain.Answers{}
	}
	return answers, nil
}

// ClearAnswers removes a saved answer set.
func (s *Store) ClearAnswers(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.answersKey(key)).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
