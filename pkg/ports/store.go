package ports

import (
	"context"

	"github.com/aretw0/tds/pkg/domain"
)

// ResultStore persists result snapshots.
type ResultStore interface {
	// Save persists a snapshot under its ID, replacing any previous one.
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Load retrieves a snapshot by ID.
	// Returns domain.ErrResultNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Snapshot, error)

	// Latest returns the snapshot with the most recent timestamp.
	// Returns domain.ErrResultNotFound if the store is empty.
	Latest(ctx context.Context) (*domain.Snapshot, error)

	// Delete removes a snapshot. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored snapshots.
	List(ctx context.Context) ([]string, error)
}

// AnswerStore persists in-progress answer sets, keyed by a caller-chosen key.
type AnswerStore interface {
	SaveAnswers(ctx context.Context, key string, answers domain.Answers) error

	// LoadAnswers returns domain.ErrAnswersNotFound if nothing was saved under key.
	LoadAnswers(ctx context.Context, key string) (domain.Answers, error)

	ClearAnswers(ctx context.Context, key string) error
}

// Store is implemented by adapters that persist both results and answers.
type Store interface {
	ResultStore
	AnswerStore
}
