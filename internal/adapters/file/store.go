package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/tds/pkg/domain"
)

const (
	resultsDir = "results"
	answersDir = "answers"
)

// Store implements ports.ResultStore and ports.AnswerStore using the local filesystem.
// Results live in BasePath/results and answer sets in BasePath/answers, one JSON file each.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".tds".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = ".tds"
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(kind, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("id cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid id %q", id)
	}
	return filepath.Join(s.BasePath, kind, id+".json"), nil
}

// writeAtomic writes data to a temporary file in the destination directory, syncs it
// and renames it over destPath.
func writeAtomic(destPath string, data []byte) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "tmp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Save persists the snapshot atomically.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	destPath, err := s.path(resultsDir, snap.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return writeAtomic(destPath, data)
}

// Load retrieves a snapshot by ID.
func (s *Store) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	filePath, err := s.path(resultsDir, id)
	if err != nil {
		return nil, err
	}
	return readSnapshot(filePath)
}

func readSnapshot(filePath string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &snap, nil
}

// Latest scans the results directory for the snapshot with the newest timestamp.
func (s *Store) Latest(ctx context.Context) (*domain.Snapshot, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var latest *domain.Snapshot
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		snap, err := s.Load(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrResultNotFound) {
				continue
			}
			return nil, err
		}
		if latest == nil || snap.At.After(latest.At) || (snap.At.Equal(latest.At) && snap.ID > latest.ID) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, domain.ErrResultNotFound
	}
	return latest, nil
}

// Delete removes the snapshot file.
func (s *Store) Delete(ctx context.Context, id string) error {
	filePath, err := s.path(resultsDir, id)
	if err != nil {
		return err
	}
	return removeIfExists(filePath)
}

// List returns all stored snapshot IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.BasePath, resultsDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

// SaveAnswers persists an answer set atomically.
func (s *Store) SaveAnswers(ctx context.Context, key string, answers domain.Answers) error {
	destPath, err := s.path(answersDir, key)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}
	return writeAtomic(destPath, data)
}

// LoadAnswers reads a saved answer set.
func (s *Store) LoadAnswers(ctx context.Context, key string) (domain.Answers, error) {
	filePath, err := s.path(answersDir, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrAnswersNotFound
		}
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}
	var answers domain.Answers
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}
	if answers == nil {
		answers = domain.Answers{}
	}
	return answers, nil
}

// ClearAnswers removes a saved answer set.
func (s *Store) ClearAnswers(ctx context.Context, key string) error {
	filePath, err := s.path(answersDir, key)
	if err != nil {
		return err
	}
	return removeIfExists(filePath)
}
