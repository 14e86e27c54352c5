package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tds/pkg/domain"
	"github.com/stretchr/testify/require"
)

// WriteCatalog creates a temporary directory holding files (name -> content) and
// returns its absolute path. It fails the test immediately on error.
func WriteCatalog(t *testing.T, files map[string]string) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range files {
		path := filepath.Join(absPath, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write %s", name)
	}
	return absPath
}

// UniformAnswers answers every default question with v.
func UniformAnswers(v any) domain.Answers {
	answers := domain.Answers{}
	for _, q := range domain.DefaultQuestions() {
		answers[q.ID] = v
	}
	return answers
}
