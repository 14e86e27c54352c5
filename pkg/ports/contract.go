package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tds/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSnapshot(id string, at time.Time, code domain.ZoneCode) *domain.Snapshot {
	return domain.NewSnapshot(id, at, domain.Result{
		Zone: domain.ZoneRecord{
			Code:   code,
			Title:  "Contract " + string(code),
			Traits: []string{"Clear", "Kind"},
		},
		S:      1.25,
		R:      3.5,
		Focus:  domain.DefaultPersona(),
		Prompt: "prompt for " + string(code),
	})
}

// RunResultStoreContract runs a suite of tests to verify that a ResultStore implementation
// adheres to the defined interface contract. The store must start empty.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405")
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("Latest Empty", func(t *testing.T) {
		_, err := store.Latest(ctx)
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("Save and Load", func(t *testing.T) {
		id := prefix + "-save"
		snap := contractSnapshot(id, base, "B3")
		require.NoError(t, store.Save(ctx, snap), "Save should not return error")
		defer func() { _ = store.Delete(ctx, id) }()

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, id, loaded.ID)
		assert.True(t, snap.At.Equal(loaded.At))
		assert.Equal(t, domain.ZoneCode("B3"), loaded.Zone)
		assert.Equal(t, "Contract B3", loaded.Title)
		assert.Equal(t, []string{"Clear", "Kind"}, loaded.Traits)
		assert.InDelta(t, 1.25, loaded.S, 1e-9)
		assert.InDelta(t, 3.5, loaded.R, 1e-9)
		assert.Equal(t, "General Collaborator", loaded.Focus)
		assert.Equal(t, "prompt for B3", loaded.Prompt)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, prefix+"-missing")
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("Latest By Timestamp", func(t *testing.T) {
		newer := contractSnapshot(prefix+"-newer", base.Add(time.Hour), "D4")
		older := contractSnapshot(prefix+"-older", base, "A1")
		require.NoError(t, store.Save(ctx, newer))
		require.NoError(t, store.Save(ctx, older))
		defer func() {
			_ = store.Delete(ctx, newer.ID)
			_ = store.Delete(ctx, older.ID)
		}()

		latest, err := store.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, newer.ID, latest.ID)
		assert.Equal(t, domain.ZoneCode("D4"), latest.Zone)
	})

	t.Run("Delete", func(t *testing.T) {
		id := prefix + "-delete"
		require.NoError(t, store.Save(ctx, contractSnapshot(id, base, "C2")))

		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")
		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrResultNotFound, "Load after Delete should return ErrResultNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Deleting twice should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := prefix + "-1"
		id2 := prefix + "-2"
		require.NoError(t, store.Save(ctx, contractSnapshot(id1, base, "A2")))
		require.NoError(t, store.Save(ctx, contractSnapshot(id2, base.Add(time.Minute), "A3")))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// RunAnswerStoreContract verifies that an AnswerStore implementation adheres to the contract.
func RunAnswerStoreContract(t *testing.T, store AnswerStore) {
	ctx := context.Background()
	key := "contract-answers-" + time.Now().Format("20060102150405")

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.LoadAnswers(ctx, key+"-missing")
		assert.ErrorIs(t, err, domain.ErrAnswersNotFound)
	})

	t.Run("Save and Load", func(t *testing.T) {
		answers := domain.Answers{"q1": 3, "q2": "4", "q3": 0.5}
		require.NoError(t, store.SaveAnswers(ctx, key, answers))

		loaded, err := store.LoadAnswers(ctx, key)
		require.NoError(t, err)
		require.Len(t, loaded, 3)
		// Persistence may change the concrete numeric type; normalized values must survive.
		for id, v := range answers {
			assert.InDelta(t, domain.Normalize(v), domain.Normalize(loaded[id]), 1e-9, id)
		}
	})

	t.Run("Isolation", func(t *testing.T) {
		answers := domain.Answers{"q1": 1}
		require.NoError(t, store.SaveAnswers(ctx, key, answers))
		answers["q1"] = 4

		loaded, err := store.LoadAnswers(ctx, key)
		require.NoError(t, err)
		assert.EqualValues(t, 1, loaded["q1"], "mutating the saved map must not leak into the store")

		loaded["q2"] = 2
		again, err := store.LoadAnswers(ctx, key)
		require.NoError(t, err)
		assert.NotContains(t, again, "q2")
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.SaveAnswers(ctx, key, domain.Answers{"q1": 2}))
		require.NoError(t, store.ClearAnswers(ctx, key))

		_, err := store.LoadAnswers(ctx, key)
		assert.ErrorIs(t, err, domain.ErrAnswersNotFound)
		assert.NoError(t, store.ClearAnswers(ctx, key), "Clearing twice should be a no-op")
	})
}
