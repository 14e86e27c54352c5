package tds_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/tds"
	"github.com/aretw0/tds/internal/testutils"
	"github.com/aretw0/tds/pkg/adapters/memory"
	"github.com/aretw0/tds/pkg/domain"
	"github.com/aretw0/tds/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testZones = map[string]any{
	"zones": []any{
		map[string]any{"code": "C3", "title": "The Steady Partner", "prompt": "Be steady."},
		map[string]any{"code": "D4", "title": "The Storyteller", "prompt": "Tell stories."},
		map[string]any{"code": "Z9", "title": "Bogus"},
	},
}

var testPersonas = []any{
	map[string]any{"id": "coach", "name": "Coach", "desc": "Keeps you moving"},
	map[string]any{"id": "tutor", "name": "Tutor", "desc": "Explains concepts", "suffix": "Use examples."},
}

func newEngine(t *testing.T, opts ...tds.Option) *tds.Engine {
	t.Helper()
	base := []tds.Option{
		tds.WithZoneSource(memory.NewSource(testZones)),
		tds.WithPersonaSource(memory.NewSource(testPersonas)),
	}
	eng, err := tds.New(append(base, opts...)...)
	require.NoError(t, err)
	return eng
}

func TestEngine_EvaluateUniformAnswers(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	tests := []struct {
		value any
		zone  domain.ZoneCode
		s, r  float64
	}{
		{value: 5, zone: "D4", s: 4, r: 4},
		{value: 3, zone: "C3", s: 2, r: 2},
		{value: 1, zone: "A1", s: 0, r: 0},
		{value: "5", zone: "D4", s: 4, r: 4},
		{value: 42, zone: "D4", s: 4, r: 4},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.value), func(t *testing.T) {
			res, err := eng.Evaluate(ctx, testutils.UniformAnswers(tt.value), "")
			require.NoError(t, err)
			assert.Equal(t, tt.zone, res.Zone.Code)
			assert.InDelta(t, tt.s, res.S, 1e-9)
			assert.InDelta(t, tt.r, res.R, 1e-9)
		})
	}
}

func TestEngine_EvaluateUsesCatalog(t *testing.T) {
	eng := newEngine(t)

	res, err := eng.Evaluate(context.Background(), testutils.UniformAnswers(5), "tutor")
	require.NoError(t, err)

	assert.Equal(t, "The Storyteller", res.Zone.Title)
	assert.Equal(t, "tutor", res.Focus.ID)
	assert.Contains(t, res.Prompt, "Tell stories.")
	assert.Contains(t, res.Prompt, "Tutor")
	assert.Contains(t, res.Prompt, "Use examples.")
}

func TestEngine_EvaluateSynthesizesMissingZone(t *testing.T) {
	eng := newEngine(t)

	res, err := eng.Evaluate(context.Background(), testutils.UniformAnswers(1), "")
	require.NoError(t, err)
	assert.Equal(t, domain.ZoneCode("A1"), res.Zone.Code)
	assert.Equal(t, "Zone A1", res.Zone.Title)
	assert.NotEmpty(t, res.Prompt)
}

func TestEngine_EvaluateIncomplete(t *testing.T) {
	var rejected []string
	eng := newEngine(t, tds.WithLifecycleHooks(domain.LifecycleHooks{
		OnRejected: func(_ context.Context, e *domain.RejectedEvent) {
			rejected = e.Missing
		},
	}))

	answers := testutils.UniformAnswers(3)
	delete(answers, "q2")
	delete(answers, "q7")

	res, err := eng.Evaluate(context.Background(), answers, "")
	assert.Nil(t, res)
	require.ErrorIs(t, err, domain.ErrIncompleteAnswers)

	var incomplete *domain.IncompleteAnswersError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{"q2", "q7"}, incomplete.Missing)
	assert.Equal(t, []string{"q2", "q7"}, rejected)
}

func TestEngine_Hooks(t *testing.T) {
	var (
		mu       sync.Mutex
		catalogs = map[string]int{}
		zone     domain.ZoneCode
	)
	eng := newEngine(t, tds.WithLifecycleHooks(domain.LifecycleHooks{
		OnCatalogLoad: func(_ context.Context, e *domain.CatalogEvent) {
			mu.Lock()
			defer mu.Unlock()
			catalogs[e.Catalog] = e.Entries
		},
		OnEvaluate: func(_ context.Context, e *domain.EvaluateEvent) {
			zone = e.Zone
		},
	}))

	mu.Lock()
	assert.Equal(t, map[string]int{tds.CatalogZones: 2, tds.CatalogPersonas: 2}, catalogs)
	mu.Unlock()

	_, err := eng.Evaluate(context.Background(), testutils.UniformAnswers(3), "")
	require.NoError(t, err)
	assert.Equal(t, domain.ZoneCode("C3"), zone)
}

func TestEngine_CatalogFailureDegrades(t *testing.T) {
	failing := ports.CatalogSourceFunc(func(context.Context) (any, error) {
		return nil, errors.New("offline")
	})
	eng, err := tds.New(tds.WithZoneSource(failing), tds.WithPersonaSource(failing))
	require.NoError(t, err)

	zones := eng.Zones()
	require.Len(t, zones, 16)
	assert.Equal(t, "Zone A1", zones[0].Title)
	personas := eng.Personas()
	require.Len(t, personas, 1)
	assert.True(t, personas[0].IsDefault())
	assert.True(t, eng.Persona("anything").IsDefault())

	res, err := eng.Evaluate(context.Background(), testutils.UniformAnswers(4), "")
	require.NoError(t, err)
	assert.Equal(t, domain.ZoneCode("D4"), res.Zone.Code)
}

func TestEngine_ReloadKeepsLastGoodCatalog(t *testing.T) {
	fail := false
	src := ports.CatalogSourceFunc(func(context.Context) (any, error) {
		if fail {
			return nil, errors.New("offline")
		}
		return testZones, nil
	})
	eng, err := tds.New(tds.WithZoneSource(src), tds.WithPersonaSource(memory.NewSource(testPersonas)))
	require.NoError(t, err)

	fail = true
	require.NoError(t, eng.Load(context.Background()))

	zone, err := eng.Zone("D4")
	require.NoError(t, err)
	assert.Equal(t, "The Storyteller", zone.Title)
}

func TestEngine_Zone(t *testing.T) {
	eng := newEngine(t)

	zone, err := eng.Zone("C3")
	require.NoError(t, err)
	assert.Equal(t, "The Steady Partner", zone.Title)

	_, err = eng.Zone("Z9")
	assert.ErrorIs(t, err, domain.ErrUnknownZone)

	zones := eng.Zones()
	require.Len(t, zones, 16)
	assert.Equal(t, domain.ZoneCode("A1"), zones[0].Code)
	assert.Equal(t, domain.ZoneCode("D4"), zones[15].Code)
}

func TestEngine_Personas(t *testing.T) {
	eng := newEngine(t)

	assert.Equal(t, "coach", eng.Persona("").ID)
	assert.Equal(t, "tutor", eng.Persona("Tutor").ID)
	assert.Equal(t, "coach", eng.Persona("unknown").ID)
	assert.Len(t, eng.Personas(), 2)
	assert.Len(t, eng.PersonaOptions(), 2)
}

func TestEngine_Hydrate(t *testing.T) {
	eng := newEngine(t)

	res, ok := eng.Hydrate("zone=D4&S=3.50&R=3.75", "tutor")
	require.True(t, ok)
	assert.Equal(t, domain.ZoneCode("D4"), res.Zone.Code)
	assert.InDelta(t, 3.5, res.S, 1e-9)
	assert.InDelta(t, 3.75, res.R, 1e-9)
	assert.Equal(t, "tutor", res.Focus.ID)

	_, ok = eng.Hydrate("S=1&R=2", "")
	assert.False(t, ok)
}

func TestEngine_SaveAndLatest(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ids := 0
	eng := newEngine(t,
		tds.WithResultStore(memory.NewStore()),
		tds.WithClock(func() time.Time { return now }),
		tds.WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("r%d", ids)
		}),
	)
	ctx := context.Background()

	_, err := eng.Latest(ctx)
	require.ErrorIs(t, err, domain.ErrResultNotFound)

	res, err := eng.Evaluate(ctx, testutils.UniformAnswers(3), "coach")
	require.NoError(t, err)
	snap, err := eng.Save(ctx, res)
	require.NoError(t, err)
	assert.Equal(t, "r1", snap.ID)
	assert.Equal(t, now, snap.At)
	assert.Equal(t, domain.ZoneCode("C3"), snap.Zone)

	now = now.Add(time.Minute)
	res, err = eng.Evaluate(ctx, testutils.UniformAnswers(5), "")
	require.NoError(t, err)
	_, err = eng.Save(ctx, res)
	require.NoError(t, err)

	latest, err := eng.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r2", latest.ID)

	first, err := eng.Result(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Coach", first.Focus)

	ids2, err := eng.Results(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r1", "r2"}, ids2)
}

func TestEngine_Answers(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	_, err := eng.LoadAnswers(ctx, "default")
	require.ErrorIs(t, err, domain.ErrAnswersNotFound)

	require.NoError(t, eng.SaveAnswers(ctx, "default", domain.Answers{"q1": 4}))
	got, err := eng.LoadAnswers(ctx, "default")
	require.NoError(t, err)
	assert.EqualValues(t, 4, got["q1"])

	require.NoError(t, eng.ClearAnswers(ctx, "default"))
	_, err = eng.LoadAnswers(ctx, "default")
	assert.ErrorIs(t, err, domain.ErrAnswersNotFound)
}

func TestEngine_InvalidQuestions(t *testing.T) {
	_, err := tds.New(tds.WithQuestions([]domain.Question{}))
	assert.ErrorContains(t, err, "questionnaire is empty")

	_, err = tds.New(tds.WithQuestions(nil))
	assert.ErrorContains(t, err, "questionnaire is empty")
}

func TestEngine_WatchWithoutWatchableSource(t *testing.T) {
	static := ports.CatalogSourceFunc(func(context.Context) (any, error) { return nil, nil })
	eng, err := tds.New(tds.WithZoneSource(static), tds.WithPersonaSource(static))
	require.NoError(t, err)

	ch, err := eng.Watch(context.Background())
	require.NoError(t, err)
	assert.Nil(t, ch)
	assert.NoError(t, eng.AutoReload(context.Background()))
}

func TestEngine_AutoReload(t *testing.T) {
	zones := memory.NewSource(testZones)
	eng := newEngine(t, tds.WithZoneSource(zones))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- eng.AutoReload(ctx) }()

	require.Eventually(t, func() bool {
		zones.Set([]any{map[string]any{"code": "D4", "title": "The Bard"}})
		zone, _ := eng.Zone("D4")
		return zone.Title == "The Bard"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("AutoReload did not stop")
	}
}
