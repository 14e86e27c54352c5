package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/tds"
	"github.com/aretw0/tds/pkg/adapters/memory"
	"github.com/aretw0/tds/pkg/domain"
	"github.com/aretw0/tds/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *tds.Engine {
	t.Helper()
	eng, err := tds.New(
		tds.WithQuestions([]domain.Question{
			{ID: "s1", Text: "Structure?", Dimension: domain.DimensionStructure},
			{ID: "r1", Text: "Warmth?", Dimension: domain.DimensionRelational},
		}),
		tds.WithZoneSource(memory.NewSource([]any{
			map[string]any{"code": "D4", "title": "The Storyteller"},
		})),
		tds.WithPersonaSource(memory.NewSource(nil)),
	)
	require.NoError(t, err)
	return eng
}

func TestRunner_TextQuiz(t *testing.T) {
	out := &bytes.Buffer{}
	r := runner.NewRunner(
		runner.WithEngine(newEngine(t)),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("5\nstrongly agree\n"), out)),
	)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ZoneCode("D4"), res.Zone.Code)

	text := out.String()
	assert.Contains(t, text, "[1/2] Structure?")
	assert.Contains(t, text, "[2/2] Warmth?")
	assert.Contains(t, text, "5) Strongly agree")
	assert.Contains(t, text, "The Storyteller")
	assert.Contains(t, text, "Link: #zone=D4&S=4.00&R=4.00")
}

func TestRunner_RetriesInvalidAnswer(t *testing.T) {
	out := &bytes.Buffer{}
	r := runner.NewRunner(
		runner.WithEngine(newEngine(t)),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("9\nmaybe\n1\n1\n"), out)),
	)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ZoneCode("A1"), res.Zone.Code)
	assert.Equal(t, 2, strings.Count(out.String(), "[!] "+runner.ErrInvalidAnswer.Error()))
}

func TestRunner_AbortKeepsProgress(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	eng := newEngine(t)

	r := runner.NewRunner(
		runner.WithEngine(eng),
		runner.WithStore(store),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("4\nquit\n"), &bytes.Buffer{})),
	)
	_, err := r.Run(ctx)
	require.ErrorIs(t, err, runner.ErrAborted)

	saved, err := store.LoadAnswers(ctx, runner.DefaultSessionID)
	require.NoError(t, err)
	assert.Len(t, saved, 1)

	out := &bytes.Buffer{}
	r = runner.NewRunner(
		runner.WithEngine(eng),
		runner.WithStore(store),
		runner.WithResume(true),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("2\n"), out)),
	)
	res, err := r.Run(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 3, res.S, 1e-9)
	assert.InDelta(t, 1, res.R, 1e-9)
	assert.Contains(t, out.String(), "Resuming: 1 of 2 answered.")
	assert.NotContains(t, out.String(), "[1/2]")

	_, err = store.LoadAnswers(ctx, runner.DefaultSessionID)
	assert.ErrorIs(t, err, domain.ErrAnswersNotFound)
}

func TestRunner_EOFAborts(t *testing.T) {
	r := runner.NewRunner(
		runner.WithEngine(newEngine(t)),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(""), &bytes.Buffer{})),
	)
	_, err := r.Run(context.Background())
	assert.ErrorIs(t, err, runner.ErrAborted)
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := runner.NewRunner(
		runner.WithEngine(newEngine(t)),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("5\n5\n"), &bytes.Buffer{})),
	)
	_, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_JSONQuiz(t *testing.T) {
	out := &bytes.Buffer{}
	r := runner.NewRunner(
		runner.WithEngine(newEngine(t)),
		runner.WithFocus("anything"),
		runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader("\"5\"\n5\n"), out)),
	)
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	var ask []map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &ask))
	assert.Equal(t, "ask", ask[0]["type"])

	var result []struct {
		Type    string `json:"type"`
		Payload struct {
			Result domain.Payload `json:"result"`
			Link   string         `json:"link"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &result))
	assert.Equal(t, "result", result[0].Type)
	assert.Equal(t, domain.ZoneCode("D4"), result[0].Payload.Result.Zone)
	assert.Equal(t, "zone=D4&S=4.00&R=4.00", result[0].Payload.Link)
}

func TestRunner_RequiresEngine(t *testing.T) {
	_, err := runner.NewRunner().Run(context.Background())
	assert.Error(t, err)
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "1", want: 1},
		{in: " 5 ", want: 5},
		{in: "neutral", want: 3},
		{in: "Strongly Disagree", want: 1},
		{in: "0", wantErr: true},
		{in: "6", wantErr: true},
		{in: "", wantErr: true},
		{in: "yes", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := runner.ParseAnswer(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, runner.ErrInvalidAnswer)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextHandler_Renderer(t *testing.T) {
	out := &bytes.Buffer{}
	h := runner.NewTextHandler(strings.NewReader(""), out, runner.WithTextHandlerRenderer(func(s string) (string, error) {
		return "Rendered: " + s, nil
	}))

	needsInput, err := h.Output(context.Background(), []runner.Action{
		{Type: runner.ActionRenderContent, Payload: "Hello"},
	})
	require.NoError(t, err)
	assert.False(t, needsInput)
	assert.Contains(t, out.String(), "Rendered: Hello")
}
