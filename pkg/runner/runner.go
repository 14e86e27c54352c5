package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/tds/pkg/deeplink"
	"github.com/aretw0/tds/pkg/domain"
	"github.com/aretw0/tds/pkg/ports"
)

// ErrAborted is returned when the user quits or input ends before every question
// is answered. Saved progress is kept.
var ErrAborted = errors.New("quiz aborted")

// Engine is what the Runner needs from the tds engine.
type Engine interface {
	Questions() []domain.Question
	Evaluate(ctx context.Context, answers domain.Answers, focus string) (*domain.Result, error)
}

// Runner handles the question loop using the provided IO.
type Runner struct {
	Engine    Engine
	Handler   IOHandler
	Store     ports.AnswerStore
	SessionID string
	Resume    bool
	Focus     string
	Logger    *slog.Logger
}

// NewRunner creates a new Runner. Without WithInputHandler it reads stdin and
// writes stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		SessionID: DefaultSessionID,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run asks every unanswered question, then scores the answers and presents the
// result. Progress is saved after each answer and cleared once scoring succeeds.
func (r *Runner) Run(ctx context.Context) (*domain.Result, error) {
	if r.Engine == nil {
		return nil, errors.New("runner: engine is required")
	}
	handler := r.resolveHandler()
	questions := r.Engine.Questions()

	answers := r.restore(ctx, handler, questions)
	for i, q := range questions {
		if _, ok := answers[q.ID]; ok {
			continue
		}
		value, err := r.ask(ctx, handler, AskRequest{
			Index:    i + 1,
			Total:    len(questions),
			Question: q,
			Scale:    domain.Scale,
		})
		if err != nil {
			return nil, err
		}
		answers[q.ID] = value
		if err := r.save(ctx, answers); err != nil {
			return nil, err
		}
	}

	result, err := r.Engine.Evaluate(ctx, answers, r.Focus)
	if err != nil {
		return nil, err
	}
	if r.Store != nil {
		if err := r.Store.ClearAnswers(ctx, r.SessionID); err != nil {
			r.Logger.Warn("failed to clear saved answers", "session_id", r.SessionID, "err", err)
		}
	}

	view := ResultView{Result: result, Payload: result.Payload(), Link: deeplink.EncodeResult(*result)}
	if _, err := handler.Output(ctx, []Action{{Type: ActionResult, Payload: view}}); err != nil {
		return result, fmt.Errorf("output error: %w", err)
	}
	return result, nil
}

func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r.Handler
}

// restore returns the saved answers for the configured questions, or an empty set.
func (r *Runner) restore(ctx context.Context, handler IOHandler, questions []domain.Question) domain.Answers {
	answers := domain.Answers{}
	if r.Store == nil || !r.Resume {
		return answers
	}
	saved, err := r.Store.LoadAnswers(ctx, r.SessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrAnswersNotFound) {
			r.Logger.Warn("failed to load saved answers", "session_id", r.SessionID, "err", err)
		}
		return answers
	}
	for _, q := range questions {
		if v, ok := saved[q.ID]; ok && v != nil {
			answers[q.ID] = v
		}
	}
	if len(answers) > 0 {
		r.Logger.Debug("resuming quiz", "session_id", r.SessionID, "answered", len(answers))
		_ = handler.SystemOutput(ctx, fmt.Sprintf("Resuming: %d of %d answered.", len(answers), len(questions)))
	}
	return answers
}

func (r *Runner) save(ctx context.Context, answers domain.Answers) error {
	if r.Store == nil {
		return nil
	}
	if err := r.Store.SaveAnswers(ctx, r.SessionID, answers); err != nil {
		return fmt.Errorf("critical persistence error: %w", err)
	}
	r.Logger.Debug("answers saved", "session_id", r.SessionID, "answered", len(answers))
	return nil
}

// ask repeats a question until it gets a valid reply.
func (r *Runner) ask(ctx context.Context, handler IOHandler, req AskRequest) (int, error) {
	for {
		if _, err := handler.Output(ctx, []Action{{Type: ActionAsk, Payload: req}}); err != nil {
			return 0, fmt.Errorf("output error: %w", err)
		}

		text, err := handler.Input(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return 0, ErrAborted
			}
			return 0, fmt.Errorf("input error: %w", err)
		}

		switch strings.ToLower(text) {
		case "exit", "quit":
			return 0, ErrAborted
		}

		value, err := ParseAnswer(text)
		if err != nil {
			r.Logger.Debug("invalid answer", "question", req.Question.ID, "input", text)
			if err := handler.SystemOutput(ctx, err.Error()); err != nil {
				return 0, err
			}
			continue
		}
		return value, nil
	}
}
