package runner

import (
	"log/slog"

	"github.com/aretw0/tds/pkg/ports"
)

// DefaultSessionID is the answer-store key used when none is configured.
const DefaultSessionID = "default"

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithEngine configures the engine that supplies questions and scores answers.
func WithEngine(engine Engine) Option {
	return func(r *Runner) {
		r.Engine = engine
	}
}

// WithStore configures where in-progress answers are saved.
// If nil, progress is not persisted.
func WithStore(store ports.AnswerStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithSessionID sets the key progress is saved under.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithResume makes Run start from previously saved answers.
func WithResume(resume bool) Option {
	return func(r *Runner) {
		r.Resume = resume
	}
}

// WithFocus sets the focus persona selector passed to the engine.
func WithFocus(focus string) Option {
	return func(r *Runner) {
		r.Focus = focus
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}
