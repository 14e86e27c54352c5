package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/tds"
	"github.com/aretw0/tds/internal/presentation/tui"
	"github.com/aretw0/tds/pkg/domain"
	"github.com/aretw0/tds/pkg/ports"
	"github.com/aretw0/tds/pkg/runner"
	"golang.org/x/term"
)

// QuizOptions configures RunQuiz.
type QuizOptions struct {
	Input     io.Reader
	Output    io.Writer
	JSON      bool
	Plain     bool
	Resume    bool
	Save      bool
	SessionID string
	Focus     string
}

// quizEngine is the part of tds.Engine that RunQuiz uses.
type quizEngine interface {
	runner.Engine
	ports.AnswerStore
	Save(ctx context.Context, result *domain.Result) (*domain.Snapshot, error)
}

var _ quizEngine = (*tds.Engine)(nil)

// RunQuiz runs the interactive questionnaire and optionally saves the result.
func RunQuiz(ctx context.Context, engine quizEngine, opts QuizOptions, logger *slog.Logger) (*domain.Result, error) {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.SessionID == "" {
		opts.SessionID = runner.DefaultSessionID
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.Input, opts.Output)
	} else {
		var textOpts []runner.TextHandlerOption
		if !opts.Plain && IsTerminal(opts.Output) {
			textOpts = append(textOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
		}
		handler = runner.NewTextHandler(opts.Input, opts.Output, textOpts...)
	}

	r := runner.NewRunner(
		runner.WithEngine(engine),
		runner.WithStore(engine),
		runner.WithSessionID(opts.SessionID),
		runner.WithResume(opts.Resume),
		runner.WithFocus(opts.Focus),
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
	)

	result, err := r.Run(ctx)
	if err != nil {
		return nil, err
	}
	if opts.Save {
		snap, err := engine.Save(ctx, result)
		if err != nil {
			return result, err
		}
		logger.Info("result saved", "id", snap.ID, "zone", snap.Zone)
		if !opts.JSON {
			fmt.Fprintf(opts.Output, "Saved as %s\n", snap.ID)
		}
	}
	return result, nil
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
