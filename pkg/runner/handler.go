package runner

import (
	"context"

	"github.com/aretw0/tds/pkg/domain"
)

// ActionType identifies what an Action asks the handler to present.
type ActionType string

const (
	// ActionAsk presents a question. Payload is an AskRequest.
	ActionAsk ActionType = "ask"
	// ActionResult presents the final result. Payload is a ResultView.
	ActionResult ActionType = "result"
	// ActionRenderContent presents free text. Payload is a string.
	ActionRenderContent ActionType = "content"
)

// Action is one unit of output for a handler.
type Action struct {
	Type    ActionType `json:"type"`
	Payload any        `json:"payload,omitempty"`
}

// AskRequest is the payload of an ActionAsk.
type AskRequest struct {
	Index    int                 `json:"index"`
	Total    int                 `json:"total"`
	Question domain.Question     `json:"question"`
	Scale    []domain.ScalePoint `json:"scale"`
}

// ResultView is the payload of an ActionResult.
type ResultView struct {
	Result  *domain.Result `json:"-"`
	Payload domain.Payload `json:"result"`
	Link    string         `json:"link"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents the actions to the user.
	// Returns true if the handler expects to read input after this.
	Output(ctx context.Context, actions []Action) (bool, error)

	// Input reads a response from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (validation errors, resume notices).
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms Markdown before it is written, e.g. to ANSI.
type ContentRenderer func(string) (string, error)
