package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// JSONHandler implements the IOHandler interface for JSON-Lines communication.
// Every Output call is one line holding an array of actions. Replies are read one
// per line, either as a JSON string or a bare value.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, actions []Action) (bool, error) {
	if len(actions) == 0 {
		return false, nil
	}
	if err := h.Encoder.Encode(actions); err != nil {
		return false, err
	}
	for _, act := range actions {
		if act.Type == ActionAsk {
			return true, nil
		}
	}
	return false, nil
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		text = val
	}
	return SanitizeInput(text)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode([]Action{{Type: ActionRenderContent, Payload: msg}})
}
