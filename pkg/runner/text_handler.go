package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/tds/pkg/prompt"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// initPump starts the reader goroutine so Input can honor ctx while a read blocks.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			return
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, actions []Action) (bool, error) {
	needsInput := false
	for _, act := range actions {
		switch act.Type {
		case ActionAsk:
			req, ok := act.Payload.(AskRequest)
			if !ok {
				continue
			}
			needsInput = true
			fmt.Fprintf(h.Writer, "\n[%d/%d] %s\n", req.Index, req.Total, req.Question.Text)
			opts := make([]string, len(req.Scale))
			for i, p := range req.Scale {
				opts[i] = fmt.Sprintf("%d) %s", p.Value, p.Label)
			}
			fmt.Fprintf(h.Writer, "  %s\n", strings.Join(opts, "  "))
		case ActionResult:
			view, ok := act.Payload.(ResultView)
			if !ok || view.Result == nil {
				continue
			}
			h.render(prompt.Markdown(*view.Result))
			if view.Link != "" {
				fmt.Fprintf(h.Writer, "Link: #%s\n", view.Link)
			}
		case ActionRenderContent:
			if msg, ok := act.Payload.(string); ok {
				h.render(msg)
			}
		}
	}
	return needsInput, nil
}

func (h *TextHandler) render(msg string) {
	output := msg
	if h.Renderer != nil {
		if rendered, err := h.Renderer(msg); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(h.Writer, strings.TrimSpace(output))
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[!] %s\n", msg)
	return err
}
