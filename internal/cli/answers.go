package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/tds/pkg/domain"
	"github.com/aretw0/tds/pkg/runner"
)

// ParseAnswerFlags turns "id=value" pairs into an answer set. Values are scale
// numbers or scale labels.
func ParseAnswerFlags(pairs []string) (domain.Answers, error) {
	answers := make(domain.Answers, len(pairs))
	for _, pair := range pairs {
		id, raw, ok := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid answer %q: want id=value", pair)
		}
		value, err := runner.ParseAnswer(raw)
		if err != nil {
			return nil, fmt.Errorf("answer %s: %w", id, err)
		}
		answers[id] = value
	}
	return answers, nil
}
