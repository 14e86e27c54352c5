package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/tds/pkg/domain"
)

// ErrInvalidAnswer is returned by ParseAnswer for replies outside the scale.
var ErrInvalidAnswer = errors.New("answer must be a scale value or label")

// ParseAnswer accepts a scale value ("1".."5") or a scale label, case-insensitively.
func ParseAnswer(text string) (int, error) {
	s := strings.TrimSpace(text)
	if n, err := strconv.Atoi(s); err == nil {
		for _, p := range domain.Scale {
			if p.Value == n {
				return n, nil
			}
		}
		return 0, fmt.Errorf("%w: %d", ErrInvalidAnswer, n)
	}
	for _, p := range domain.Scale {
		if strings.EqualFold(s, p.Label) {
			return p.Value, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAnswer, s)
}
