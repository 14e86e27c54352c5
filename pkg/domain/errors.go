package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteAnswers is returned when an answer set lacks an entry for a configured question.
var ErrIncompleteAnswers = errors.New("incomplete answers")

// ErrResultNotFound is returned when a stored result cannot be found.
var ErrResultNotFound = errors.New("result not found")

// ErrAnswersNotFound is returned when no saved answers exist for a key.
var ErrAnswersNotFound = errors.New("answers not found")

// ErrUnknownZone is returned when a string is not one of the sixteen canonical zone codes.
var ErrUnknownZone = errors.New("unknown zone code")

// IncompleteAnswersError lists the question ids that were left unanswered.
type IncompleteAnswersError struct {
	Missing []string
}

func (e *IncompleteAnswersError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrIncompleteAnswers, strings.Join(e.Missing, ", "))
}

func (e *IncompleteAnswersError) Unwrap() error {
	return ErrIncompleteAnswers
}
