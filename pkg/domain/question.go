package domain

import (
	"fmt"
	"strings"
)

// Dimension identifies the axis a question measures.
type Dimension string

const (
	DimensionStructure  Dimension = "S"
	DimensionRelational Dimension = "R"
)

// Valid reports whether d is S, R or empty (empty falls back to position).
func (d Dimension) Valid() bool {
	return d == "" || d == DimensionStructure || d == DimensionRelational
}

// ParseDimension accepts "s", "S", "r", "R" or an empty string.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("invalid dimension %q: expected S or R", s)
	}
	return d, nil
}

// Question is a single Likert item.
type Question struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Dimension Dimension `json:"dimension,omitempty" yaml:"dimension,omitempty"`
}

// DimensionAt returns the question's dimension, falling back to the ordinal position
// (even index S, odd index R) when none is set.
func (q Question) DimensionAt(index int) Dimension {
	if q.Dimension != "" {
		return q.Dimension
	}
	if index%2 == 0 {
		return DimensionStructure
	}
	return DimensionRelational
}

// DefaultQuestions returns the built-in questionnaire (four per dimension).
func DefaultQuestions() []Question {
	return []Question{
		{ID: "q1", Text: "I prefer content with clear structure and headings.", Dimension: DimensionStructure},
		{ID: "q2", Text: "I value warm, friendly tone over strict formality.", Dimension: DimensionRelational},
		{ID: "q3", Text: "I like step-by-step processes.", Dimension: DimensionStructure},
		{ID: "q4", Text: "Stories/examples help me connect with the message.", Dimension: DimensionRelational},
		{ID: "q5", Text: "Concise summaries are essential.", Dimension: DimensionStructure},
		{ID: "q6", Text: "Collaborative, inclusive language feels best.", Dimension: DimensionRelational},
		{ID: "q7", Text: "I prefer bullet lists over paragraphs.", Dimension: DimensionStructure},
		{ID: "q8", Text: "Emotion/voice matters in communication.", Dimension: DimensionRelational},
	}
}

// ValidateQuestions checks that ids are present and unique and dimensions are known.
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("questionnaire is empty")
	}
	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return fmt.Errorf("question %d: missing id", i)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("question %d: duplicate id %q", i, q.ID)
		}
		seen[q.ID] = struct{}{}
		if !q.Dimension.Valid() {
			return fmt.Errorf("question %q: invalid dimension %q", q.ID, q.Dimension)
		}
	}
	return nil
}

// ScalePoint is one option on the answer scale.
type ScalePoint struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Scale is the five-point Likert scale offered for every question.
var Scale = []ScalePoint{
	{Value: 1, Label: "Strongly disagree"},
	{Value: 2, Label: "Disagree"},
	{Value: 3, Label: "Neutral"},
	{Value: 4, Label: "Agree"},
	{Value: 5, Label: "Strongly agree"},
}
