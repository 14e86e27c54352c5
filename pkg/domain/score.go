package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const (
	// MinScore and MaxScore bound both axes.
	MinScore = 0.0
	MaxScore = 4.0
)

// Answers maps a question id to its raw response (nominally 1..5).
// Values may be any integer or float kind, json.Number or a numeric string.
type Answers map[string]any

// Missing returns the ids of questions without an entry, in questionnaire order.
func (a Answers) Missing(questions []Question) []string {
	var missing []string
	for _, q := range questions {
		if _, ok := a[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// Validate returns an *IncompleteAnswersError when any question is unanswered.
func (a Answers) Validate(questions []Question) error {
	if missing := a.Missing(questions); len(missing) > 0 {
		return &IncompleteAnswersError{Missing: missing}
	}
	return nil
}

// Coordinate is the two-axis score.
type Coordinate struct {
	S float64 `json:"S"`
	R float64 `json:"R"`
}

// Clamped returns the coordinate with both axes clamped to [0, 4].
func (c Coordinate) Clamped() Coordinate {
	return Coordinate{S: Clamp(c.S, MinScore, MaxScore), R: Clamp(c.R, MinScore, MaxScore)}
}

// Zone classifies the coordinate.
func (c Coordinate) Zone() ZoneCode {
	return Classify(c.S, c.R)
}

// Clamp bounds x to [lo, hi]. NaN maps to lo.
func Clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) || x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Normalize maps a raw 1..5 response to a 0..4 intensity.
// Non-numeric or missing input normalizes to 0.
func Normalize(v any) float64 {
	f, ok := toFloat(v)
	if !ok {
		return 0
	}
	return Clamp(f-1, MinScore, MaxScore)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	case float64:
		return n, !math.IsNaN(n)
	case json.Number:
		f, err := n.Float64()
		return f, err == nil && !math.IsNaN(f)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil && !math.IsNaN(f)
	default:
		return 0, false
	}
}

// Aggregate routes each answered question into its dimension bucket and averages
// each bucket. An empty bucket scores 0. Unanswered questions are skipped; callers
// that need a complete set must call Answers.Validate first.
func Aggregate(questions []Question, answers Answers) Coordinate {
	var sSum, rSum float64
	var sN, rN int
	for i, q := range questions {
		v, ok := answers[q.ID]
		if !ok || v == nil {
			continue
		}
		n := Normalize(v)
		if q.DimensionAt(i) == DimensionStructure {
			sSum += n
			sN++
		} else {
			rSum += n
			rN++
		}
	}
	return Coordinate{S: mean(sSum, sN), R: mean(rSum, rN)}.Clamped()
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
