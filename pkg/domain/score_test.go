package domain_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/aretw0/tds/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"lowest", 1, 0},
		{"highest", 5, 4},
		{"below range", 0, 0},
		{"above range", 6, 4},
		{"neutral", 3, 2},
		{"numeric string", "4", 3},
		{"padded string", " 2 ", 1},
		{"float", 2.5, 1.5},
		{"json number", json.Number("5"), 4},
		{"int64", int64(2), 1},
		{"non-numeric", "agree", 0},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"NaN", math.NaN(), 0},
		{"bool", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Normalize(tt.in))
		})
	}
}

func TestAggregate_DefaultQuestions(t *testing.T) {
	questions := domain.DefaultQuestions()

	t.Run("all lowest", func(t *testing.T) {
		answers := uniform(questions, 1)
		c := domain.Aggregate(questions, answers)
		assert.Equal(t, domain.Coordinate{S: 0, R: 0}, c)
	})

	t.Run("all highest", func(t *testing.T) {
		answers := uniform(questions, 5)
		c := domain.Aggregate(questions, answers)
		assert.Equal(t, domain.Coordinate{S: 4, R: 4}, c)
	})

	t.Run("split by dimension", func(t *testing.T) {
		answers := domain.Answers{
			"q1": 5, "q3": 5, "q5": 3, "q7": 3, // S: 4,4,2,2 -> 3
			"q2": 1, "q4": 2, "q6": 1, "q8": 2, // R: 0,1,0,1 -> 0.5
		}
		c := domain.Aggregate(questions, answers)
		assert.InDelta(t, 3.0, c.S, 1e-9)
		assert.InDelta(t, 0.5, c.R, 1e-9)
		assert.Equal(t, domain.ZoneCode("D1"), c.Zone())
	})

	t.Run("always within range", func(t *testing.T) {
		for v := -3; v <= 9; v++ {
			c := domain.Aggregate(questions, uniform(questions, v))
			assert.GreaterOrEqual(t, c.S, 0.0)
			assert.LessOrEqual(t, c.S, 4.0)
			assert.GreaterOrEqual(t, c.R, 0.0)
			assert.LessOrEqual(t, c.R, 4.0)
		}
	})
}

func TestAggregate_PositionalFallback(t *testing.T) {
	questions := []domain.Question{
		{ID: "a"}, // index 0 -> S
		{ID: "b"}, // index 1 -> R
		{ID: "c"}, // index 2 -> S
	}
	answers := domain.Answers{"a": 5, "b": 2, "c": 3}

	c := domain.Aggregate(questions, answers)
	assert.InDelta(t, 3.0, c.S, 1e-9)
	assert.InDelta(t, 1.0, c.R, 1e-9)
}

func TestAggregate_EmptyBucket(t *testing.T) {
	questions := []domain.Question{
		{ID: "a", Dimension: domain.DimensionStructure},
		{ID: "b", Dimension: domain.DimensionStructure},
	}
	c := domain.Aggregate(questions, domain.Answers{"a": 4, "b": 4})
	assert.InDelta(t, 3.0, c.S, 1e-9)
	assert.Equal(t, 0.0, c.R)
}

func TestAnswers_Validate(t *testing.T) {
	questions := domain.DefaultQuestions()
	answers := uniform(questions, 3)
	require.NoError(t, answers.Validate(questions))

	delete(answers, "q6")
	err := answers.Validate(questions)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIncompleteAnswers)

	var incomplete *domain.IncompleteAnswersError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"q6"}, incomplete.Missing)
}

func TestValidateQuestions(t *testing.T) {
	require.NoError(t, domain.ValidateQuestions(domain.DefaultQuestions()))

	assert.Error(t, domain.ValidateQuestions(nil))
	assert.Error(t, domain.ValidateQuestions([]domain.Question{{ID: ""}}))
	assert.Error(t, domain.ValidateQuestions([]domain.Question{{ID: "a"}, {ID: "a"}}))
	assert.Error(t, domain.ValidateQuestions([]domain.Question{{ID: "a", Dimension: "X"}}))
}

func TestParseDimension(t *testing.T) {
	d, err := domain.ParseDimension(" s ")
	require.NoError(t, err)
	assert.Equal(t, domain.DimensionStructure, d)

	d, err = domain.ParseDimension("")
	require.NoError(t, err)
	assert.Equal(t, domain.Dimension(""), d)

	_, err = domain.ParseDimension("warmth")
	assert.Error(t, err)
}

func uniform(questions []domain.Question, v int) domain.Answers {
	answers := make(domain.Answers, len(questions))
	for _, q := range questions {
		answers[q.ID] = v
	}
	return answers
}
