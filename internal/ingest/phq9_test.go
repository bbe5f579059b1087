package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseScore(t *testing.T) {
	tests := map[string]struct {
		score int
		ok    bool
	}{
		"Not at all":              {0, true},
		"Several days":            {1, true},
		"More than half the days": {2, true},
		"Nearly every day":        {3, true},
		"  Nearly every day ":     {3, true},
		"":                        {0, false},
		"Sometimes":               {0, false},
	}
	for answer, want := range tests {
		score, ok := ResponseScore(answer)
		assert.Equal(t, want.ok, ok, answer)
		assert.Equal(t, want.score, score, answer)
	}
}

func TestScorePHQ9(t *testing.T) {
	t.Run("all_answered", func(t *testing.T) {
		score, err := ScorePHQ9(answersOf(NumQuestions, "Nearly every day"))
		require.NoError(t, err)
		assert.Equal(t, 27, score)
	})

	t.Run("six_answered_not_rescaled", func(t *testing.T) {
		score, err := ScorePHQ9(answersOf(6, "More than half the days"))
		require.NoError(t, err)
		assert.Equal(t, 12, score)
	})

	t.Run("five_answered_rejected", func(t *testing.T) {
		_, err := ScorePHQ9(answersOf(5, "Several days"))
		assert.ErrorIs(t, err, ErrInsufficientResponses)
	})

	t.Run("unknown_phrases_are_unanswered", func(t *testing.T) {
		a := answersOf(NumQuestions, "Several days")
		a[0], a[1], a[2], a[3] = "n/a", "", "?", "Often"
		_, err := ScorePHQ9(a)
		assert.ErrorIs(t, err, ErrInsufficientResponses)
	})

	t.Run("mixed", func(t *testing.T) {
		a := [NumQuestions]string{
			"Not at all", "Several days", "More than half the days", "Nearly every day",
			"Several days", "Not at all", "", "Several days", "Not at all",
		}
		score, err := ScorePHQ9(a)
		require.NoError(t, err)
		assert.Equal(t, 8, score)
	})
}
