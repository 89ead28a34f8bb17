package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 {
	return &v
}

func TestStatusColorPendingWhileUnprocessed(t *testing.T) {
	// Unprocessed wins over every other field.
	s := Submission{AIProcessed: false, RequiresReview: true, AIScore: score(95)}
	require.Equal(t, StatusColorPending, s.StatusColor())
}

func TestStatusColorReviewBeatsScore(t *testing.T) {
	s := Submission{AIProcessed: true, RequiresReview: true, AIScore: score(95)}
	require.Equal(t, StatusColorAlert, s.StatusColor())
}

func TestStatusColorBoundaries(t *testing.T) {
	cases := []struct {
		name  string
		score *float64
		want  string
	}{
		{"exactly 80 is good", score(80), StatusColorGood},
		{"just below 80 is pending", score(79.9), StatusColorPending},
		{"exactly 60 is pending", score(60), StatusColorPending},
		{"below 60 is alert", score(59.9), StatusColorAlert},
		{"no score is alert", nil, StatusColorAlert},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Submission{AIProcessed: true, AIScore: tc.score}
			require.Equal(t, tc.want, s.StatusColor())
		})
	}
}

func TestNeedsManualReview(t *testing.T) {
	require.True(t, Submission{AIProcessed: false}.NeedsManualReview())
	require.True(t, Submission{AIProcessed: true}.NeedsManualReview())
	require.True(t, Submission{AIProcessed: true, AIScore: score(59)}.NeedsManualReview())
	require.False(t, Submission{AIProcessed: true, AIScore: score(60)}.NeedsManualReview())
	require.False(t, Submission{AIProcessed: true, AIScore: score(100)}.NeedsManualReview())
}

func TestProcessingStatusMessage(t *testing.T) {
	require.Equal(t, "AI grading in progress", Submission{}.ProcessingStatusMessage())

	s := Submission{AIProcessed: true, AIScore: score(92.5)}
	require.Equal(t, "Excellent work! Score: 92.5", s.ProcessingStatusMessage())

	s.AIScore = score(80)
	require.Equal(t, "Great job! Score: 80", s.ProcessingStatusMessage())

	s.AIScore = score(71)
	require.Equal(t, "Good effort! Score: 71", s.ProcessingStatusMessage())

	s.AIScore = score(60)
	require.Equal(t, "Keep improving! Score: 60", s.ProcessingStatusMessage())

	s.AIScore = score(12)
	require.Equal(t, "Needs more work. Score: 12", s.ProcessingStatusMessage())
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "essay.pdf", Submission{ID: 4, OriginalFilename: "essay.pdf"}.DisplayName())
	require.Equal(t, "Submission #4", Submission{ID: 4}.DisplayName())
}
