package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brainink-app/afterschool-go/internal/models"
)

func ids(submissions []models.Submission) []int {
	out := make([]int, 0, len(submissions))
	for _, s := range submissions {
		out = append(out, s.ID)
	}
	return out
}

func TestStatusFilterKeysOffProcessingFlags(t *testing.T) {
	// High score but unprocessed: pending, never completed.
	unprocessedHighScore := models.Submission{ID: 1, AIScore: ptrScore(95), SubmittedAt: testNow}
	processed := models.Submission{ID: 2, AIProcessed: true, AIScore: ptrScore(40), SubmittedAt: testNow}
	flagged := models.Submission{ID: 3, AIProcessed: true, RequiresReview: true, SubmittedAt: testNow}
	all := []models.Submission{unprocessedHighScore, processed, flagged}

	require.Equal(t, []int{1}, ids(Apply(all, Filters{Status: StatusPending}, testNow)))
	require.Equal(t, []int{2, 3}, ids(Apply(all, Filters{Status: StatusProcessed, SortBy: SortByDate, Ascending: true}, testNow)))
	require.Equal(t, []int{3}, ids(Apply(all, Filters{Status: StatusNeedsReview}, testNow)))
	require.Equal(t, []int{2}, ids(Apply(all, Filters{Status: StatusCompleted}, testNow)))
}

func TestQuerySearchesAcrossFields(t *testing.T) {
	all := []models.Submission{
		{ID: 1, OriginalFilename: "Essay-Final.pdf", SubmittedAt: testNow},
		{ID: 2, SubmissionType: models.SubmissionTypeQuiz, SubmittedAt: testNow},
		{ID: 3, AIFeedback: "Great essay structure", SubmittedAt: testNow},
	}

	got := Apply(all, Filters{Query: "ESSAY", SortBy: SortByDate, Ascending: true}, testNow)
	require.Equal(t, []int{1, 3}, ids(got))

	require.Equal(t, []int{2}, ids(Apply(all, Filters{Query: "quiz"}, testNow)))
	require.Empty(t, Apply(all, Filters{Query: "nomatch"}, testNow))
}

func TestScoreBands(t *testing.T) {
	all := []models.Submission{
		{ID: 1, AIScore: ptrScore(95), SubmittedAt: testNow},
		{ID: 2, AIScore: ptrScore(85), SubmittedAt: testNow},
		{ID: 3, AIScore: ptrScore(70), SubmittedAt: testNow},
		{ID: 4, AIScore: ptrScore(40), SubmittedAt: testNow},
		{ID: 5, SubmittedAt: testNow},
	}

	require.Equal(t, []int{1}, ids(Apply(all, Filters{ScoreBand: BandExcellent}, testNow)))
	require.Equal(t, []int{2}, ids(Apply(all, Filters{ScoreBand: BandGood}, testNow)))
	require.Equal(t, []int{3}, ids(Apply(all, Filters{ScoreBand: BandAverage}, testNow)))
	require.Equal(t, []int{4}, ids(Apply(all, Filters{ScoreBand: BandNeedsWork}, testNow)))
	require.Equal(t, []int{5}, ids(Apply(all, Filters{ScoreBand: BandNoScore}, testNow)))
}

func TestDateRanges(t *testing.T) {
	all := []models.Submission{
		{ID: 1, SubmittedAt: testNow.Add(-2 * time.Hour)},
		{ID: 2, SubmittedAt: testNow.AddDate(0, 0, -3)},
		{ID: 3, SubmittedAt: testNow.AddDate(0, 0, -20)},
		{ID: 4, SubmittedAt: testNow.AddDate(0, 0, -60)},
	}

	require.Equal(t, []int{1}, ids(Apply(all, Filters{DateRange: RangeToday}, testNow)))
	require.Equal(t, []int{1, 2}, ids(Apply(all, Filters{DateRange: RangeWeek, SortBy: SortByDate, Ascending: false}, testNow)))
	require.Equal(t, []int{1, 2, 3}, ids(Apply(all, Filters{DateRange: RangeMonth, SortBy: SortByDate, Ascending: false}, testNow)))
	require.Equal(t, []int{4}, ids(Apply(all, Filters{DateRange: RangeOlder}, testNow)))
}

func TestFiltersComposeWithAnd(t *testing.T) {
	all := []models.Submission{
		{ID: 1, OriginalFilename: "math.pdf", SubmissionType: models.SubmissionTypeHomework, AIProcessed: true, AIScore: ptrScore(92), SubmittedAt: testNow},
		{ID: 2, OriginalFilename: "math2.pdf", SubmissionType: models.SubmissionTypeHomework, AIProcessed: true, AIScore: ptrScore(50), SubmittedAt: testNow},
		{ID: 3, OriginalFilename: "math3.pdf", SubmissionType: models.SubmissionTypeQuiz, AIProcessed: true, AIScore: ptrScore(95), SubmittedAt: testNow},
	}

	got := Apply(all, Filters{
		Query:     "math",
		Type:      models.SubmissionTypeHomework,
		ScoreBand: BandExcellent,
	}, testNow)
	require.Equal(t, []int{1}, ids(got))
}

func TestSortKeys(t *testing.T) {
	all := []models.Submission{
		{ID: 1, OriginalFilename: "b.pdf", AIScore: ptrScore(70), SubmittedAt: testNow.Add(-time.Hour)},
		{ID: 2, OriginalFilename: "A.pdf", SubmittedAt: testNow.Add(-2 * time.Hour)},
		{ID: 3, OriginalFilename: "c.pdf", AIScore: ptrScore(90), SubmittedAt: testNow.Add(-3 * time.Hour)},
	}

	require.Equal(t, []int{1, 2, 3}, ids(Apply(all, Filters{SortBy: SortByDate}, testNow)))
	require.Equal(t, []int{3, 2, 1}, ids(Apply(all, Filters{SortBy: SortByDate, Ascending: true}, testNow)))

	// Name comparison is case-insensitive.
	require.Equal(t, []int{2, 1, 3}, ids(Apply(all, Filters{SortBy: SortByName, Ascending: true}, testNow)))

	// A missing score sorts as zero.
	require.Equal(t, []int{2, 1, 3}, ids(Apply(all, Filters{SortBy: SortByScore, Ascending: true}, testNow)))
	require.Equal(t, []int{3, 1, 2}, ids(Apply(all, Filters{SortBy: SortByScore}, testNow)))
}

func TestApplyLeavesInputUntouched(t *testing.T) {
	all := []models.Submission{
		{ID: 2, SubmittedAt: testNow},
		{ID: 1, SubmittedAt: testNow.Add(-time.Hour)},
	}

	got := Apply(all, Filters{SortBy: SortByDate, Ascending: true}, testNow)
	require.Equal(t, []int{1, 2}, ids(got))
	require.Equal(t, []int{2, 1}, ids(all))
}
