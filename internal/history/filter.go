package history

import (
	"sort"
	"strings"
	"time"

	"github.com/brainink-app/afterschool-go/internal/models"
)

// SortKey selects the comparator applied after filtering.
type SortKey string

const (
	SortByDate  SortKey = "date"
	SortByName  SortKey = "name"
	SortByScore SortKey = "score"
	SortByType  SortKey = "type"
)

// Status filter values.
const (
	StatusProcessed   = "processed"
	StatusPending     = "pending"
	StatusNeedsReview = "needs_review"
	StatusCompleted   = "completed"
)

// Score bands. A submission with no score matches only BandNoScore.
const (
	BandExcellent = "excellent"
	BandGood      = "good"
	BandAverage   = "average"
	BandNeedsWork = "needs_work"
	BandNoScore   = "no_score"
)

// Date-range buckets by elapsed days since submission.
const (
	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeOlder = "older"
)

// Filters describes the management screen's filter set. All predicates
// compose with AND semantics; empty or "all" values are pass-through.
type Filters struct {
	Query     string
	Type      string
	Status    string
	ScoreBand string
	DateRange string
	SortBy    SortKey
	Ascending bool
}

// Apply filters and sorts a submission list. Sorting happens last, once, over
// the fully filtered set; the input slice is left untouched.
func Apply(submissions []models.Submission, filters Filters, now time.Time) []models.Submission {
	out := make([]models.Submission, 0, len(submissions))
	for _, submission := range submissions {
		if matches(submission, filters, now) {
			out = append(out, submission)
		}
	}

	sortSubmissions(out, filters.SortBy, filters.Ascending)
	return out
}

func matches(s models.Submission, f Filters, now time.Time) bool {
	return matchesQuery(s, f.Query) &&
		matchesType(s, f.Type) &&
		matchesStatus(s, f.Status) &&
		matchesScoreBand(s, f.ScoreBand) &&
		matchesDateRange(s, f.DateRange, now)
}

// matchesQuery is a case-insensitive substring search, OR'ed across filename,
// submission type, and feedback text.
func matchesQuery(s models.Submission, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.OriginalFilename), query) ||
		strings.Contains(strings.ToLower(s.SubmissionType), query) ||
		strings.Contains(strings.ToLower(s.AIFeedback), query)
}

func matchesType(s models.Submission, submissionType string) bool {
	if submissionType == "" || submissionType == "all" {
		return true
	}
	return s.SubmissionType == submissionType
}

// matchesStatus keys strictly off the processing/review flags, never off the
// score.
func matchesStatus(s models.Submission, status string) bool {
	switch status {
	case StatusProcessed:
		return s.AIProcessed
	case StatusPending:
		return !s.AIProcessed
	case StatusNeedsReview:
		return s.RequiresReview
	case StatusCompleted:
		return s.AIProcessed && !s.RequiresReview
	default:
		return true
	}
}

func matchesScoreBand(s models.Submission, band string) bool {
	if band == "" || band == "all" {
		return true
	}
	if s.AIScore == nil {
		return band == BandNoScore
	}

	score := *s.AIScore
	switch band {
	case BandExcellent:
		return score >= 90
	case BandGood:
		return score >= 80 && score < 90
	case BandAverage:
		return score >= 60 && score < 80
	case BandNeedsWork:
		return score < 60
	case BandNoScore:
		return false
	default:
		return true
	}
}

func matchesDateRange(s models.Submission, dateRange string, now time.Time) bool {
	if dateRange == "" || dateRange == "all" {
		return true
	}

	days := now.Sub(s.SubmittedAt).Hours() / 24
	switch dateRange {
	case RangeToday:
		return days < 1
	case RangeWeek:
		return days < 7
	case RangeMonth:
		return days < 30
	case RangeOlder:
		return days >= 30
	default:
		return true
	}
}

func sortSubmissions(submissions []models.Submission, key SortKey, ascending bool) {
	less := func(a, b models.Submission) bool {
		switch key {
		case SortByName:
			return strings.ToLower(a.OriginalFilename) < strings.ToLower(b.OriginalFilename)
		case SortByScore:
			return scoreOrZero(a) < scoreOrZero(b)
		case SortByType:
			return a.SubmissionType < b.SubmissionType
		default:
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
	}

	sort.SliceStable(submissions, func(i, j int) bool {
		if ascending {
			return less(submissions[i], submissions[j])
		}
		return less(submissions[j], submissions[i])
	})
}

func scoreOrZero(s models.Submission) float64 {
	if s.AIScore == nil {
		return 0
	}
	return *s.AIScore
}
