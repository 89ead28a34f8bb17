// Package history derives the view models shown on the upload history and
// progress screens: calendar-day groupings of submission events plus rollup
// statistics. Everything here is pure computation over fetched submissions;
// nothing is persisted and results are recomputed on every load.
package history

import (
	"sort"
	"time"

	"github.com/brainink-app/afterschool-go/internal/models"
)

// Period filters the submission list by elapsed time before grouping.
type Period string

const (
	PeriodAll         Period = "all"
	PeriodToday       Period = "today"
	PeriodWeek        Period = "week"
	PeriodMonth       Period = "month"
	PeriodThreeMonths Period = "3months"
	PeriodSixMonths   Period = "6months"
	PeriodYear        Period = "year"
)

// EventKind labels one timeline entry derived from a submission.
type EventKind string

const (
	EventUpload    EventKind = "upload"
	EventProcessed EventKind = "processed"
	EventGraded    EventKind = "graded"
	EventReviewed  EventKind = "reviewed"
)

// Trend direction values.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// The client never receives true byte sizes, so displayed sizes use a fixed
// per-file estimate keyed off the MIME prefix.
const (
	imageEstimateBytes int64 = 3 * 1024 * 1024 / 2
	otherEstimateBytes int64 = 5 * 1024 * 1024 / 2
)

// Event is one timeline entry. A single submission can contribute up to four
// events, potentially landing in different day buckets.
type Event struct {
	Kind       EventKind
	At         time.Time
	Submission models.Submission
}

// Group is one calendar day's bucket of events with its rollups.
type Group struct {
	Day             time.Time
	Events          []Event
	SubmissionCount int
	EstimatedBytes  int64
	AverageScore    float64
}

// Stats are the global rollups over the period-filtered submission set.
type Stats struct {
	TotalUploads      int
	EstimatedBytes    int64
	AverageScore      float64
	BestScore         float64
	BusiestWeekday    string
	TopSubmissionType string
	StreakDays        int
	Trend             string
}

// Build filters the submissions by period relative to now, expands them into
// day-bucketed event groups (newest day first, newest event first within a
// day), and computes the global statistics.
func Build(submissions []models.Submission, period Period, now time.Time) ([]Group, Stats) {
	filtered := filterByPeriod(submissions, period, now)
	return groupEvents(filtered), computeStats(filtered)
}

func filterByPeriod(submissions []models.Submission, period Period, now time.Time) []models.Submission {
	cutoff, bounded := periodCutoff(period, now)
	if !bounded {
		return submissions
	}

	filtered := make([]models.Submission, 0, len(submissions))
	for _, submission := range submissions {
		if !submission.SubmittedAt.Before(cutoff) {
			filtered = append(filtered, submission)
		}
	}
	return filtered
}

func periodCutoff(period Period, now time.Time) (time.Time, bool) {
	switch period {
	case PeriodToday:
		return dayStart(now), true
	case PeriodWeek:
		return now.Add(-7 * 24 * time.Hour), true
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	case PeriodThreeMonths:
		return now.AddDate(0, -3, 0), true
	case PeriodSixMonths:
		return now.AddDate(0, -6, 0), true
	case PeriodYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// expandEvents derives the timeline entries for one submission. Graded events
// use the processing timestamp when available since that is when the score
// appeared.
func expandEvents(submission models.Submission) []Event {
	events := []Event{{Kind: EventUpload, At: submission.SubmittedAt, Submission: submission}}

	if submission.ProcessedAt != nil {
		events = append(events, Event{Kind: EventProcessed, At: *submission.ProcessedAt, Submission: submission})
	}
	if submission.AIScore != nil {
		gradedAt := submission.SubmittedAt
		if submission.ProcessedAt != nil {
			gradedAt = *submission.ProcessedAt
		}
		events = append(events, Event{Kind: EventGraded, At: gradedAt, Submission: submission})
	}
	if submission.ReviewedAt != nil {
		events = append(events, Event{Kind: EventReviewed, At: *submission.ReviewedAt, Submission: submission})
	}

	return events
}

func groupEvents(submissions []models.Submission) []Group {
	buckets := map[time.Time]*Group{}
	for _, submission := range submissions {
		for _, event := range expandEvents(submission) {
			day := dayStart(event.At)
			group, ok := buckets[day]
			if !ok {
				group = &Group{Day: day}
				buckets[day] = group
			}
			group.Events = append(group.Events, event)
		}
	}

	groups := make([]Group, 0, len(buckets))
	for _, group := range buckets {
		finalizeGroup(group)
		groups = append(groups, *group)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Day.After(groups[j].Day)
	})
	return groups
}

// finalizeGroup computes the per-bucket rollups, de-duplicating submissions
// that contributed more than one event to the same day.
func finalizeGroup(group *Group) {
	sort.SliceStable(group.Events, func(i, j int) bool {
		return group.Events[i].At.After(group.Events[j].At)
	})

	seen := map[int]bool{}
	var scoreTotal float64
	var scored int
	for _, event := range group.Events {
		if seen[event.Submission.ID] {
			continue
		}
		seen[event.Submission.ID] = true

		group.SubmissionCount++
		group.EstimatedBytes += estimateSize(event.Submission)
		if event.Submission.AIScore != nil {
			scoreTotal += *event.Submission.AIScore
			scored++
		}
	}

	if scored > 0 {
		group.AverageScore = scoreTotal / float64(scored)
	}
}

func computeStats(submissions []models.Submission) Stats {
	stats := Stats{TotalUploads: len(submissions), Trend: TrendStable}

	weekdays := newTally()
	types := newTally()
	var scoreTotal float64
	var scored int

	for _, submission := range submissions {
		stats.EstimatedBytes += estimateSize(submission)
		weekdays.add(submission.SubmittedAt.Weekday().String())
		types.add(submission.SubmissionType)

		if submission.AIScore != nil {
			scoreTotal += *submission.AIScore
			scored++
			if *submission.AIScore > stats.BestScore {
				stats.BestScore = *submission.AIScore
			}
		}
	}

	if scored > 0 {
		stats.AverageScore = scoreTotal / float64(scored)
	}
	stats.BusiestWeekday = weekdays.leader()
	stats.TopSubmissionType = types.leader()
	stats.StreakDays = longestStreak(submissions)
	stats.Trend = scoreTrend(submissions)

	return stats
}

// longestStreak counts the longest run of consecutive calendar days with at
// least one upload; multiple uploads on one day count once.
func longestStreak(submissions []models.Submission) int {
	seen := map[time.Time]bool{}
	days := make([]time.Time, 0, len(submissions))
	for _, submission := range submissions {
		day := dayStart(submission.SubmittedAt)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 1
		}
	}
	return best
}

// scoreTrend compares the mean of the last three scores against the mean of
// all earlier scores. It needs at least three scored submissions, otherwise
// the trend is stable.
func scoreTrend(submissions []models.Submission) string {
	ordered := make([]models.Submission, 0, len(submissions))
	for _, submission := range submissions {
		if submission.AIScore != nil {
			ordered = append(ordered, submission)
		}
	}
	if len(ordered) < 3 {
		return TrendStable
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
	})

	split := len(ordered) - 3
	recent := meanScore(ordered[split:])
	earlier := meanScore(ordered[:split])

	switch diff := recent - earlier; {
	case diff > 5:
		return TrendUp
	case diff < -5:
		return TrendDown
	default:
		return TrendStable
	}
}

func meanScore(submissions []models.Submission) float64 {
	if len(submissions) == 0 {
		return 0
	}
	var total float64
	for _, submission := range submissions {
		total += *submission.AIScore
	}
	return total / float64(len(submissions))
}

func estimateSize(submission models.Submission) int64 {
	if submission.IsImage() {
		return imageEstimateBytes
	}
	return otherEstimateBytes
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// tally counts occurrences while remembering first-seen order so ties resolve
// to the first key that reached the maximum.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: map[string]int{}}
}

func (t *tally) add(key string) {
	if key == "" {
		return
	}
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

func (t *tally) leader() string {
	leader := ""
	best := 0
	for _, key := range t.order {
		if t.counts[key] > best {
			best = t.counts[key]
			leader = key
		}
	}
	return leader
}
