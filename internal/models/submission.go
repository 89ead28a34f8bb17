package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Submission type values accepted by the backend.
const (
	SubmissionTypeHomework   = "homework"
	SubmissionTypeQuiz       = "quiz"
	SubmissionTypePractice   = "practice"
	SubmissionTypeAssessment = "assessment"
)

// Display colors derived from submission state. The palette matches the one
// the mobile client renders, so every consumer sees identical status hues.
const (
	StatusColorPending = "#F59E0B"
	StatusColorGood    = "#10B981"
	StatusColorAlert   = "#EF4444"
)

// Score thresholds used by the status ladder.
const (
	scoreGoodThreshold    = 80
	scoreAverageThreshold = 60
)

// Submission is one graded artifact tied to a course/session. The backend is
// authoritative for every field; the client never mutates score or feedback
// locally, it replaces the whole object after a server round trip.
type Submission struct {
	ID               int        `json:"id"`
	UserID           int        `json:"user_id"`
	CourseID         *int       `json:"course_id,omitempty"`
	LessonID         *int       `json:"lesson_id,omitempty"`
	BlockID          *int       `json:"block_id,omitempty"`
	SessionID        *int       `json:"session_id,omitempty"`
	SubmissionType   string     `json:"submission_type"`
	OriginalFilename string     `json:"original_filename"`
	FileType         string     `json:"file_type"`
	AIProcessed      bool       `json:"ai_processed"`
	AIScore          *float64   `json:"ai_score"`
	AIFeedback       string     `json:"ai_feedback"`
	AIStrengths      []string   `json:"ai_strengths"`
	AIImprovements   []string   `json:"ai_improvements"`
	AICorrections    []string   `json:"ai_corrections"`
	RequiresReview   bool       `json:"requires_review"`
	ReviewedBy       *int       `json:"reviewed_by,omitempty"`
	ManualScore      *float64   `json:"manual_score,omitempty"`
	SubmittedAt      time.Time  `json:"submitted_at"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
}

// StatusColor maps the submission state onto a display color. Branches are
// evaluated top-down and the first match wins: unprocessed submissions are
// always pending-colored regardless of any other field.
func (s Submission) StatusColor() string {
	if !s.AIProcessed {
		return StatusColorPending
	}
	if s.RequiresReview {
		return StatusColorAlert
	}
	if s.AIScore != nil {
		switch {
		case *s.AIScore >= scoreGoodThreshold:
			return StatusColorGood
		case *s.AIScore >= scoreAverageThreshold:
			return StatusColorPending
		}
	}
	return StatusColorAlert
}

// NeedsManualReview reports whether a teacher should look at this submission.
// Unprocessed or unscored submissions always qualify, as does any score below
// the average threshold.
func (s Submission) NeedsManualReview() bool {
	if !s.AIProcessed || s.AIScore == nil {
		return true
	}
	return *s.AIScore < scoreAverageThreshold
}

// ProcessingStatusMessage renders the user-facing grading summary. The score
// is included verbatim as provided by the backend, no rounding.
func (s Submission) ProcessingStatusMessage() string {
	if !s.AIProcessed || s.AIScore == nil {
		return "AI grading in progress"
	}

	score := strconv.FormatFloat(*s.AIScore, 'f', -1, 64)
	switch {
	case *s.AIScore >= 90:
		return fmt.Sprintf("Excellent work! Score: %s", score)
	case *s.AIScore >= 80:
		return fmt.Sprintf("Great job! Score: %s", score)
	case *s.AIScore >= 70:
		return fmt.Sprintf("Good effort! Score: %s", score)
	case *s.AIScore >= 60:
		return fmt.Sprintf("Keep improving! Score: %s", score)
	default:
		return fmt.Sprintf("Needs more work. Score: %s", score)
	}
}

// DisplayName returns the filename if the upload carried one, otherwise a
// synthetic label built from the submission id.
func (s Submission) DisplayName() string {
	if name := strings.TrimSpace(s.OriginalFilename); name != "" {
		return name
	}
	return fmt.Sprintf("Submission #%d", s.ID)
}

// IsImage reports whether the submitted file is image-typed.
func (s Submission) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(s.FileType), "image")
}
