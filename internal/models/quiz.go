package models

import "time"

// Fixed shape of every practice quiz handed to the presentation layer.
const (
	QuizQuestionCount = 5
	QuizOptionCount   = 4
)

// Practice quiz sources.
const (
	QuizSourceAssignment = "assignment"
	QuizSourceBlock      = "block"
	QuizSourceNote       = "note"
)

// QuizQuestion is one normalized multiple-choice question: exactly four
// options and an in-range correct index, no exceptions.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation,omitempty"`
}

// PracticeQuiz is an ephemeral quiz generated on demand. It is never
// persisted; the backend forgets it as soon as it is returned.
type PracticeQuiz struct {
	Source      string         `json:"source"`
	SourceID    int            `json:"source_id"`
	Questions   []QuizQuestion `json:"questions"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// StubQuestion returns the placeholder used to pad short or broken quiz
// payloads: empty text, four empty options, correct index zero.
func StubQuestion() QuizQuestion {
	return QuizQuestion{
		Options:      make([]string, QuizOptionCount),
		CorrectIndex: 0,
	}
}
