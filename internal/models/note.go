package models

import "time"

// Note processing states reported by the backend.
const (
	NoteStatusPending    = "pending"
	NoteStatusProcessing = "processing"
	NoteStatusCompleted  = "completed"
	NoteStatusFailed     = "failed"
)

// VideoResource is a suggested video attached to a learning objective.
type VideoResource struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Channel  string `json:"channel,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// Flashcard is a single question/answer pair generated from a note.
type Flashcard struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Objective is one learning-goal unit within a note's AI analysis.
type Objective struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Summary     string          `json:"summary,omitempty"`
	Videos      []VideoResource `json:"videos,omitempty"`
}

// ObjectiveProgress tracks how far the student has worked through one
// objective's quiz and flashcards.
type ObjectiveProgress struct {
	ObjectiveIndex int      `json:"objective_index"`
	QuizScore      *float64 `json:"quiz_score,omitempty"`
	QuizAttempts   int      `json:"quiz_attempts"`
	CardsReviewed  int      `json:"cards_reviewed"`
	Completed      bool     `json:"completed"`
}

// StudentNote is an uploaded note set plus its AI analysis. Array-valued
// analysis fields are populated only once AIProcessed is true.
type StudentNote struct {
	ID                  int                 `json:"id"`
	UserID              int                 `json:"user_id"`
	Title               string              `json:"title"`
	Description         string              `json:"description,omitempty"`
	Subject             string              `json:"subject,omitempty"`
	Tags                []string            `json:"tags,omitempty"`
	OriginalFilename    string              `json:"original_filename,omitempty"`
	FileCount           int                 `json:"file_count"`
	Starred             bool                `json:"starred"`
	AIProcessed         bool                `json:"ai_processed"`
	ProcessingStatus    string              `json:"processing_status"`
	Summary             string              `json:"summary,omitempty"`
	KeyPoints           []string            `json:"key_points,omitempty"`
	MainTopics          []string            `json:"main_topics,omitempty"`
	LearningConcepts    []string            `json:"learning_concepts,omitempty"`
	QuestionsGenerated  []string            `json:"questions_generated,omitempty"`
	Objectives          []Objective         `json:"objectives,omitempty"`
	ObjectiveFlashcards [][]Flashcard       `json:"objective_flashcards,omitempty"`
	OverallFlashcards   []Flashcard         `json:"overall_flashcards,omitempty"`
	ObjectiveProgress   []ObjectiveProgress `json:"objective_progress,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// HasAnalysis reports whether the analysis payload can be shown.
func (n StudentNote) HasAnalysis() bool {
	return n.AIProcessed && n.ProcessingStatus == NoteStatusCompleted
}
