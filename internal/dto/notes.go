package dto

import "github.com/brainink-app/afterschool-go/internal/models"

// NoteEnvelope wraps single-note responses, including the synchronous
// upload-and-analyze round trip whose body already carries the analysis.
type NoteEnvelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Note    models.StudentNote `json:"note"`
}

// NoteListResponse wraps the note listing endpoint.
type NoteListResponse struct {
	Notes []models.StudentNote `json:"notes"`
}

// NoteUpdateRequest is the partial update payload; nil fields are untouched
// server-side.
type NoteUpdateRequest struct {
	Title   *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Subject *string   `json:"subject,omitempty" validate:"omitempty,max=100"`
	Tags    *[]string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1"`
	Starred *bool     `json:"starred,omitempty"`
}

// ObjectiveQuizSubmission carries the student's answers for one objective
// quiz.
type ObjectiveQuizSubmission struct {
	ObjectiveIndex int   `json:"objective_index" validate:"gte=0"`
	Answers        []int `json:"answers" validate:"required,min=1,dive,gte=0,lte=3"`
}

// ObjectiveQuizResult is the grading outcome for a submitted objective quiz.
type ObjectiveQuizResult struct {
	Score    float64 `json:"score"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Feedback string  `json:"feedback,omitempty"`
}

// FlashcardsResponse wraps generated objective flashcards.
type FlashcardsResponse struct {
	Flashcards []models.Flashcard `json:"flashcards"`
}
