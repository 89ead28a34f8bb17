package dto

// PracticeQuizRequest asks the backend to generate an ephemeral quiz.
type PracticeQuizRequest struct {
	NumQuestions int `json:"num_questions"`
}
