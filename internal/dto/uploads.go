package dto

import "github.com/brainink-app/afterschool-go/internal/models"

// SubmissionEnvelope wraps the single-submission responses returned by the
// upload endpoints.
type SubmissionEnvelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Submission models.Submission `json:"submission"`
}

// SubmissionListResponse wraps list endpoints.
type SubmissionListResponse struct {
	Submissions []models.Submission `json:"submissions"`
}

// CreateSubmissionRequest creates a submission record without a file upload.
type CreateSubmissionRequest struct {
	SessionID        int    `json:"session_id" validate:"required,gt=0"`
	CourseID         int    `json:"course_id,omitempty"`
	BlockID          int    `json:"block_id,omitempty"`
	SubmissionType   string `json:"submission_type" validate:"required,oneof=homework quiz practice assessment"`
	OriginalFilename string `json:"original_filename" validate:"required"`
	FileType         string `json:"file_type,omitempty"`
}

// UserStatistics is the aggregate upload stats payload. A zero value is what
// callers receive when the analytics fetch degrades.
type UserStatistics struct {
	TotalSubmissions     int            `json:"total_submissions"`
	ProcessedSubmissions int            `json:"processed_submissions"`
	PendingSubmissions   int            `json:"pending_submissions"`
	AverageScore         float64        `json:"average_score"`
	BestScore            float64        `json:"best_score"`
	SubmissionsByType    map[string]int `json:"submissions_by_type,omitempty"`
}
