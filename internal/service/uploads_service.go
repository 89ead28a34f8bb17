package service

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/brainink-app/afterschool-go/internal/api"
	"github.com/brainink-app/afterschool-go/internal/config"
	"github.com/brainink-app/afterschool-go/internal/dto"
	"github.com/brainink-app/afterschool-go/internal/models"
	"github.com/brainink-app/afterschool-go/internal/utils"
)

const uploadsBase = "/after-school/uploads"

// Recent-submission limits are clamped client-side before the request goes
// out.
const (
	recentLimitMin = 1
	recentLimitMax = 50
)

// SingleUploadRequest uploads one submission file into a session.
type SingleUploadRequest struct {
	SessionID      int
	SubmissionType string
	File           models.UploadFile
}

// BulkUploadRequest uploads a batch of images the backend merges into one PDF
// submission.
type BulkUploadRequest struct {
	SessionID      int
	SubmissionType string
	Files          []models.UploadFile
}

// SubmissionUploader covers the write paths that create submissions.
type SubmissionUploader interface {
	UploadSingleFile(ctx context.Context, token string, req SingleUploadRequest) (models.Submission, error)
	BulkUploadImagesToPDF(ctx context.Context, token string, req BulkUploadRequest) (models.Submission, error)
	CreateSubmission(ctx context.Context, token string, req dto.CreateSubmissionRequest) (models.Submission, error)
}

// SubmissionReader covers the read paths over existing submissions.
type SubmissionReader interface {
	GetSessionSubmissions(ctx context.Context, token string, sessionID int) ([]models.Submission, error)
	GetUserRecentSubmissions(ctx context.Context, token string, limit int) []models.Submission
	DownloadSubmission(ctx context.Context, token string, id int) ([]byte, error)
}

// SubmissionManager covers mutations of existing submissions.
type SubmissionManager interface {
	DeleteSubmission(ctx context.Context, token string, id int) error
	ReprocessSubmission(ctx context.Context, token string, id int) (models.Submission, error)
}

// SubmissionAnalytics covers the dashboard statistics read.
type SubmissionAnalytics interface {
	GetUserStatistics(ctx context.Context, token string) dto.UserStatistics
}

// UploadsService is the facade over all submission operations.
type UploadsService interface {
	SubmissionUploader
	SubmissionReader
	SubmissionManager
	SubmissionAnalytics
}

type uploadsService struct {
	client   *api.Client
	files    FileValidator
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewUploadsService constructs the submissions facade.
func NewUploadsService(client *api.Client, limits config.Limits, validate *validator.Validate, logger zerolog.Logger) UploadsService {
	return &uploadsService{
		client:   client,
		files:    NewFileValidator(limits),
		validate: validate,
		logger:   logger.With().Str("component", "uploads_service").Logger(),
	}
}

func (s *uploadsService) UploadSingleFile(ctx context.Context, token string, req SingleUploadRequest) (models.Submission, error) {
	if req.SessionID <= 0 {
		return models.Submission{}, validationErrorf("session id is required")
	}
	if err := s.files.ValidateFile(req.File); err != nil {
		return models.Submission{}, err
	}

	part, closeFile, err := openFilePart("file", req.File)
	if err != nil {
		return models.Submission{}, err
	}
	defer closeFile()

	fields := map[string]string{
		"session_id":      strconv.Itoa(req.SessionID),
		"submission_type": submissionTypeOrDefault(req.SubmissionType),
	}

	var envelope dto.SubmissionEnvelope
	if err := s.client.Multipart(ctx, uploadsBase+"/single-file", token, fields, []api.FilePart{part}, &envelope); err != nil {
		return models.Submission{}, err
	}

	sanitizeSubmission(&envelope.Submission)
	s.logger.Info().Int("submission_id", envelope.Submission.ID).Msg("file uploaded")
	return envelope.Submission, nil
}

func (s *uploadsService) BulkUploadImagesToPDF(ctx context.Context, token string, req BulkUploadRequest) (models.Submission, error) {
	if req.SessionID <= 0 {
		return models.Submission{}, validationErrorf("session id is required")
	}
	if err := s.files.ValidateBulk(req.Files); err != nil {
		return models.Submission{}, err
	}

	// The backend merges the batch into a single PDF, so every file must be
	// an image.
	for i, file := range req.Files {
		if !strings.HasPrefix(resolveContentType(file), "image/") {
			return models.Submission{}, validationErrorf("file %d (%s) is not an image", i+1, file.Name)
		}
	}

	parts := make([]api.FilePart, 0, len(req.Files))
	closers := make([]func(), 0, len(req.Files))
	defer func() {
		for _, closeFile := range closers {
			closeFile()
		}
	}()
	for _, file := range req.Files {
		part, closeFile, err := openFilePart("files", file)
		if err != nil {
			return models.Submission{}, err
		}
		parts = append(parts, part)
		closers = append(closers, closeFile)
	}

	fields := map[string]string{
		"session_id":      strconv.Itoa(req.SessionID),
		"submission_type": submissionTypeOrDefault(req.SubmissionType),
	}

	var envelope dto.SubmissionEnvelope
	if err := s.client.Multipart(ctx, uploadsBase+"/bulk-upload-to-pdf", token, fields, parts, &envelope); err != nil {
		return models.Submission{}, err
	}

	sanitizeSubmission(&envelope.Submission)
	s.logger.Info().Int("submission_id", envelope.Submission.ID).Int("files", len(req.Files)).Msg("images uploaded for pdf merge")
	return envelope.Submission, nil
}

func (s *uploadsService) CreateSubmission(ctx context.Context, token string, req dto.CreateSubmissionRequest) (models.Submission, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Submission{}, validationErrorf("invalid submission: %v", err)
	}

	var envelope dto.SubmissionEnvelope
	if err := s.client.JSON(ctx, http.MethodPost, uploadsBase+"/submissions/", token, req, &envelope); err != nil {
		return models.Submission{}, err
	}

	sanitizeSubmission(&envelope.Submission)
	return envelope.Submission, nil
}

func (s *uploadsService) GetSessionSubmissions(ctx context.Context, token string, sessionID int) ([]models.Submission, error) {
	path := fmt.Sprintf("%s/sessions/%d/submissions", uploadsBase, sessionID)

	var resp dto.SubmissionListResponse
	if err := s.client.JSON(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}

	for i := range resp.Submissions {
		sanitizeSubmission(&resp.Submissions[i])
	}
	return resp.Submissions, nil
}

// GetUserRecentSubmissions degrades to an empty list on failure so a broken
// analytics fetch never blocks the screen that embeds it.
func (s *uploadsService) GetUserRecentSubmissions(ctx context.Context, token string, limit int) []models.Submission {
	if limit < recentLimitMin {
		limit = recentLimitMin
	}
	if limit > recentLimitMax {
		limit = recentLimitMax
	}

	path := fmt.Sprintf("%s/user/recent-submissions?limit=%d", uploadsBase, limit)

	var resp dto.SubmissionListResponse
	if err := s.client.JSON(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		s.logger.Warn().Err(err).Msg("recent submissions fetch degraded to empty list")
		return []models.Submission{}
	}

	if resp.Submissions == nil {
		return []models.Submission{}
	}
	for i := range resp.Submissions {
		sanitizeSubmission(&resp.Submissions[i])
	}
	return resp.Submissions
}

// GetUserStatistics degrades to a zero value on failure, same policy as the
// recent-submissions read.
func (s *uploadsService) GetUserStatistics(ctx context.Context, token string) dto.UserStatistics {
	var stats dto.UserStatistics
	if err := s.client.JSON(ctx, http.MethodGet, uploadsBase+"/user/statistics", token, nil, &stats); err != nil {
		s.logger.Warn().Err(err).Msg("statistics fetch degraded to zero value")
		return dto.UserStatistics{}
	}
	return stats
}

func (s *uploadsService) DeleteSubmission(ctx context.Context, token string, id int) error {
	path := fmt.Sprintf("%s/submissions/%d", uploadsBase, id)
	return s.client.JSON(ctx, http.MethodDelete, path, token, nil, nil)
}

func (s *uploadsService) ReprocessSubmission(ctx context.Context, token string, id int) (models.Submission, error) {
	path := fmt.Sprintf("%s/submissions/%d/reprocess", uploadsBase, id)

	var envelope dto.SubmissionEnvelope
	if err := s.client.JSON(ctx, http.MethodPost, path, token, nil, &envelope); err != nil {
		return models.Submission{}, err
	}

	sanitizeSubmission(&envelope.Submission)
	return envelope.Submission, nil
}

func (s *uploadsService) DownloadSubmission(ctx context.Context, token string, id int) ([]byte, error) {
	path := fmt.Sprintf("%s/submissions/%d/download", uploadsBase, id)
	return s.client.Download(ctx, path, token)
}

func submissionTypeOrDefault(submissionType string) string {
	if strings.TrimSpace(submissionType) == "" {
		return models.SubmissionTypeHomework
	}
	return submissionType
}

func openFilePart(field string, file models.UploadFile) (api.FilePart, func(), error) {
	handle, err := os.Open(file.URI)
	if err != nil {
		return api.FilePart{}, nil, validationErrorf("cannot open file %s: %v", file.Name, err)
	}

	part := api.FilePart{
		Field:       field,
		Name:        file.Name,
		ContentType: resolveContentType(file),
		Reader:      handle,
	}
	return part, func() { handle.Close() }, nil
}

func sanitizeSubmission(s *models.Submission) {
	s.AIFeedback = utils.SanitizeText(s.AIFeedback)
	s.AIStrengths = utils.SanitizeAll(s.AIStrengths)
	s.AIImprovements = utils.SanitizeAll(s.AIImprovements)
	s.AICorrections = utils.SanitizeAll(s.AICorrections)
}
