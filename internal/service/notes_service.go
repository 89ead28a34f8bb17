package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/brainink-app/afterschool-go/internal/api"
	"github.com/brainink-app/afterschool-go/internal/config"
	"github.com/brainink-app/afterschool-go/internal/dto"
	"github.com/brainink-app/afterschool-go/internal/models"
	"github.com/brainink-app/afterschool-go/internal/utils"
)

const notesBase = "/after-school/notes"

// analysisSchema describes the expected shape of the synchronous analysis
// payload. Validation is warn-only: a malformed analysis is logged and mapped
// best-effort, it never fails the upload.
const analysisSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"note": {
			"type": "object",
			"properties": {
				"summary": {"type": "string"},
				"key_points": {"type": "array", "items": {"type": "string"}},
				"main_topics": {"type": "array", "items": {"type": "string"}},
				"learning_concepts": {"type": "array", "items": {"type": "string"}},
				"questions_generated": {"type": "array", "items": {"type": "string"}},
				"objectives": {"type": "array"}
			}
		}
	}
}`

// NoteUploadRequest uploads one or more note images for synchronous analysis.
type NoteUploadRequest struct {
	Title       string
	Description string
	Subject     string
	Tags        []string
	Files       []models.UploadFile
}

// NotesService covers note upload, CRUD, and the per-objective study tools.
type NotesService interface {
	UploadAndAnalyze(ctx context.Context, token string, req NoteUploadRequest) (models.StudentNote, error)
	GetNote(ctx context.Context, token string, id int) (models.StudentNote, error)
	ListNotes(ctx context.Context, token string) ([]models.StudentNote, error)
	UpdateNote(ctx context.Context, token string, id int, update dto.NoteUpdateRequest) (models.StudentNote, error)
	DeleteNote(ctx context.Context, token string, id int) error
	GenerateObjectiveQuiz(ctx context.Context, token string, noteID, objectiveIndex int) (models.PracticeQuiz, error)
	SubmitObjectiveQuiz(ctx context.Context, token string, noteID int, submission dto.ObjectiveQuizSubmission) (dto.ObjectiveQuizResult, error)
	GenerateObjectiveFlashcards(ctx context.Context, token string, noteID, objectiveIndex int) ([]models.Flashcard, error)
}

type notesService struct {
	client   *api.Client
	files    FileValidator
	validate *validator.Validate
	schema   *jsonschema.Schema
	logger   zerolog.Logger
}

// NewNotesService constructs the notes facade.
func NewNotesService(client *api.Client, limits config.Limits, validate *validator.Validate, logger zerolog.Logger) NotesService {
	return &notesService{
		client:   client,
		files:    NewFileValidator(limits),
		validate: validate,
		schema:   jsonschema.MustCompileString("note_analysis.json", analysisSchema),
		logger:   logger.With().Str("component", "notes_service").Logger(),
	}
}

// UploadAndAnalyze is synchronous from the caller's perspective: the response
// of the single HTTP call already contains the AI analysis, there is no poll
// step.
func (s *notesService) UploadAndAnalyze(ctx context.Context, token string, req NoteUploadRequest) (models.StudentNote, error) {
	if strings.TrimSpace(req.Title) == "" {
		return models.StudentNote{}, validationErrorf("note title is required")
	}
	if err := s.files.ValidateBulk(req.Files); err != nil {
		return models.StudentNote{}, err
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
			return models.StudentNote{}, err
		}
		parts = append(parts, part)
		closers = append(closers, closeFile)
	}

	fields := map[string]string{
		"title":       req.Title,
		"description": req.Description,
		"subject":     req.Subject,
		"tags":        strings.Join(req.Tags, ","),
	}

	var raw json.RawMessage
	if err := s.client.Multipart(ctx, notesBase+"/upload", token, fields, parts, &raw); err != nil {
		return models.StudentNote{}, err
	}

	s.checkAnalysisShape(raw)

	var envelope dto.NoteEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return models.StudentNote{}, fmt.Errorf("decode note response: %w", err)
	}

	sanitizeNote(&envelope.Note)
	s.logger.Info().Int("note_id", envelope.Note.ID).Str("status", envelope.Note.ProcessingStatus).Msg("note uploaded and analyzed")
	return envelope.Note, nil
}

func (s *notesService) GetNote(ctx context.Context, token string, id int) (models.StudentNote, error) {
	var envelope dto.NoteEnvelope
	if err := s.client.JSON(ctx, http.MethodGet, fmt.Sprintf("%s/%d", notesBase, id), token, nil, &envelope); err != nil {
		return models.StudentNote{}, err
	}

	sanitizeNote(&envelope.Note)
	return envelope.Note, nil
}

func (s *notesService) ListNotes(ctx context.Context, token string) ([]models.StudentNote, error) {
	var resp dto.NoteListResponse
	if err := s.client.JSON(ctx, http.MethodGet, notesBase+"/", token, nil, &resp); err != nil {
		return nil, err
	}

	for i := range resp.Notes {
		sanitizeNote(&resp.Notes[i])
	}
	return resp.Notes, nil
}

func (s *notesService) UpdateNote(ctx context.Context, token string, id int, update dto.NoteUpdateRequest) (models.StudentNote, error) {
	if err := s.validate.Struct(update); err != nil {
		return models.StudentNote{}, validationErrorf("invalid note update: %v", err)
	}

	var envelope dto.NoteEnvelope
	if err := s.client.JSON(ctx, http.MethodPut, fmt.Sprintf("%s/%d", notesBase, id), token, update, &envelope); err != nil {
		return models.StudentNote{}, err
	}

	sanitizeNote(&envelope.Note)
	return envelope.Note, nil
}

func (s *notesService) DeleteNote(ctx context.Context, token string, id int) error {
	return s.client.JSON(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", notesBase, id), token, nil, nil)
}

func (s *notesService) GenerateObjectiveQuiz(ctx context.Context, token string, noteID, objectiveIndex int) (models.PracticeQuiz, error) {
	if objectiveIndex < 0 {
		return models.PracticeQuiz{}, validationErrorf("objective index must not be negative")
	}

	fields := map[string]string{"objective_index": strconv.Itoa(objectiveIndex)}

	var payload map[string]interface{}
	if err := s.client.Multipart(ctx, fmt.Sprintf("%s/%d/quiz", notesBase, noteID), token, fields, nil, &payload); err != nil {
		return models.PracticeQuiz{}, err
	}

	quiz := models.PracticeQuiz{
		Source:    models.QuizSourceNote,
		SourceID:  noteID,
		Questions: NormalizeQuestions(extractQuestions(payload)),
	}
	return quiz, nil
}

func (s *notesService) SubmitObjectiveQuiz(ctx context.Context, token string, noteID int, submission dto.ObjectiveQuizSubmission) (dto.ObjectiveQuizResult, error) {
	if err := s.validate.Struct(submission); err != nil {
		return dto.ObjectiveQuizResult{}, validationErrorf("invalid quiz submission: %v", err)
	}

	var result dto.ObjectiveQuizResult
	if err := s.client.JSON(ctx, http.MethodPost, fmt.Sprintf("%s/%d/quiz/submit", notesBase, noteID), token, submission, &result); err != nil {
		return dto.ObjectiveQuizResult{}, err
	}

	result.Feedback = utils.SanitizeText(result.Feedback)
	return result, nil
}

func (s *notesService) GenerateObjectiveFlashcards(ctx context.Context, token string, noteID, objectiveIndex int) ([]models.Flashcard, error) {
	if objectiveIndex < 0 {
		return nil, validationErrorf("objective index must not be negative")
	}

	fields := map[string]string{"objective_index": strconv.Itoa(objectiveIndex)}

	var resp dto.FlashcardsResponse
	if err := s.client.Multipart(ctx, fmt.Sprintf("%s/%d/flashcards", notesBase, noteID), token, fields, nil, &resp); err != nil {
		return nil, err
	}

	for i := range resp.Flashcards {
		resp.Flashcards[i].Question = utils.SanitizeText(resp.Flashcards[i].Question)
		resp.Flashcards[i].Answer = utils.SanitizeText(resp.Flashcards[i].Answer)
	}
	return resp.Flashcards, nil
}

func (s *notesService) checkAnalysisShape(raw json.RawMessage) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.logger.Warn().Err(err).Msg("analysis payload is not valid json")
		return
	}
	if err := s.schema.Validate(doc); err != nil {
		s.logger.Warn().Err(err).Msg("analysis payload failed shape check, mapping best-effort")
	}
}

func sanitizeNote(n *models.StudentNote) {
	n.Summary = utils.SanitizeText(n.Summary)
	n.KeyPoints = utils.SanitizeAll(n.KeyPoints)
	n.MainTopics = utils.SanitizeAll(n.MainTopics)
	n.LearningConcepts = utils.SanitizeAll(n.LearningConcepts)
	n.QuestionsGenerated = utils.SanitizeAll(n.QuestionsGenerated)
	for i := range n.Objectives {
		n.Objectives[i].Summary = utils.SanitizeText(n.Objectives[i].Summary)
		n.Objectives[i].Description = utils.SanitizeText(n.Objectives[i].Description)
	}
}
