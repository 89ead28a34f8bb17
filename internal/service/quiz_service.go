package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/brainink-app/afterschool-go/internal/api"
	"github.com/brainink-app/afterschool-go/internal/auth"
	"github.com/brainink-app/afterschool-go/internal/dto"
	"github.com/brainink-app/afterschool-go/internal/models"
)

const practiceQuizBase = "/after-school/quiz/practice"

// QuizService generates ephemeral practice quizzes. Results are never
// persisted anywhere.
type QuizService interface {
	GenerateFromAssignment(ctx context.Context, assignmentID int) (models.PracticeQuiz, error)
	GenerateFromBlock(ctx context.Context, blockID int) (models.PracticeQuiz, error)
	GenerateFromNote(ctx context.Context, noteID int) (models.PracticeQuiz, error)
}

type quizService struct {
	client  *api.Client
	tokens  *auth.Manager
	timeout time.Duration
	logger  zerolog.Logger
	now     func() time.Time
}

// NewQuizService constructs the practice quiz generator. A positive timeout
// bounds each generation call; zero disables the bound.
func NewQuizService(client *api.Client, tokens *auth.Manager, timeout time.Duration, logger zerolog.Logger) QuizService {
	return &quizService{
		client:  client,
		tokens:  tokens,
		timeout: timeout,
		logger:  logger.With().Str("component", "quiz_service").Logger(),
		now:     time.Now,
	}
}

func (s *quizService) GenerateFromAssignment(ctx context.Context, assignmentID int) (models.PracticeQuiz, error) {
	return s.generate(ctx, models.QuizSourceAssignment, assignmentID)
}

func (s *quizService) GenerateFromBlock(ctx context.Context, blockID int) (models.PracticeQuiz, error) {
	return s.generate(ctx, models.QuizSourceBlock, blockID)
}

func (s *quizService) GenerateFromNote(ctx context.Context, noteID int) (models.PracticeQuiz, error) {
	return s.generate(ctx, models.QuizSourceNote, noteID)
}

func (s *quizService) generate(ctx context.Context, source string, id int) (models.PracticeQuiz, error) {
	if id <= 0 {
		return models.PracticeQuiz{}, validationErrorf("%s id is required", source)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return models.PracticeQuiz{}, err
	}

	path := fmt.Sprintf("%s/%s/%d", practiceQuizBase, source, id)
	body := dto.PracticeQuizRequest{NumQuestions: models.QuizQuestionCount}

	var payload map[string]interface{}
	err = s.client.JSON(ctx, http.MethodPost, path, token, body, &payload)
	if api.IsStatus(err, http.StatusUnauthorized) {
		// One-shot refresh-and-retry; a second 401 is surfaced as-is.
		refreshed, refreshErr := s.tokens.Refresh(ctx)
		if refreshErr != nil {
			return models.PracticeQuiz{}, refreshErr
		}
		s.logger.Debug().Str("source", source).Msg("retrying quiz generation after token refresh")
		err = s.client.JSON(ctx, http.MethodPost, path, refreshed, body, &payload)
	}
	if err != nil {
		return models.PracticeQuiz{}, err
	}

	quiz := models.PracticeQuiz{
		Source:      source,
		SourceID:    id,
		Questions:   NormalizeQuestions(extractQuestions(payload)),
		GeneratedAt: s.now(),
	}

	s.logger.Info().Str("source", source).Int("source_id", id).Msg("practice quiz generated")
	return quiz, nil
}
