package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/brainink-app/afterschool-go/internal/dto"
	"github.com/brainink-app/afterschool-go/internal/models"
)

func newNotesService(t *testing.T, handler http.Handler) NotesService {
	t.Helper()
	client := newTestClient(t, handler)
	return NewNotesService(client, testLimits(), validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestUploadAndAnalyzeReturnsInlineAnalysis(t *testing.T) {
	file := writeTempFile(t, "biology.png", pngHeader)

	svc := newNotesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/after-school/notes/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "Photosynthesis", r.FormValue("title"))
		require.Equal(t, "biology", r.FormValue("subject"))
		require.Len(t, r.MultipartForm.File["files"], 1)

		json.NewEncoder(w).Encode(dto.NoteEnvelope{
			Success: true,
			Note: models.StudentNote{
				ID:               5,
				Title:            "Photosynthesis",
				AIProcessed:      true,
				ProcessingStatus: models.NoteStatusCompleted,
				Summary:          "<script>alert(1)</script>Light reactions make ATP",
				KeyPoints:        []string{"<i>Chlorophyll</i> absorbs light"},
			},
		})
	}))

	note, err := svc.UploadAndAnalyze(context.Background(), "token", NoteUploadRequest{
		Title:   "Photosynthesis",
		Subject: "biology",
		Files:   []models.UploadFile{file},
	})
	require.NoError(t, err)
	require.True(t, note.HasAnalysis())
	require.Equal(t, "Light reactions make ATP", note.Summary)
	require.Equal(t, []string{"Chlorophyll absorbs light"}, note.KeyPoints)
}

func TestUploadAndAnalyzeRequiresTitle(t *testing.T) {
	requests := 0
	svc := newNotesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	_, err := svc.UploadAndAnalyze(context.Background(), "token", NoteUploadRequest{
		Files: []models.UploadFile{{Name: "a.png", Size: 10}},
	})
	require.ErrorContains(t, err, "title is required")
	require.Zero(t, requests)
}

func TestUpdateNoteSendsPartialPayload(t *testing.T) {
	var received map[string]interface{}
	svc := newNotesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/after-school/notes/5", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(dto.NoteEnvelope{Note: models.StudentNote{ID: 5, Starred: true}})
	}))

	starred := true
	note, err := svc.UpdateNote(context.Background(), "token", 5, dto.NoteUpdateRequest{Starred: &starred})
	require.NoError(t, err)
	require.True(t, note.Starred)

	// Untouched fields stay out of the payload entirely.
	require.Equal(t, map[string]interface{}{"starred": true}, received)
}

func TestDeleteNote(t *testing.T) {
	var lastMethod, lastPath string
	svc := newNotesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastMethod, lastPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, svc.DeleteNote(context.Background(), "token", 8))
	require.Equal(t, http.MethodDelete, lastMethod)
	require.Equal(t, "/after-school/notes/8", lastPath)
}

func TestGenerateObjectiveQuizNormalizesShortPayload(t *testing.T) {
	svc := newNotesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/after-school/notes/5/quiz", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "2", r.FormValue("objective_index"))

		w.Write([]byte(`{"questions":[{"question":"What is ATP?","options":["Energy","Protein","Lipid","Sugar"],"correct_index":0}]}`))
	}))

	quiz, err := svc.GenerateObjectiveQuiz(context.Background(), "token", 5, 2)
	require.NoError(t, err)
	require.Len(t, quiz.Questions, models.QuizQuestionCount)
	require.Equal(t, "What is ATP?", quiz.Questions[0].Question)
	require.Equal(t, models.QuizSourceNote, quiz.Source)
}

func TestSubmitObjectiveQuizValidatesAnswers(t *testing.T) {
	requests := 0
	svc := newNotesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	_, err := svc.SubmitObjectiveQuiz(context.Background(), "token", 5, dto.ObjectiveQuizSubmission{
		ObjectiveIndex: 0,
		Answers:        nil,
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Zero(t, requests)
}

func TestGenerateObjectiveFlashcardsSanitizesText(t *testing.T) {
	svc := newNotesService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/after-school/notes/5/flashcards", r.URL.Path)
		json.NewEncoder(w).Encode(dto.FlashcardsResponse{
			Flashcards: []models.Flashcard{{Question: "<b>Define</b> osmosis", Answer: "Movement of water"}},
		})
	}))

	cards, err := svc.GenerateObjectiveFlashcards(context.Background(), "token", 5, 0)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, "Define osmosis", cards[0].Question)
}
