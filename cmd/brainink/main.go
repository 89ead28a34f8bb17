package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/brainink-app/afterschool-go/internal/api"
	"github.com/brainink-app/afterschool-go/internal/auth"
	"github.com/brainink-app/afterschool-go/internal/config"
	"github.com/brainink-app/afterschool-go/internal/history"
	"github.com/brainink-app/afterschool-go/internal/models"
	"github.com/brainink-app/afterschool-go/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	client, err := api.New(api.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("failed to create api client: %v", err)
	}

	tokens := auth.NewManager(client, auth.TokenPair{
		AccessToken:  cfg.AccessToken,
		RefreshToken: cfg.RefreshToken,
	}, cfg.TokenLeeway, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	uploads := service.NewUploadsService(client, cfg.Upload, validate, logger)
	notes := service.NewNotesService(client, cfg.Notes, validate, logger)
	quizzes := service.NewQuizService(client, tokens, cfg.QuizTimeout, logger)

	if len(os.Args) < 2 {
		usage()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	app := &cli{cfg: cfg, tokens: tokens, uploads: uploads, notes: notes, quizzes: quizzes}

	switch os.Args[1] {
	case "recent":
		app.recent(ctx, os.Args[2:])
	case "stats":
		app.stats(ctx)
	case "history":
		app.history(ctx, os.Args[2:])
	case "upload":
		app.upload(ctx, os.Args[2:])
	case "bulk":
		app.bulk(ctx, os.Args[2:])
	case "note-upload":
		app.noteUpload(ctx, os.Args[2:])
	case "note":
		app.note(ctx, os.Args[2:])
	case "quiz":
		app.quiz(ctx, os.Args[2:])
	default:
		usage()
	}
}

type cli struct {
	cfg     config.Config
	tokens  *auth.Manager
	uploads service.UploadsService
	notes   service.NotesService
	quizzes service.QuizService
}

func (c *cli) token(ctx context.Context) string {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		log.Fatalf("no access token available: %v (set BRAININK_ACCESS_TOKEN)", err)
	}
	return token
}

func (c *cli) recent(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("recent", flag.ExitOnError)
	limit := fs.Int("limit", 10, "number of submissions to fetch")
	fs.Parse(args)

	printJSON(c.uploads.GetUserRecentSubmissions(ctx, c.token(ctx), *limit))
}

func (c *cli) stats(ctx context.Context) {
	printJSON(c.uploads.GetUserStatistics(ctx, c.token(ctx)))
}

func (c *cli) history(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	period := fs.String("period", string(history.PeriodAll), "all|today|week|month|3months|6months|year")
	fs.Parse(args)

	submissions := c.uploads.GetUserRecentSubmissions(ctx, c.token(ctx), 50)
	groups, stats := history.Build(submissions, history.Period(*period), time.Now())
	printJSON(map[string]interface{}{"groups": groups, "stats": stats})
}

func (c *cli) upload(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	session := fs.Int("session", 0, "session id")
	submissionType := fs.String("type", models.SubmissionTypeHomework, "submission type")
	fs.Parse(args)

	if fs.NArg() != 1 {
		log.Fatal("upload expects exactly one file argument")
	}

	submission, err := c.uploads.UploadSingleFile(ctx, c.token(ctx), service.SingleUploadRequest{
		SessionID:      *session,
		SubmissionType: *submissionType,
		File:           localFile(fs.Arg(0)),
	})
	if err != nil {
		log.Fatalf("upload failed: %v", err)
	}
	printJSON(submission)
}

func (c *cli) bulk(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("bulk", flag.ExitOnError)
	session := fs.Int("session", 0, "session id")
	submissionType := fs.String("type", models.SubmissionTypeHomework, "submission type")
	fs.Parse(args)

	files := make([]models.UploadFile, 0, fs.NArg())
	for _, path := range fs.Args() {
		files = append(files, localFile(path))
	}

	submission, err := c.uploads.BulkUploadImagesToPDF(ctx, c.token(ctx), service.BulkUploadRequest{
		SessionID:      *session,
		SubmissionType: *submissionType,
		Files:          files,
	})
	if err != nil {
		log.Fatalf("bulk upload failed: %v", err)
	}
	printJSON(submission)
}

func (c *cli) noteUpload(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("note-upload", flag.ExitOnError)
	title := fs.String("title", "", "note title")
	subject := fs.String("subject", "", "note subject")
	fs.Parse(args)

	files := make([]models.UploadFile, 0, fs.NArg())
	for _, path := range fs.Args() {
		files = append(files, localFile(path))
	}

	note, err := c.notes.UploadAndAnalyze(ctx, c.token(ctx), service.NoteUploadRequest{
		Title:   *title,
		Subject: *subject,
		Files:   files,
	})
	if err != nil {
		log.Fatalf("note upload failed: %v", err)
	}
	printJSON(note)
}

func (c *cli) note(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("note", flag.ExitOnError)
	id := fs.Int("id", 0, "note id")
	fs.Parse(args)

	note, err := c.notes.GetNote(ctx, c.token(ctx), *id)
	if err != nil {
		log.Fatalf("note fetch failed: %v", err)
	}
	printJSON(note)
}

func (c *cli) quiz(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("quiz", flag.ExitOnError)
	source := fs.String("source", models.QuizSourceAssignment, "assignment|block|note")
	id := fs.Int("id", 0, "source id")
	fs.Parse(args)

	var quiz models.PracticeQuiz
	var err error
	switch *source {
	case models.QuizSourceAssignment:
		quiz, err = c.quizzes.GenerateFromAssignment(ctx, *id)
	case models.QuizSourceBlock:
		quiz, err = c.quizzes.GenerateFromBlock(ctx, *id)
	case models.QuizSourceNote:
		quiz, err = c.quizzes.GenerateFromNote(ctx, *id)
	default:
		log.Fatalf("unknown quiz source %q", *source)
	}
	if err != nil {
		log.Fatalf("quiz generation failed: %v", err)
	}
	printJSON(quiz)
}

func localFile(path string) models.UploadFile {
	info, err := os.Stat(path)
	if err != nil {
		log.Fatalf("cannot read %s: %v", path, err)
	}
	return models.UploadFile{
		URI:  path,
		Name: filepath.Base(path),
		Size: info.Size(),
	}
}

func printJSON(v interface{}) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encode output: %v", err)
	}
	fmt.Println(string(payload))
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: brainink <recent|stats|history|upload|bulk|note-upload|note|quiz> [flags]")
	os.Exit(2)
}
