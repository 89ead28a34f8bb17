package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Limits describes the client-side upload constraints for one service. The
// checks are advisory only, the backend re-validates; they exist to avoid
// wasted uploads. Limits values are built once at startup and injected, never
// mutated.
type Limits struct {
	MaxFileBytes int64
	MaxFiles     int
	AllowedExts  []string
}

// AllowsExt reports whether the extension (without dot) is on the allow-list.
func (l Limits) AllowsExt(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, allowed := range l.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Config holds runtime configuration values for the client.
type Config struct {
	AppName        string
	AppEnv         string
	BaseURL        string
	RequestTimeout time.Duration
	QuizTimeout    time.Duration
	TokenLeeway    time.Duration
	AccessToken    string
	RefreshToken   string
	Upload         Limits
	Notes          Limits
}

const defaultMaxFileMB = 20

var (
	uploadExts = []string{"jpg", "jpeg", "png", "gif", "bmp", "webp", "pdf"}
	notesExts  = []string{"jpg", "jpeg", "png", "gif", "bmp", "webp", "pdf", "txt", "doc", "docx"}
)

// Load reads configuration values from environment variables and an optional
// .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BRAININK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "BrainInk Client")
	v.SetDefault("app.env", "development")
	v.SetDefault("base.url", "https://brainink-backend.onrender.com")
	v.SetDefault("request.timeout", "30s")
	v.SetDefault("quiz.timeout", "45s")
	v.SetDefault("token.leeway", "30s")
	v.SetDefault("upload.max_file_mb", defaultMaxFileMB)
	v.SetDefault("upload.max_files", 20)
	v.SetDefault("notes.max_file_mb", defaultMaxFileMB)
	v.SetDefault("notes.max_files", 20)

	requestTimeout, err := time.ParseDuration(v.GetString("request.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid request timeout: %w", err)
	}

	quizTimeout, err := time.ParseDuration(v.GetString("quiz.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid quiz timeout: %w", err)
	}

	leeway, err := time.ParseDuration(v.GetString("token.leeway"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token leeway: %w", err)
	}

	cfg := Config{
		AppName:        v.GetString("app.name"),
		AppEnv:         v.GetString("app.env"),
		BaseURL:        strings.TrimRight(v.GetString("base.url"), "/"),
		RequestTimeout: requestTimeout,
		QuizTimeout:    quizTimeout,
		TokenLeeway:    leeway,
		AccessToken:    v.GetString("access.token"),
		RefreshToken:   v.GetString("refresh.token"),
		Upload:         buildLimits(v, "upload", uploadExts),
		Notes:          buildLimits(v, "notes", notesExts),
	}

	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("base url must be provided")
	}

	return cfg, nil
}

func buildLimits(v *viper.Viper, prefix string, exts []string) Limits {
	maxMB := v.GetInt(prefix + ".max_file_mb")
	if maxMB <= 0 {
		maxMB = defaultMaxFileMB
	}

	maxFiles := v.GetInt(prefix + ".max_files")
	if maxFiles <= 0 {
		maxFiles = 20
	}

	allowed := make([]string, len(exts))
	copy(allowed, exts)

	return Limits{
		MaxFileBytes: int64(maxMB) * 1024 * 1024,
		MaxFiles:     maxFiles,
		AllowedExts:  allowed,
	}
}
