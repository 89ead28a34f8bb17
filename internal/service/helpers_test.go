package service

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/brainink-app/afterschool-go/internal/api"
	"github.com/brainink-app/afterschool-go/internal/config"
	"github.com/brainink-app/afterschool-go/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testLimits() config.Limits {
	return config.Limits{
		MaxFileBytes: 20 * 1024 * 1024,
		MaxFiles:     20,
		AllowedExts:  []string{"jpg", "jpeg", "png", "gif", "bmp", "webp", "pdf", "txt"},
	}
}

func newTestClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.New(api.Config{BaseURL: server.URL, Logger: zerolog.Nop()})
	require.NoError(t, err)
	return client
}

// writeTempFile materializes a picked file on disk so multipart uploads can
// stream it.
func writeTempFile(t *testing.T, name string, content []byte) models.UploadFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	return models.UploadFile{
		URI:  path,
		Name: name,
		Size: int64(len(content)),
	}
}

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
