package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brainink-app/afterschool-go/internal/models"
)

func TestValidateFileRules(t *testing.T) {
	v := NewFileValidator(testLimits())

	require.NoError(t, v.ValidateFile(models.UploadFile{Name: "page.jpg", Size: 1024}))

	err := v.ValidateFile(models.UploadFile{Name: "", Size: 1024})
	require.ErrorContains(t, err, "no name")

	err = v.ValidateFile(models.UploadFile{Name: "malware.exe", Size: 1024})
	require.ErrorContains(t, err, "not supported")

	err = v.ValidateFile(models.UploadFile{Name: "huge.png", Size: 21 * 1024 * 1024})
	require.ErrorContains(t, err, "maximum size")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidateBulkCountLimit(t *testing.T) {
	v := NewFileValidator(testLimits())

	files := make([]models.UploadFile, 0, 21)
	for i := 0; i < 21; i++ {
		files = append(files, models.UploadFile{Name: fmt.Sprintf("page-%d.jpg", i), Size: 1024})
	}

	err := v.ValidateBulk(files)
	require.ErrorContains(t, err, "maximum of 20")

	require.NoError(t, v.ValidateBulk(files[:20]))
}

func TestValidateBulkRejectsEmptyList(t *testing.T) {
	v := NewFileValidator(testLimits())
	require.ErrorContains(t, v.ValidateBulk(nil), "no files selected")
}

func TestValidateBulkNamesOffender(t *testing.T) {
	v := NewFileValidator(testLimits())

	files := []models.UploadFile{
		{Name: "ok.png", Size: 1024},
		{Name: "bad.exe", Size: 1024},
		{Name: "later.png", Size: 1024},
	}

	err := v.ValidateBulk(files)
	require.ErrorContains(t, err, "file 2 (bad.exe)")
}

func TestResolveContentTypePrefersDeclared(t *testing.T) {
	require.Equal(t, "image/jpeg", resolveContentType(models.UploadFile{Name: "a.jpg", Type: "image/jpeg"}))

	// With no declared type the file on disk is sniffed.
	file := writeTempFile(t, "real.png", pngHeader)
	require.Contains(t, resolveContentType(file), "image/png")
}
