package service

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/brainink-app/afterschool-go/internal/config"
	"github.com/brainink-app/afterschool-go/internal/models"
	"github.com/brainink-app/afterschool-go/internal/observability"
)

// ValidationError is raised client-side before any network call. Its message
// is user-presentable as-is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// FileValidator applies the injected limits to picked files. The backend
// re-validates everything; these checks only prevent doomed uploads.
type FileValidator struct {
	limits config.Limits
}

// NewFileValidator builds a validator around one service's limits.
func NewFileValidator(limits config.Limits) FileValidator {
	return FileValidator{limits: limits}
}

// ValidateFile checks one file against the name, extension, and size rules.
func (v FileValidator) ValidateFile(file models.UploadFile) error {
	if strings.TrimSpace(file.Name) == "" {
		observability.UploadsRejected().WithLabelValues("name").Inc()
		return validationErrorf("file has no name")
	}

	ext := file.Ext()
	if ext == "" || !v.limits.AllowsExt(ext) {
		observability.UploadsRejected().WithLabelValues("type").Inc()
		return validationErrorf("file type %q is not supported", ext)
	}

	if file.Size > v.limits.MaxFileBytes {
		observability.UploadsRejected().WithLabelValues("size").Inc()
		return validationErrorf("file %s exceeds the maximum size of %d MB", file.Name, v.limits.MaxFileBytes/(1024*1024))
	}

	return nil
}

// ValidateBulk checks a batch, short-circuiting on the first invalid file.
// Errors carry the 1-based index and filename of the offender.
func (v FileValidator) ValidateBulk(files []models.UploadFile) error {
	if len(files) == 0 {
		observability.UploadsRejected().WithLabelValues("count").Inc()
		return validationErrorf("no files selected")
	}

	if len(files) > v.limits.MaxFiles {
		observability.UploadsRejected().WithLabelValues("count").Inc()
		return validationErrorf("too many files: %d exceeds the maximum of %d", len(files), v.limits.MaxFiles)
	}

	for i, file := range files {
		if err := v.ValidateFile(file); err != nil {
			return validationErrorf("file %d (%s): %v", i+1, file.Name, err)
		}
	}

	return nil
}

// resolveContentType trusts the declared type when it is specific, otherwise
// sniffs the file on disk.
func resolveContentType(file models.UploadFile) string {
	declared := strings.TrimSpace(strings.ToLower(file.Type))
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}

	if detected, err := mimetype.DetectFile(file.URI); err == nil {
		return detected.String()
	}

	return "application/octet-stream"
}
