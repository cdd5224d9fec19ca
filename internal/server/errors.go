// Package server provides the HTTP API for uploading resumes, analyzing them
// against job descriptions and generating tailored resumes.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/generator"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/keywords"
	"github.com/jonathan/resume-tailor/internal/resumes"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/session"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrResumeNotFound indicates no stored resume has the requested name
type ErrResumeNotFound struct {
	Name string
}

func (e *ErrResumeNotFound) Error() string {
	return fmt.Sprintf("resume not found: %s", e.Name)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		inputErr      *keywords.InputError
		nameErr       *resumes.NameError
		requestErr    *generator.RequestError
		schemaErr     *schemas.ValidationError
		notFoundErr   *ErrResumeNotFound
		existsErr     *resumes.ExistsError
		extractionErr *ingestion.ExtractionError
		generationErr *generator.Error
		fetchErr      *fetch.Error
		storageErr    *resumes.StorageError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &storageErr):
		// a corrupt or unreadable store is a server fault whatever it wraps
		return http.StatusInternalServerError
	case errors.As(err, &validationErr), errors.As(err, &inputErr), errors.As(err, &nameErr),
		errors.As(err, &requestErr), errors.As(err, &schemaErr), errors.Is(err, session.ErrNotAnalyzed):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr), errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrNoDocument):
		return http.StatusNotFound
	case errors.As(err, &existsErr):
		return http.StatusConflict
	case errors.Is(err, ingestion.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &extractionErr), errors.Is(err, ingestion.ErrEmptyText):
		return http.StatusUnprocessableEntity
	case errors.As(err, &generationErr), errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the error text shown to clients. Server-side failures are
// reported generically; the details are logged instead.
func publicMessage(err error, status int) string {
	var generationErr *generator.Error
	var fetchErr *fetch.Error
	switch {
	case status < http.StatusInternalServerError:
		return err.Error()
	case errors.As(err, &generationErr):
		return "document generation failed"
	case errors.As(err, &fetchErr):
		return "failed to fetch job posting"
	default:
		return "internal server error"
	}
}
