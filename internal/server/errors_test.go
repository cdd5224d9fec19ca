package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/generator"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/keywords"
	"github.com/jonathan/resume-tailor/internal/resumes"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "resume", Message: "is required"}
	assert.Equal(t, "validation error: resume - is required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", &ErrValidation{Field: "f", Message: "m"}, http.StatusBadRequest},
		{"analysis input", &keywords.InputError{Field: "title", Message: "is required"}, http.StatusBadRequest},
		{"resume name", &resumes.NameError{Name: "..", Message: "bad"}, http.StatusBadRequest},
		{"generation request", &generator.RequestError{Message: "bad"}, http.StatusBadRequest},
		{"not analyzed", session.ErrNotAnalyzed, http.StatusBadRequest},
		{"resume missing", &ErrResumeNotFound{Name: "x"}, http.StatusNotFound},
		{"session missing", session.ErrNotFound, http.StatusNotFound},
		{"no document", fmt.Errorf("download: %w", session.ErrNoDocument), http.StatusNotFound},
		{"exists", &resumes.ExistsError{Name: "x"}, http.StatusConflict},
		{"unsupported", &ingestion.ExtractionError{Cause: ingestion.ErrUnsupportedFormat}, http.StatusUnsupportedMediaType},
		{"extraction", &ingestion.ExtractionError{Message: "bad"}, http.StatusUnprocessableEntity},
		{"empty", fmt.Errorf("posting: %w", ingestion.ErrEmptyText), http.StatusUnprocessableEntity},
		{"generation", &generator.Error{Stage: generator.StageCompile, Message: "boom"}, http.StatusBadGateway},
		{"fetch", fmt.Errorf("wrapped: %w", &fetch.Error{URL: "u", Message: "m"}), http.StatusBadGateway},
		{"corrupt sidecar", &resumes.StorageError{Name: "x", Message: "invalid sidecar", Cause: &schemas.ValidationError{Schema: "resume_record"}}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	genErr := &generator.Error{Stage: generator.StageCompile, Message: "pdflatex exploded", Cause: errors.New("/tmp/secret")}
	assert.Equal(t, "document generation failed", publicMessage(genErr, HTTPStatus(genErr)))

	internal := errors.New("disk on fire")
	assert.Equal(t, "internal server error", publicMessage(internal, HTTPStatus(internal)))

	storage := &resumes.StorageError{Name: "x", Message: "invalid sidecar /srv/resumes/x.json", Cause: errors.New("bad")}
	assert.Equal(t, "internal server error", publicMessage(storage, HTTPStatus(storage)))

	input := &ErrValidation{Field: "resume", Message: "is required"}
	assert.Equal(t, input.Error(), publicMessage(input, HTTPStatus(input)))
}
