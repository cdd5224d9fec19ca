// Package schemas provides JSON Schema validation for resume sidecars, lexicon files
// and candidate profiles.
package schemas

import (
	"fmt"
	"strings"

	schemafiles "github.com/jonathan/resume-tailor/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// Name identifies one of the embedded schemas.
type Name string

const (
	// ResumeRecord validates {name}.json resume sidecars
	ResumeRecord Name = "resume_record"
	// Lexicon validates keyword lexicon files
	Lexicon Name = "lexicon"
	// CandidateProfile validates candidate profile files
	CandidateProfile Name = "candidate_profile"
)

// content returns the embedded schema text for a name.
func (n Name) content() (string, bool) {
	switch n {
	case ResumeRecord:
		return schemafiles.ResumeRecord, true
	case Lexicon:
		return schemafiles.Lexicon, true
	case CandidateProfile:
		return schemafiles.CandidateProfile, true
	default:
		return "", false
	}
}

// ValidationError represents a schema validation failure with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Schema != "" {
		sb.WriteString(fmt.Sprintf("%s validation failed:\n", ve.Schema))
	} else {
		sb.WriteString("validation failed:\n")
	}
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading the schema or the document itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Validate checks a JSON document against one of the embedded schemas.
func Validate(name Name, document []byte) error {
	schemaContent, ok := name.content()
	if !ok {
		return &SchemaLoadError{Path: string(name), Message: "unknown schema"}
	}
	err := ValidateJSONString(schemaContent, string(document))
	if ve, isValidation := err.(*ValidationError); isValidation {
		ve.Schema = string(name)
	}
	if le, isLoad := err.(*SchemaLoadError); isLoad {
		le.Path = string(name)
	}
	return err
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	return toValidationError(result)
}

// toValidationError converts a gojsonschema result into a *ValidationError, or nil when valid.
func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
