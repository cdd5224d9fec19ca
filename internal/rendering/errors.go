package rendering

import (
	"errors"
	"fmt"
)

// ErrMissingName is the cause of a RenderError when the profile has no name
var ErrMissingName = errors.New("candidate name is required")

// TemplateError reports a resume template that could not be loaded, parsed or
// executed. Template is the file path, or DefaultTemplateName for the built-in one.
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	msg := e.Message
	if e.Template != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Template)
	}
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", msg, e.Cause)
	}
	return "template error: " + msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError reports input that cannot be turned into template data
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return "render error: " + e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
