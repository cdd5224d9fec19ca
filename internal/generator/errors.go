package generator

import (
	"errors"
	"fmt"
)

// ErrNoKeywords is returned when a request carries neither technical nor soft skills
var ErrNoKeywords = errors.New("no keywords to tailor the resume with")

// Stage names the generation step that failed
type Stage string

const (
	StageRender  Stage = "render"
	StageCompile Stage = "compile"
	StageInspect Stage = "inspect"
	StageWrite   Stage = "write"
)

// RequestError reports a request that failed validation. Nothing was generated.
type RequestError struct {
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid generation request: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid generation request: %s", e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// Error represents a failed document generation
type Error struct {
	Stage   Stage
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed at %s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("generation failed at %s: %s", e.Stage, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
