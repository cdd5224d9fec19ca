package ingestion

import (
	"errors"
	"fmt"
)

// ErrEmptyText is returned when a document parses but yields no text.
var ErrEmptyText = errors.New("no text could be extracted")

// ErrUnsupportedFormat is returned for file types that cannot be read.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ExtractionError represents a failure to read text out of an uploaded document
type ExtractionError struct {
	Filename string
	Format   string
	Message  string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract text from %s (%s): %s: %v", e.Filename, e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to extract text from %s (%s): %s", e.Filename, e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
