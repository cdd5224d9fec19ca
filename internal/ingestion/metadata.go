package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Source identifies where a job description came from.
type Source string

const (
	// SourceFile is a local text file
	SourceFile Source = "file"
	// SourceURL is a fetched job posting page
	SourceURL Source = "url"
	// SourceInline is text passed directly by the caller
	SourceInline Source = "inline"
)

// Metadata describes an ingested job description
type Metadata struct {
	Source    Source `json:"source"`
	Path      string `json:"path,omitempty"`
	URL       string `json:"url,omitempty"`
	Platform  string `json:"platform,omitempty"`
	Rendered  bool   `json:"rendered,omitempty"`
	Timestamp string `json:"timestamp"` // RFC3339
	Hash      string `json:"hash"`      // SHA256 hex digest of the cleaned text
	Chars     int    `json:"chars"`
}

// NewMetadata creates Metadata for content with the current timestamp.
func NewMetadata(source Source, content string) *Metadata {
	return &Metadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      ComputeHash(content),
		Chars:     len([]rune(content)),
	}
}

// ComputeHash returns the SHA256 hex digest of content.
func ComputeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
