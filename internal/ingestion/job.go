package ingestion

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/resume-tailor/internal/fetch"
)

// Job is an ingested job description.
type Job struct {
	Text     string    `json:"text"`
	Metadata *Metadata `json:"metadata"`
}

// IngestJobText cleans a job description supplied directly.
func IngestJobText(text string) (*Job, error) {
	cleaned := CleanText(text)
	if cleaned == "" {
		return nil, ErrEmptyText
	}
	return &Job{Text: cleaned, Metadata: NewMetadata(SourceInline, cleaned)}, nil
}

// IngestJobFromFile reads and cleans a job description from a text file.
func IngestJobFromFile(path string) (*Job, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("job description file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read job description file: %w", err)
	}

	cleaned := CleanText(string(content))
	if cleaned == "" {
		return nil, fmt.Errorf("job description file %s: %w", path, ErrEmptyText)
	}
	meta := NewMetadata(SourceFile, cleaned)
	meta.Path = path
	return &Job{Text: cleaned, Metadata: meta}, nil
}

// URLOptions controls IngestJobFromURL.
type URLOptions struct {
	// UseBrowser enables the headless browser fallback for script-rendered pages
	UseBrowser bool
	Verbose    bool
	// Renderer overrides the default headless Chrome renderer
	Renderer fetch.Renderer
}

// IngestJobFromURL fetches a job posting page and extracts its description.
func IngestJobFromURL(ctx context.Context, f *fetch.Fetcher, rawURL string, opts URLOptions) (*Job, error) {
	rawURL = strings.TrimSpace(rawURL)
	postingOpts := fetch.PostingOptions{Verbose: opts.Verbose}
	if opts.UseBrowser {
		postingOpts.Renderer = opts.Renderer
		if postingOpts.Renderer == nil {
			postingOpts.Renderer = &fetch.ChromeRenderer{Verbose: opts.Verbose}
		}
	}

	posting, err := f.FetchPosting(ctx, rawURL, postingOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job posting: %w", err)
	}

	cleaned := CleanText(posting.Text)
	if cleaned == "" {
		return nil, fmt.Errorf("job posting %s: %w", rawURL, ErrEmptyText)
	}
	meta := NewMetadata(SourceURL, cleaned)
	meta.URL = rawURL
	meta.Platform = string(posting.Platform)
	meta.Rendered = posting.Rendered
	return &Job{Text: cleaned, Metadata: meta}, nil
}
