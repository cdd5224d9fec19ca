package fetch

import (
	"context"
	"fmt"
	"log"
)

// Posting is the readable text of a job posting page.
type Posting struct {
	URL      string
	Platform Platform
	Text     string
	Rendered bool
}

// PostingOptions controls FetchPosting.
type PostingOptions struct {
	// Renderer, when set, is used if the plain HTTP text looks script-rendered.
	Renderer Renderer
	Verbose  bool
}

// FetchPosting downloads a job posting and extracts its description text using
// platform-specific selectors.
func (f *Fetcher) FetchPosting(ctx context.Context, rawURL string, opts PostingOptions) (*Posting, error) {
	platform := DetectPlatform(rawURL)
	if opts.Verbose {
		log.Printf("[VERBOSE] URL: %s (platform: %s)", rawURL, platform)
	}

	page, err := f.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	content := ContentSelectors(platform)
	noise := NoiseSelectors(platform)
	text, err := ExtractMainText(page.HTML, content, noise...)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "content extraction failed", Cause: err}
	}
	if opts.Verbose {
		log.Printf("[VERBOSE] Extracted text: %d chars", len(text))
	}

	posting := &Posting{URL: rawURL, Platform: platform, Text: text}
	if opts.Renderer == nil || !ShouldUseBrowser(text) {
		return posting, nil
	}

	if opts.Verbose {
		log.Printf("[VERBOSE] Content too short (%d chars < %d), falling back to browser rendering", len(text), MinContentLength)
	}
	html, err := opts.Renderer.Render(ctx, rawURL)
	if err != nil {
		log.Printf("[VERBOSE] Browser rendering failed, keeping HTTP content: %v", err)
		return posting, nil
	}
	rendered, err := ExtractMainText(html, content, noise...)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "content extraction failed", Cause: fmt.Errorf("rendered page: %w", err)}
	}
	if len(rendered) > len(text) {
		posting.Text = rendered
		posting.Rendered = true
	}
	return posting, nil
}
