package ingestion

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Format identifies a resume file type.
type Format string

const (
	// FormatPDF is a PDF document
	FormatPDF Format = "pdf"
	// FormatDOCX is an Office Open XML word processing document
	FormatDOCX Format = "docx"
	// FormatText is plain UTF-8 text
	FormatText Format = "txt"
)

// FormatFromFilename infers the format from a file extension.
func FormatFromFilename(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".txt", ".text", ".md":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// ExtractResumeText returns the text content of an uploaded resume. PDF page texts are
// joined in page order. An unreadable document returns *ExtractionError; a document
// with no text returns an *ExtractionError wrapping ErrEmptyText.
func ExtractResumeText(filename string, data []byte) (string, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return "", &ExtractionError{Filename: filename, Format: "unknown", Message: "cannot read file type", Cause: err}
	}

	var text string
	switch format {
	case FormatPDF:
		text, err = extractPDFText(data)
	case FormatDOCX:
		text, err = extractDocxText(data)
	default:
		text = string(data)
	}
	if err != nil {
		return "", &ExtractionError{Filename: filename, Format: string(format), Message: "unreadable document", Cause: err}
	}

	text = CleanText(strings.ToValidUTF8(text, "\uFFFD"))
	if text == "" {
		return "", &ExtractionError{Filename: filename, Format: string(format), Message: "document is empty", Cause: ErrEmptyText}
	}
	return text, nil
}

func extractPDFText(data []byte) (text string, err error) {
	// The PDF parser panics on some malformed content streams
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}

var (
	docxLineBreak = regexp.MustCompile(`</w:p>|<w:br\s*/>`)
	docxTab       = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTag        = regexp.MustCompile(`<[^>]+>`)
)

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	// GetContent returns the raw document.xml body
	content := doc.Editable().GetContent()
	content = docxLineBreak.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, " ")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}
