// Package resumes stores uploaded resumes together with their extracted text.
package resumes

import (
	"context"
	"strings"
	"time"
)

// DefaultExt is the extension used for the stored original when an upload names none.
const DefaultExt = ".pdf"

// Record is a stored resume.
type Record struct {
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	PDFPath   string    `json:"pdf_path"`
	CreatedAt time.Time `json:"created_at"`
}

// Upload is a resume to be saved.
type Upload struct {
	Name string
	// Data is the original document; Ext is its extension including the dot.
	Data      []byte
	Ext       string
	Text      string
	Overwrite bool
}

// StoredText returns Text as stores persist it. Invalid UTF-8 is replaced with
// U+FFFD so the text reads back exactly as it was saved.
func (u Upload) StoredText() string {
	return strings.ToValidUTF8(u.Text, "\uFFFD")
}

// Store persists resumes by name.
//
// Load reports found=false with a nil error when no resume has that name, so callers
// can tell a missing resume from an empty one. Save rejects an existing name with
// *ExistsError unless Upload.Overwrite is set. Document returns the original
// uploaded bytes, with found=false when no resume has that name.
type Store interface {
	List(ctx context.Context) ([]string, error)
	Load(ctx context.Context, name string) (rec *Record, found bool, err error)
	Save(ctx context.Context, upload Upload) (*Record, error)
	Document(ctx context.Context, name string) (data []byte, found bool, err error)
}
