package resumes

import (
	"context"
	"log"
	"path/filepath"

	"github.com/jonathan/resume-tailor/internal/ingestion"
)

// Importer turns uploaded documents into stored resumes.
type Importer struct {
	Store   Store
	Verbose bool
}

// ImportRequest describes one uploaded document.
type ImportRequest struct {
	Filename string
	Data     []byte
	// Name overrides the name derived from Filename
	Name      string
	Overwrite bool
}

// Import extracts the document's text and saves it. Extraction failures abort the
// upload before anything is written.
func (im *Importer) Import(ctx context.Context, req ImportRequest) (*Record, error) {
	name := req.Name
	if name == "" {
		derived, err := NameFromFilename(req.Filename)
		if err != nil {
			return nil, err
		}
		name = derived
	} else if err := ValidateName(name); err != nil {
		return nil, err
	}

	text, err := ingestion.ExtractResumeText(req.Filename, req.Data)
	if err != nil {
		return nil, err
	}
	if im.Verbose {
		log.Printf("[VERBOSE] Extracted %d chars from %s", len(text), req.Filename)
	}

	return im.Store.Save(ctx, Upload{
		Name:      name,
		Data:      req.Data,
		Ext:       filepath.Ext(req.Filename),
		Text:      text,
		Overwrite: req.Overwrite,
	})
}
