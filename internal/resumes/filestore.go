package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/resume-tailor/internal/schemas"
)

// DefaultDir is the directory used when none is configured.
const DefaultDir = "resumes"

// sidecar is the on-disk {name}.json document.
type sidecar struct {
	PDFPath string `json:"pdf_path"`
	Text    string `json:"text"`
}

// FileStore keeps each resume as {name}.json plus the original document alongside it.
// Files are written to a temporary name and renamed into place, and saves are
// serialized per resume name.
type FileStore struct {
	dir   string
	locks keyedMutex
}

// NewFileStore creates a FileStore rooted at dir, creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create resume directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *FileStore) Dir() string { return s.dir }

// List returns the names of stored resumes in lexical order.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes in %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		if ValidateName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Load reads the resume called name.
func (s *FileStore) Load(_ context.Context, name string) (*Record, bool, error) {
	if err := ValidateName(name); err != nil {
		return nil, false, err
	}

	path := s.sidecarPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, &StorageError{Name: name, Message: "failed to read sidecar", Cause: err}
	}
	if err := schemas.Validate(schemas.ResumeRecord, data); err != nil {
		return nil, false, &StorageError{Name: name, Message: "invalid sidecar " + path, Cause: err}
	}

	var sc sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, false, &StorageError{Name: name, Message: "failed to parse sidecar", Cause: err}
	}

	rec := &Record{Name: name, Text: sc.Text, PDFPath: sc.PDFPath}
	if info, err := os.Stat(path); err == nil {
		rec.CreatedAt = info.ModTime().UTC()
	}
	return rec, true, nil
}

// Save stores an upload. The original document is written before the sidecar, so a
// resume only appears in List once both files are in place.
func (s *FileStore) Save(_ context.Context, upload Upload) (*Record, error) {
	if err := ValidateName(upload.Name); err != nil {
		return nil, err
	}
	name := upload.Name

	unlock := s.locks.Lock(name)
	defer unlock()

	sidecarPath := s.sidecarPath(name)
	if !upload.Overwrite {
		if _, err := os.Stat(sidecarPath); err == nil {
			return nil, &ExistsError{Name: name}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, &StorageError{Name: name, Message: "failed to check existing resume", Cause: err}
		}
	}

	docPath := filepath.Join(s.dir, name+NormalizeExt(upload.Ext))
	if err := writeFileAtomic(docPath, upload.Data); err != nil {
		return nil, &StorageError{Name: name, Message: "failed to write document", Cause: err}
	}

	text := upload.StoredText()
	data, err := json.MarshalIndent(sidecar{PDFPath: docPath, Text: text}, "", "    ")
	if err != nil {
		return nil, &StorageError{Name: name, Message: "failed to encode sidecar", Cause: err}
	}
	if err := writeFileAtomic(sidecarPath, data); err != nil {
		return nil, &StorageError{Name: name, Message: "failed to write sidecar", Cause: err}
	}

	rec := &Record{Name: name, Text: text, PDFPath: docPath}
	if info, err := os.Stat(sidecarPath); err == nil {
		rec.CreatedAt = info.ModTime().UTC()
	}
	return rec, nil
}

// Document reads the original upload recorded in the resume's sidecar.
func (s *FileStore) Document(ctx context.Context, name string) ([]byte, bool, error) {
	rec, found, err := s.Load(ctx, name)
	if err != nil || !found {
		return nil, found, err
	}
	data, err := os.ReadFile(rec.PDFPath)
	if err != nil {
		return nil, false, &StorageError{Name: name, Message: "failed to read document", Cause: err}
	}
	return data, true, nil
}

func (s *FileStore) sidecarPath(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// writeFileAtomic writes data to a temporary file in the target directory and renames
// it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
