package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonathan/resume-tailor/internal/resumes"
)

// ResumeResponse describes a stored resume
type ResumeResponse struct {
	Name      string    `json:"name"`
	Chars     int       `json:"chars"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListResumesResponse is the response for GET /resumes
type ListResumesResponse struct {
	Resumes []string `json:"resumes"`
	Count   int      `json:"count"`
}

// handleListResumes lists stored resume names
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.jsonResponse(w, http.StatusOK, ListResumesResponse{Resumes: names, Count: len(names)})
}

// handleUploadResume stores an uploaded PDF, DOCX or text resume. The multipart
// field "file" carries the document; "name" overrides the name derived from the
// file name and "overwrite" (form field or query parameter) replaces an existing
// resume.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUploadBytes {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		s.handleError(w, r, &ErrValidation{Field: "file", Message: "expected a multipart form upload"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.handleError(w, r, &ErrValidation{Field: "file", Message: "is required"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	overwrite, err := parseOverwrite(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	rec, err := s.importer.Import(r.Context(), resumes.ImportRequest{
		Filename:  header.Filename,
		Data:      data,
		Name:      r.FormValue("name"),
		Overwrite: overwrite,
	})
	s.metrics.uploads.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, ResumeResponse{
		Name:      rec.Name,
		Chars:     len(rec.Text),
		CreatedAt: rec.CreatedAt,
	})
}

func parseOverwrite(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("overwrite")
	if raw == "" {
		raw = r.PostFormValue("overwrite")
	}
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &ErrValidation{Field: "overwrite", Message: "must be true or false"}
	}
	return v, nil
}

// handleGetResume returns a stored resume with its extracted text
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	rec, err := s.loadResume(r, r.PathValue("name"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ResumeResponse{
		Name:      rec.Name,
		Chars:     len(rec.Text),
		Text:      rec.Text,
		CreatedAt: rec.CreatedAt,
	})
}

// handleResumeDocument downloads the originally uploaded file of a resume
func (s *Server) handleResumeDocument(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	rec, err := s.loadResume(r, name)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	data, found, err := s.store.Document(r.Context(), name)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if !found {
		s.handleError(w, r, &ErrResumeNotFound{Name: name})
		return
	}

	ext := resumes.NormalizeExt(filepath.Ext(rec.PDFPath))
	if ctype := mime.TypeByExtension(ext); ctype != "" {
		w.Header().Set("Content-Type", ctype)
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+ext))
	http.ServeContent(w, r, name+ext, rec.CreatedAt, bytes.NewReader(data))
}

func (s *Server) loadResume(r *http.Request, name string) (*resumes.Record, error) {
	if err := resumes.ValidateName(name); err != nil {
		return nil, err
	}
	rec, found, err := s.store.Load(r.Context(), name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &ErrResumeNotFound{Name: name}
	}
	return rec, nil
}
