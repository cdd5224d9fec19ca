package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/resume-tailor/internal/generator"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/keywords"
	"github.com/jonathan/resume-tailor/internal/session"
	"github.com/jonathan/resume-tailor/internal/types"
)

// CreateSessionRequest is the request body for POST /sessions
type CreateSessionRequest struct {
	Resume string `json:"resume"`
}

// SessionResponse describes a session
type SessionResponse struct {
	session.State
	ExpiresIn int `json:"expires_in_seconds"`
}

// AnalyzeRequest is the request body for POST /sessions/{id}/analyze.
// The job description is given inline or fetched from JobURL.
type AnalyzeRequest struct {
	JobTitle       string `json:"job_title"`
	JobDescription string `json:"job_description,omitempty"`
	JobURL         string `json:"job_url,omitempty"`
	UseBrowser     bool   `json:"use_browser,omitempty"`
}

// AnalyzeResponse is the analysis plus where the job description came from
type AnalyzeResponse struct {
	SessionID string `json:"session_id"`
	*keywords.Analysis
	Job *ingestion.Metadata `json:"job,omitempty"`
}

// GenerateRequest is the request body for POST /sessions/{id}/generate
type GenerateRequest struct {
	Personal  types.PersonalInfo `json:"personal"`
	Education types.Education    `json:"education"`
}

// GenerateResponse points at the generated document
type GenerateResponse struct {
	DocumentURL string   `json:"document_url"`
	Pages       int      `json:"pages,omitempty"`
	TeXOnly     bool     `json:"tex_only,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

func (s *Server) sessionResponse(sess *session.Session) SessionResponse {
	return SessionResponse{State: sess.Snapshot(), ExpiresIn: int(s.sessions.TTL().Seconds())}
}

// lookupSession resolves the {id} path value, writing 404 when it is unknown
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		s.handleError(w, r, session.ErrNotFound)
		return nil, false
	}
	return sess, true
}

// handleCreateSession starts a session on a stored resume
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	req.Resume = strings.TrimSpace(req.Resume)
	if req.Resume == "" {
		s.handleError(w, r, &ErrValidation{Field: "resume", Message: "is required"})
		return
	}

	rec, err := s.loadResume(r, req.Resume)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	sess := s.sessions.Create(rec.Name, rec.Text)
	if s.verbose {
		log.Printf("[session] created %s for resume %q", sess.ID(), rec.Name)
	}
	s.jsonResponse(w, http.StatusCreated, s.sessionResponse(sess))
}

// handleGetSession returns the session's current state
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionResponse(sess))
}

// handleDeleteSession ends a session and discards its generated document
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(r.PathValue("id")) {
		s.handleError(w, r, session.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAnalyze scores the session's resume against a job description
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req AnalyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	description := req.JobDescription
	var meta *ingestion.Metadata
	switch {
	case strings.TrimSpace(description) != "":
		meta = ingestion.NewMetadata(ingestion.SourceInline, description)
	case strings.TrimSpace(req.JobURL) != "":
		job, err := ingestion.IngestJobFromURL(r.Context(), s.fetcher, req.JobURL, ingestion.URLOptions{
			UseBrowser: s.useBrowser && req.UseBrowser,
			Verbose:    s.verbose,
		})
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		description = job.Text
		meta = job.Metadata
	}

	analysis, err := sess.Analyze(req.JobTitle, description)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.metrics.analyses.WithLabelValues(string(analysis.Status)).Inc()

	s.jsonResponse(w, http.StatusOK, AnalyzeResponse{SessionID: sess.ID(), Analysis: analysis, Job: meta})
}

// handleGenerate compiles a tailored resume from the session's last analysis
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	profile := &types.CandidateProfile{Personal: req.Personal, Education: req.Education}

	start := time.Now()
	doc, err := sess.Generate(r.Context(), s.generator, profile)
	s.metrics.generations.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.metrics.generationTime.Observe(time.Since(start).Seconds())

	s.jsonResponse(w, http.StatusCreated, GenerateResponse{
		DocumentURL: fmt.Sprintf("/sessions/%s/document", sess.ID()),
		Pages:       doc.Pages,
		TeXOnly:     doc.TeXOnly,
		Warnings:    doc.Warnings,
	})
}

// handleDocument downloads the session's generated resume
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	doc, err := sess.Document()
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	f, err := os.Open(doc.Path)
	if err != nil {
		s.handleError(w, r, fmt.Errorf("open generated document: %w", err))
		return
	}
	defer func() { _ = f.Close() }()

	name := generator.DocumentName
	contentType := "application/pdf"
	if doc.TeXOnly {
		name = filepath.Base(doc.Path)
		contentType = "application/x-tex"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, doc.CreatedAt, f)
}
