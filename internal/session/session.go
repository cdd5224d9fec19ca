// Package session keeps the state of one resume/job analysis across requests.
package session

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonathan/resume-tailor/internal/generator"
	"github.com/jonathan/resume-tailor/internal/keywords"
	"github.com/jonathan/resume-tailor/internal/types"
)

var (
	// ErrNotAnalyzed is returned when generation is requested before any analysis
	ErrNotAnalyzed = errors.New("analyze a job description before generating a resume")
	// ErrNotFound is returned for unknown or expired session IDs
	ErrNotFound = errors.New("session not found")
	// ErrNoDocument is returned when no resume has been generated in the session yet
	ErrNoDocument = errors.New("no tailored resume has been generated")
)

// State is a point-in-time copy of a session, safe to serialize
type State struct {
	ID             string              `json:"session_id"`
	ResumeName     string              `json:"resume"`
	JobTitle       string              `json:"job_title,omitempty"`
	JobDescription string              `json:"-"`
	Analysis       *keywords.Analysis  `json:"analysis,omitempty"`
	Document       *generator.Document `json:"document,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	LastUsed       time.Time           `json:"last_used"`
}

// Session holds one interaction: the selected resume, the last analysis and the
// last generated document. Operations on a session are serialized.
type Session struct {
	id        string
	analyzer  *keywords.Analyzer
	now       func() time.Time
	createdAt time.Time
	lastUsed  atomic.Int64 // unix nanoseconds

	mu             sync.Mutex
	resumeName     string
	resumeText     string
	jobTitle       string
	jobDescription string
	analysis       *keywords.Analysis
	document       *generator.Document
}

func newSession(id string, analyzer *keywords.Analyzer, resumeName, resumeText string, now func() time.Time) *Session {
	s := &Session{
		id:         id,
		analyzer:   analyzer,
		now:        now,
		createdAt:  now(),
		resumeName: resumeName,
		resumeText: resumeText,
	}
	s.touch()
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

func (s *Session) touch() {
	s.lastUsed.Store(s.now().UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

// SelectResume switches the session to another resume. Results computed for the
// previous resume are discarded.
func (s *Session) SelectResume(name, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if name == s.resumeName && text == s.resumeText {
		return
	}
	s.resumeName = name
	s.resumeText = text
	s.analysis = nil
	s.removeDocument()
}

// Analyze scores the session's resume against a job. On error the previous
// analysis is kept.
func (s *Session) Analyze(title, description string) (*keywords.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	analysis, err := s.analyzer.Analyze(title, description, s.resumeText)
	if err != nil {
		return nil, err
	}
	s.jobTitle = analysis.JobTitle
	s.jobDescription = description
	s.analysis = analysis
	return analysis, nil
}

// Generate produces a tailored resume from the last analysis. A failed generation
// leaves the analysis and any earlier document in place.
func (s *Session) Generate(ctx context.Context, gen *generator.Generator, profile *types.CandidateProfile) (*generator.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	defer s.touch()

	if s.analysis == nil {
		return nil, ErrNotAnalyzed
	}
	if profile == nil {
		return nil, &generator.RequestError{Message: "candidate profile is required"}
	}

	high, low := s.analysis.Categorized.Tiers()
	doc, err := gen.Generate(ctx, generator.Request{
		Personal:        profile.Personal,
		Education:       profile.Education,
		JobTitle:        s.jobTitle,
		JobDescription:  s.jobDescription,
		TechnicalSkills: high,
		SoftSkills:      low,
	})
	if err != nil {
		return nil, err
	}

	s.removeDocument()
	s.document = doc
	return doc, nil
}

// Document returns the last generated document
func (s *Session) Document() (*generator.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.document == nil {
		return nil, ErrNoDocument
	}
	doc := *s.document
	return &doc, nil
}

// Snapshot returns a copy of the session state
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		ID:             s.id,
		ResumeName:     s.resumeName,
		JobTitle:       s.jobTitle,
		JobDescription: s.jobDescription,
		Analysis:       s.analysis,
		CreatedAt:      s.createdAt,
		LastUsed:       s.idleSince(),
	}
	if s.document != nil {
		doc := *s.document
		st.Document = &doc
	}
	return st
}

// close releases files owned by the session
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeDocument()
	s.analysis = nil
}

// removeDocument deletes the work directory of the current document. Callers hold s.mu.
func (s *Session) removeDocument() {
	if s.document == nil {
		return
	}
	if s.document.Dir != "" {
		if err := os.RemoveAll(s.document.Dir); err != nil {
			log.Printf("[session] failed to remove %s: %v", s.document.Dir, err)
		}
	}
	s.document = nil
}
