// Package generator turns categorized keywords and a candidate profile into a
// tailored resume PDF.
package generator

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/resume-tailor/internal/keywords"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/jonathan/resume-tailor/internal/validation"
)

const (
	// DocumentName is the file name of every generated resume
	DocumentName = "tailored_resume.pdf"
	// TeXName is the file name of the rendered LaTeX source
	TeXName = "tailored_resume.tex"

	// DefaultMaxConcurrent bounds simultaneous LaTeX compilations
	DefaultMaxConcurrent = 2
	// DefaultTimeout bounds a single compilation
	DefaultTimeout = 60 * time.Second
)

// Request is everything needed to produce one tailored resume
type Request struct {
	Personal        types.PersonalInfo
	Education       types.Education
	JobTitle        string `validate:"required"`
	JobDescription  string
	TechnicalSkills []string
	SoftSkills      []string
}

// Document describes a generated resume on disk
type Document struct {
	ID        string    `json:"id"`
	Dir       string    `json:"-"`
	Path      string    `json:"path"`
	TeXPath   string    `json:"tex_path"`
	Pages     int       `json:"pages,omitempty"`
	TeXOnly   bool      `json:"tex_only,omitempty"`
	Warnings  []string  `json:"warnings,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Options configures a Generator
type Options struct {
	TemplatePath  string // empty selects the built-in template
	OutputDir     string // parent of the per-request work directories
	Timeout       time.Duration
	MaxConcurrent int64
	TeXOnly       bool
	Command       string // LaTeX engine, defaults to pdflatex
	// Lexicon orders skills by where the job description mentions them; nil
	// selects keywords.DefaultLexicon()
	Lexicon *keywords.Lexicon
	Verbose bool
}

// Generator renders and compiles tailored resumes. It is safe for concurrent use.
type Generator struct {
	opts      Options
	extractor *keywords.Extractor
	compiler  validation.Compiler
	sem      *semaphore.Weighted
	validate *validator.Validate
}

// New creates a Generator, filling unset options with defaults
func New(opts Options) *Generator {
	if opts.OutputDir == "" {
		opts.OutputDir = filepath.Join(os.TempDir(), "resume-tailor")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	return &Generator{
		opts:      opts,
		extractor: keywords.NewExtractor(opts.Lexicon),
		compiler:  validation.Compiler{Command: opts.Command, Timeout: opts.Timeout},
		sem:       semaphore.NewWeighted(opts.MaxConcurrent),
		validate:  validator.New(),
	}
}

// CanCompile reports whether PDFs can be produced in this environment
func (g *Generator) CanCompile() bool {
	return g.opts.TeXOnly || g.compiler.Available()
}

// Validate checks a request without generating anything
func (g *Generator) Validate(req Request) error {
	if err := g.validate.Struct(req); err != nil {
		return &RequestError{Message: "missing or malformed fields", Cause: err}
	}
	if len(req.TechnicalSkills)+len(req.SoftSkills) == 0 {
		return &RequestError{Message: "analyze a job description first", Cause: ErrNoKeywords}
	}
	return nil
}

// Generate renders the request into LaTeX and compiles it into DocumentName inside
// a fresh work directory. Any failure is returned as *Error or *RequestError and
// removes the work directory; no partially written document is reported as success.
func (g *Generator) Generate(ctx context.Context, req Request) (doc *Document, err error) {
	if err := g.Validate(req); err != nil {
		return nil, err
	}

	mentions := g.extractor.FirstMentions(req.JobDescription)
	latex, renderErr := rendering.RenderLaTeX(rendering.Input{
		Personal:        req.Personal,
		Education:       req.Education,
		JobTitle:        req.JobTitle,
		TechnicalSkills: orderByMention(req.TechnicalSkills, mentions),
		SoftSkills:      orderByMention(req.SoftSkills, mentions),
	}, g.opts.TemplatePath)
	if renderErr != nil {
		return nil, &Error{Stage: StageRender, Message: "failed to render LaTeX", Cause: renderErr}
	}

	id := uuid.New().String()
	dir := filepath.Join(g.opts.OutputDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &Error{Stage: StageWrite, Message: "failed to create work directory", Cause: err}
	}
	defer func() {
		if err != nil {
			if rmErr := os.RemoveAll(dir); rmErr != nil {
				log.Printf("[generator] failed to remove work directory %s: %v", dir, rmErr)
			}
		}
	}()

	texPath := filepath.Join(dir, TeXName)
	if err := os.WriteFile(texPath, []byte(latex), 0644); err != nil {
		return nil, &Error{Stage: StageWrite, Message: "failed to write LaTeX source", Cause: err}
	}

	doc = &Document{
		ID:        id,
		Dir:       dir,
		TeXPath:   texPath,
		CreatedAt: time.Now().UTC(),
	}
	if g.opts.TeXOnly {
		doc.Path = texPath
		doc.TeXOnly = true
		g.logf("wrote %s (compilation skipped)", texPath)
		return doc, nil
	}

	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, &Error{Stage: StageCompile, Message: "gave up waiting for a compile slot", Cause: err}
	}
	defer g.sem.Release(1)

	start := time.Now()
	pdfPath, logOutput, compileErr := g.compiler.Compile(ctx, texPath, dir)
	if compileErr != nil {
		var compErr *validation.CompilationError
		if !errors.As(compileErr, &compErr) || !compErr.Partial {
			g.logf("compilation failed for %s: %v", id, compileErr)
			if g.opts.Verbose && logOutput != "" {
				log.Printf("[VERBOSE] pdflatex output:\n%s", logOutput)
			}
			return nil, &Error{Stage: StageCompile, Message: "LaTeX compilation failed", Cause: compileErr}
		}
		doc.Warnings = append(doc.Warnings, compErr.Message)
	}
	validation.CleanupCompilationArtifacts(texPath)
	g.logf("compiled %s in %s", id, time.Since(start).Round(time.Millisecond))

	pages, countErr := validation.CountPDFPages(pdfPath)
	if countErr != nil {
		return nil, &Error{Stage: StageInspect, Message: "generated PDF is unreadable", Cause: countErr}
	}
	doc.Path = pdfPath
	doc.Pages = pages
	if pages > 1 {
		doc.Warnings = append(doc.Warnings, fmt.Sprintf("document spans %d pages", pages))
	}
	return doc, nil
}

// orderByMention sorts skills by their first mention in the job description so the
// summary leads with what the posting leads with. Unmentioned skills keep their
// order at the end.
func orderByMention(skills []string, mentions map[keywords.Keyword]int) []string {
	position := func(s string) int {
		if at, ok := mentions[keywords.Keyword(s)]; ok {
			return at
		}
		return math.MaxInt
	}
	out := slices.Clone(skills)
	slices.SortStableFunc(out, func(a, b string) int {
		return cmp.Compare(position(a), position(b))
	})
	return out
}

func (g *Generator) logf(format string, args ...any) {
	if g.opts.Verbose {
		log.Printf("[generator] "+format, args...)
	}
}
