// Package pipeline provides the high-level orchestration for one tailoring run:
// load the resume, ingest the job description, analyze, and optionally generate.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/generator"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/keywords"
	"github.com/jonathan/resume-tailor/internal/resumes"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Step names reported through ProgressEvent
const (
	StepLoadResume = "load_resume"
	StepIngestJob  = "ingest_job"
	StepAnalyze    = "analyze"
	StepGenerate   = "generate"
)

// ErrNoJobSource is returned when none of JobText, JobPath or JobURL is set
var ErrNoJobSource = errors.New("a job description is required: provide text, a file, or a URL")

// ResumeNotFoundError reports a resume name with no stored record
type ResumeNotFoundError struct {
	Name string
}

func (e *ResumeNotFoundError) Error() string {
	return fmt.Sprintf("resume %q not found", e.Name)
}

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs. It may be called from
// more than one goroutine.
type ProgressCallback func(event ProgressEvent)

// Deps are the collaborators a run uses
type Deps struct {
	Store     resumes.Store
	Analyzer  *keywords.Analyzer
	Fetcher   *fetch.Fetcher
	Generator *generator.Generator // required only when RunOptions.Profile is set
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	ResumeName string
	JobTitle   string

	// Exactly one job source is used, in this order of precedence
	JobText string
	JobPath string
	JobURL  string

	UseBrowser bool
	Verbose    bool

	// Profile triggers document generation when non-nil
	Profile *types.CandidateProfile

	OnProgress ProgressCallback
}

// Result holds everything a run produced
type Result struct {
	Resume   *resumes.Record     `json:"-"`
	Job      *ingestion.Job      `json:"job"`
	Analysis *keywords.Analysis  `json:"analysis"`
	Document *generator.Document `json:"document,omitempty"`
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}

// Run loads the resume and the job description concurrently, analyzes them and,
// when a profile is given, generates a tailored resume. A generation failure is
// returned together with the partial Result so the analysis is not lost.
func Run(ctx context.Context, deps Deps, opts RunOptions) (*Result, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("pipeline: resume store is required")
	}
	if deps.Analyzer == nil {
		deps.Analyzer = keywords.NewAnalyzer(nil)
	}
	if opts.JobText == "" && opts.JobPath == "" && opts.JobURL == "" {
		return nil, ErrNoJobSource
	}

	result := &Result{}
	var mu sync.Mutex // protects result assignments

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rec, found, err := deps.Store.Load(gCtx, opts.ResumeName)
		if err != nil {
			return fmt.Errorf("failed to load resume: %w", err)
		}
		if !found {
			return &ResumeNotFoundError{Name: opts.ResumeName}
		}
		mu.Lock()
		result.Resume = rec
		mu.Unlock()
		emitProgress(&opts, StepLoadResume, fmt.Sprintf("Loaded resume %s", rec.Name), nil)
		return nil
	})

	g.Go(func() error {
		job, err := ingestJob(gCtx, deps, opts)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Job = job
		mu.Unlock()
		emitProgress(&opts, StepIngestJob, fmt.Sprintf("Ingested job description (%d chars)", job.Metadata.Chars), job.Metadata)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysis, err := deps.Analyzer.Analyze(opts.JobTitle, result.Job.Text, result.Resume.Text)
	if err != nil {
		return nil, err
	}
	result.Analysis = analysis
	emitProgress(&opts, StepAnalyze,
		fmt.Sprintf("Matched %d of %d keywords (%d%%)", analysis.MatchedCount, analysis.TotalCount, analysis.OverallScore),
		analysis)

	if opts.Profile == nil {
		return result, nil
	}
	if deps.Generator == nil {
		return result, fmt.Errorf("pipeline: generator is required to produce a document")
	}

	high, low := analysis.Categorized.Tiers()
	doc, err := deps.Generator.Generate(ctx, generator.Request{
		Personal:        opts.Profile.Personal,
		Education:       opts.Profile.Education,
		JobTitle:        analysis.JobTitle,
		JobDescription:  result.Job.Text,
		TechnicalSkills: high,
		SoftSkills:      low,
	})
	if err != nil {
		return result, err
	}
	result.Document = doc
	emitProgress(&opts, StepGenerate, fmt.Sprintf("Generated %s", doc.Path), doc)
	return result, nil
}

func ingestJob(ctx context.Context, deps Deps, opts RunOptions) (*ingestion.Job, error) {
	switch {
	case opts.JobText != "":
		return ingestion.IngestJobText(opts.JobText)
	case opts.JobPath != "":
		return ingestion.IngestJobFromFile(opts.JobPath)
	default:
		fetcher := deps.Fetcher
		if fetcher == nil {
			fetcher = fetch.New(fetch.Options{})
		}
		if opts.Verbose {
			log.Printf("[VERBOSE] Fetching job posting from %s", opts.JobURL)
		}
		return ingestion.IngestJobFromURL(ctx, fetcher, opts.JobURL, ingestion.URLOptions{
			UseBrowser: opts.UseBrowser,
			Verbose:    opts.Verbose,
		})
	}
}
