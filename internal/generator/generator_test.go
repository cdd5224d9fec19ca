package generator

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/resume-tailor/internal/keywords"
	"github.com/jonathan/resume-tailor/internal/testutil"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() Request {
	return Request{
		Personal:        types.PersonalInfo{Name: "Jane Doe", Email: "jane@example.com"},
		Education:       types.Education{Institute: "TU Berlin", Degree: "B.Sc."},
		JobTitle:        "Backend Engineer",
		JobDescription:  "We need Python and AWS.",
		TechnicalSkills: []string{"aws", "python"},
		SoftSkills:      []string{"communication"},
	}
}

// fakeEngine returns a script that copies a fixed PDF next to the .tex it is given
func fakeEngine(t *testing.T, pdf []byte, extra string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script engines are not supported on windows")
	}
	dir := t.TempDir()
	fixture := filepath.Join(dir, "fixture.pdf")
	require.NoError(t, os.WriteFile(fixture, pdf, 0644))

	script := strings.Join([]string{
		"#!/bin/sh",
		`for last; do :; done`,
		`cp "` + fixture + `" "$(dirname "$last")/$(basename "$last" .tex).pdf"`,
		extra,
	}, "\n")
	path := filepath.Join(dir, "fake-latex")
	require.NoError(t, os.WriteFile(path, []byte(script+"\n"), 0755))
	return path
}

func TestValidate(t *testing.T) {
	g := New(Options{OutputDir: t.TempDir(), TeXOnly: true})

	tests := []struct {
		name    string
		mutate  func(r *Request)
		valid   bool
		wantErr error
	}{
		{"valid", func(r *Request) {}, true, nil},
		{"soft skills only", func(r *Request) { r.TechnicalSkills = nil }, true, nil},
		{"missing name", func(r *Request) { r.Personal.Name = "" }, false, nil},
		{"bad email", func(r *Request) { r.Personal.Email = "nope" }, false, nil},
		{"missing title", func(r *Request) { r.JobTitle = "" }, false, nil},
		{"no keywords", func(r *Request) { r.TechnicalSkills, r.SoftSkills = nil, nil }, false, ErrNoKeywords},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := g.Validate(req)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			}
		})
	}
}

func TestGenerate_TeXOnly(t *testing.T) {
	out := t.TempDir()
	g := New(Options{OutputDir: out, TeXOnly: true})

	doc, err := g.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, doc.TeXOnly)
	assert.Equal(t, doc.TeXPath, doc.Path)
	assert.Equal(t, filepath.Join(out, doc.ID, TeXName), doc.TeXPath)

	content, err := os.ReadFile(doc.TeXPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Jane Doe")
	assert.Contains(t, string(content), "Python, AWS", "skills follow the order of the job description")
}

func TestOrderByMention(t *testing.T) {
	mentions := keywords.NewExtractor(nil).FirstMentions("Kubernetes first, then Golang services; Python a plus")

	assert.Equal(t,
		[]string{"kubernetes", "go", "python", "aws", "rust"},
		orderByMention([]string{"aws", "python", "go", "rust", "kubernetes"}, mentions))
	assert.Empty(t, orderByMention(nil, mentions))
	assert.Equal(t, []string{"b", "a"}, orderByMention([]string{"b", "a"}, nil))
}

func TestGenerate_UniqueWorkDirs(t *testing.T) {
	g := New(Options{OutputDir: t.TempDir(), TeXOnly: true})

	first, err := g.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEqual(t, first.Dir, second.Dir)
}

func TestGenerate_InvalidRequestWritesNothing(t *testing.T) {
	out := t.TempDir()
	g := New(Options{OutputDir: out, TeXOnly: true})

	req := validRequest()
	req.Personal.Email = ""
	_, err := g.Generate(context.Background(), req)
	require.Error(t, err)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_TemplateFailure(t *testing.T) {
	g := New(Options{OutputDir: t.TempDir(), TemplatePath: "/nonexistent/template.tex", TeXOnly: true})

	_, err := g.Generate(context.Background(), validRequest())
	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, StageRender, genErr.Stage)
}

func TestGenerate_CompilesWithEngine(t *testing.T) {
	engine := fakeEngine(t, testutil.MinimalPDF("Jane Doe"), "")
	g := New(Options{OutputDir: t.TempDir(), Command: engine})
	assert.True(t, g.CanCompile())

	doc, err := g.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, DocumentName, filepath.Base(doc.Path))
	assert.Equal(t, 1, doc.Pages)
	assert.Empty(t, doc.Warnings)
	assert.FileExists(t, doc.Path)
}

func TestGenerate_MultiPageWarning(t *testing.T) {
	engine := fakeEngine(t, testutil.MinimalPDF("one", "two"), "")
	g := New(Options{OutputDir: t.TempDir(), Command: engine})

	doc, err := g.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Pages)
	assert.Contains(t, doc.Warnings, "document spans 2 pages")
}

func TestGenerate_PartialCompileKeepsDocument(t *testing.T) {
	engine := fakeEngine(t, testutil.MinimalPDF("Jane Doe"), "exit 1")
	g := New(Options{OutputDir: t.TempDir(), Command: engine})

	doc, err := g.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Warnings)
}

func TestGenerate_EngineFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script engines are not supported on windows")
	}
	engine := filepath.Join(t.TempDir(), "broken-latex")
	require.NoError(t, os.WriteFile(engine, []byte("#!/bin/sh\nexit 1\n"), 0755))
	g := New(Options{OutputDir: t.TempDir(), Command: engine})

	doc, err := g.Generate(context.Background(), validRequest())
	assert.Nil(t, doc)
	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, StageCompile, genErr.Stage)
}

func TestGenerate_FailureRemovesWorkDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script engines are not supported on windows")
	}
	engine := filepath.Join(t.TempDir(), "broken-latex")
	require.NoError(t, os.WriteFile(engine, []byte("#!/bin/sh\nexit 1\n"), 0755))
	out := t.TempDir()
	g := New(Options{OutputDir: out, Command: engine})

	for i := 0; i < 3; i++ {
		_, err := g.Generate(context.Background(), validRequest())
		require.Error(t, err)
	}

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed generations must not leave work directories behind")
}

func TestGenerate_UnreadablePDFRemovesWorkDir(t *testing.T) {
	engine := fakeEngine(t, []byte("not a pdf"), "")
	out := t.TempDir()
	g := New(Options{OutputDir: out, Command: engine})

	_, err := g.Generate(context.Background(), validRequest())
	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, StageInspect, genErr.Stage)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_EngineMissing(t *testing.T) {
	g := New(Options{OutputDir: t.TempDir(), Command: "definitely-not-a-latex-engine"})
	assert.False(t, g.CanCompile())

	_, err := g.Generate(context.Background(), validRequest())
	var genErr *Error
	assert.ErrorAs(t, err, &genErr)
}

func TestGenerate_WaitsForCompileSlot(t *testing.T) {
	engine := fakeEngine(t, testutil.MinimalPDF("x"), "")
	g := New(Options{OutputDir: t.TempDir(), Command: engine, MaxConcurrent: 1})

	require.NoError(t, g.sem.Acquire(context.Background(), 1))
	defer g.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := g.Generate(ctx, validRequest())
	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestGenerate_RealPdflatex(t *testing.T) {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		t.Skip("pdflatex not available, skipping compilation test")
	}
	g := New(Options{OutputDir: t.TempDir()})

	req := validRequest()
	req.Personal.Name = "Jane & Co 100% {real}"
	doc, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Pages)
	assert.NoFileExists(t, filepath.Join(doc.Dir, "tailored_resume.aux"))
}

func TestNew_Defaults(t *testing.T) {
	g := New(Options{})
	assert.Equal(t, DefaultTimeout, g.opts.Timeout)
	assert.Equal(t, int64(DefaultMaxConcurrent), g.opts.MaxConcurrent)
	assert.NotEmpty(t, g.opts.OutputDir)
	assert.NotNil(t, g.extractor)
}
