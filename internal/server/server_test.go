package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/generator"
	"github.com/jonathan/resume-tailor/internal/resumes"
	"github.com/jonathan/resume-tailor/internal/server/ratelimit"
	"github.com/jonathan/resume-tailor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	scenarioJob    = "Looking for a Python developer with strong communication skills and AWS experience"
	scenarioResume = "Python developer with AWS skills"
)

var candidate = map[string]any{
	"personal": map[string]string{"name": "Jane Doe", "email": "jane@example.com"},
}

func newTestServer(t *testing.T, opts ...func(*Config)) *Server {
	t.Helper()
	store, err := resumes.NewFileStore(filepath.Join(t.TempDir(), "resumes"))
	require.NoError(t, err)

	cfg := Config{
		Store:     store,
		Generator: generator.New(generator.Options{OutputDir: t.TempDir(), TeXOnly: true}),
		RateLimit: &ratelimit.Config{Enabled: false},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func seedResume(t *testing.T, s *Server, name, text string) {
	t.Helper()
	_, err := s.store.Save(context.Background(), resumes.Upload{Name: name, Data: []byte(text), Ext: ".txt", Text: text})
	require.NoError(t, err)
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func upload(t *testing.T, s *Server, target, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createSession(t *testing.T, s *Server, resume string) string {
	t.Helper()
	w := do(t, s, http.MethodPost, "/sessions", map[string]string{"resume": resume})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id, _ := decode(t, w)["session_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func analyze(t *testing.T, s *Server, id string) {
	t.Helper()
	w := do(t, s, http.MethodPost, "/sessions/"+id+"/analyze", map[string]string{
		"job_title":       "Backend Engineer",
		"job_description": scenarioJob,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["can_compile"])
}

type pingStore struct {
	*resumes.FileStore
	err error
}

func (p pingStore) Ping(context.Context) error { return p.err }

func TestHealthEndpoint_PingsDatabase(t *testing.T) {
	withPing := func(err error) func(*Config) {
		return func(cfg *Config) {
			cfg.Store = pingStore{FileStore: cfg.Store.(*resumes.FileStore), err: err}
		}
	}

	s := newTestServer(t, withPing(nil))
	w := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["database"])

	s = newTestServer(t, withPing(errors.New("connection refused")))
	w = do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode(t, w)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "unreachable", body["database"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodGet, "/health", nil)

	w := do(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "resume_tailor_http_request_duration_seconds")
	assert.Contains(t, w.Body.String(), `route="GET /health"`)
	assert.Contains(t, w.Body.String(), "resume_tailor_active_sessions 0")
}

func TestUploadResume(t *testing.T) {
	s := newTestServer(t)

	w := upload(t, s, "/resumes", "jane.txt", []byte(scenarioResume), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "jane", body["name"])
	assert.Equal(t, float64(len(scenarioResume)), body["chars"])

	w = do(t, s, http.MethodGet, "/resumes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"jane"}, decode(t, w)["resumes"])

	w = do(t, s, http.MethodGet, "/resumes/jane", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, scenarioResume, decode(t, w)["text"])
}

func TestUploadResume_NameCollision(t *testing.T) {
	s := newTestServer(t)

	w := upload(t, s, "/resumes", "jane.txt", []byte(scenarioResume), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = upload(t, s, "/resumes", "jane.txt", []byte("Go developer"), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = upload(t, s, "/resumes?overwrite=true", "jane.txt", []byte("Go developer"), nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(t, s, http.MethodGet, "/resumes/jane", nil)
	assert.Equal(t, "Go developer", decode(t, w)["text"])
}

func TestUploadResume_NameOverride(t *testing.T) {
	s := newTestServer(t)

	w := upload(t, s, "/resumes", "cv.pdf", testutil.MinimalPDF("Python developer"), map[string]string{"name": "backend"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "backend", decode(t, w)["name"])
}

func TestUploadResume_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		filename string
		content  []byte
		fields   map[string]string
		want     int
	}{
		{"missing file", "", nil, nil, http.StatusBadRequest},
		{"unsupported format", "cv.exe", []byte("MZ"), nil, http.StatusUnsupportedMediaType},
		{"empty document", "cv.txt", []byte("   \n "), nil, http.StatusUnprocessableEntity},
		{"unreadable pdf", "cv.pdf", []byte("not a pdf"), nil, http.StatusUnprocessableEntity},
		{"bad name", "cv.txt", []byte("text"), map[string]string{"name": "../etc"}, http.StatusBadRequest},
		{"bad overwrite flag", "cv.txt", []byte("text"), map[string]string{"overwrite": "maybe"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := upload(t, s, "/resumes", tt.filename, tt.content, tt.fields)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.NotEmpty(t, decode(t, w)["error"])
		})
	}

	w := do(t, s, http.MethodGet, "/resumes", nil)
	assert.Equal(t, float64(0), decode(t, w)["count"])
}

func TestUploadResume_TooLarge(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.MaxUploadBytes = 64 })

	w := upload(t, s, "/resumes", "cv.txt", bytes.Repeat([]byte("x"), 1024), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestGetResume_NotFound(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/resumes/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "resume not found: missing", decode(t, w)["error"])
}

func TestGetResume_CorruptSidecar(t *testing.T) {
	s := newTestServer(t)
	dir := s.store.(*resumes.FileStore).Dir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"text": 5}`), 0644))

	w := do(t, s, http.MethodGet, "/resumes/broken", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode(t, w)["error"])
	assert.NotContains(t, w.Body.String(), dir)

	w = do(t, s, http.MethodPost, "/sessions", map[string]string{"resume": "broken"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestResumeDocument(t *testing.T) {
	s := newTestServer(t)
	w := upload(t, s, "/resumes", "jane.txt", []byte(scenarioResume), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, s, http.MethodGet, "/resumes/jane/document", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, scenarioResume, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, `attachment; filename="jane.txt"`, w.Header().Get("Content-Disposition"))

	w = do(t, s, http.MethodGet, "/resumes/missing/document", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t)
	seedResume(t, s, "jane", scenarioResume)

	id := createSession(t, s, "jane")

	w := do(t, s, http.MethodPost, "/sessions/"+id+"/analyze", map[string]string{
		"job_title":       "Backend Engineer",
		"job_description": scenarioJob,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	analysis := decode(t, w)
	assert.Equal(t, float64(80), analysis["overall_score"])
	assert.Equal(t, float64(100), analysis["technical_score"])
	assert.Equal(t, "Excellent", analysis["status"])
	assert.Equal(t, id, analysis["session_id"])

	w = do(t, s, http.MethodPost, "/sessions/"+id+"/generate", candidate)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/sessions/"+id+"/document", decode(t, w)["document_url"])

	w = do(t, s, http.MethodGet, "/sessions/"+id+"/document", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), generator.TeXName)
	assert.Contains(t, w.Body.String(), "Jane Doe")
	assert.Contains(t, w.Body.String(), "Python")

	w = do(t, s, http.MethodGet, "/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode(t, w)
	assert.Equal(t, "jane", state["resume"])
	assert.NotNil(t, state["analysis"])
	assert.NotNil(t, state["document"])

	w = do(t, s, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodGet, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, s, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSession_Errors(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/sessions", map[string]string{"resume": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodPost, "/sessions", map[string]string{"resume": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_MissingInput(t *testing.T) {
	s := newTestServer(t)
	seedResume(t, s, "jane", scenarioResume)
	id := createSession(t, s, "jane")

	w := do(t, s, http.MethodPost, "/sessions/"+id+"/analyze", map[string]string{"job_description": scenarioJob})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/sessions/"+id+"/analyze", map[string]string{"job_title": "Backend Engineer"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/sessions/unknown/analyze", map[string]string{"job_title": "x", "job_description": "y"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyze_JobURL(t *testing.T) {
	posting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><main><p>" + scenarioJob + "</p></main></body></html>"))
	}))
	defer posting.Close()

	s := newTestServer(t, func(c *Config) { c.Fetcher = fetch.New(fetch.Options{HTTPClient: posting.Client()}) })
	seedResume(t, s, "jane", scenarioResume)
	id := createSession(t, s, "jane")

	w := do(t, s, http.MethodPost, "/sessions/"+id+"/analyze", map[string]string{
		"job_title": "Backend Engineer",
		"job_url":   posting.URL,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, float64(80), body["overall_score"])
	job, ok := body["job"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, posting.URL, job["url"])
}

func TestAnalyze_JobURLFailure(t *testing.T) {
	posting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer posting.Close()

	s := newTestServer(t, func(c *Config) { c.Fetcher = fetch.New(fetch.Options{HTTPClient: posting.Client()}) })
	seedResume(t, s, "jane", scenarioResume)
	id := createSession(t, s, "jane")

	w := do(t, s, http.MethodPost, "/sessions/"+id+"/analyze", map[string]string{
		"job_title": "Backend Engineer",
		"job_url":   posting.URL,
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "failed to fetch job posting", decode(t, w)["error"])
}

func TestGenerate_RequiresAnalysis(t *testing.T) {
	s := newTestServer(t)
	seedResume(t, s, "jane", scenarioResume)
	id := createSession(t, s, "jane")

	w := do(t, s, http.MethodPost, "/sessions/"+id+"/generate", candidate)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/sessions/"+id+"/document", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerate_InvalidProfileKeepsAnalysis(t *testing.T) {
	s := newTestServer(t)
	seedResume(t, s, "jane", scenarioResume)
	id := createSession(t, s, "jane")
	analyze(t, s, id)

	w := do(t, s, http.MethodPost, "/sessions/"+id+"/generate", map[string]any{
		"personal": map[string]string{"name": "Jane Doe", "email": "not-an-email"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/sessions/"+id, nil)
	assert.NotNil(t, decode(t, w)["analysis"])
}

func TestGenerate_CompileFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script engines are not supported on windows")
	}
	engine := filepath.Join(t.TempDir(), "broken-latex")
	require.NoError(t, os.WriteFile(engine, []byte("#!/bin/sh\nexit 1\n"), 0755))

	s := newTestServer(t, func(c *Config) {
		c.Generator = generator.New(generator.Options{OutputDir: t.TempDir(), Command: engine})
	})
	seedResume(t, s, "jane", scenarioResume)
	id := createSession(t, s, "jane")
	analyze(t, s, id)

	w := do(t, s, http.MethodPost, "/sessions/"+id+"/generate", candidate)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "document generation failed", decode(t, w)["error"])

	w = do(t, s, http.MethodGet, "/sessions/"+id, nil)
	state := decode(t, w)
	assert.NotNil(t, state["analysis"])
	assert.Nil(t, state["document"])
}

func TestGenerate_ServesPDF(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script engines are not supported on windows")
	}
	dir := t.TempDir()
	fixture := filepath.Join(dir, "fixture.pdf")
	require.NoError(t, os.WriteFile(fixture, testutil.MinimalPDF("Jane Doe"), 0644))
	engine := filepath.Join(dir, "fake-latex")
	script := "#!/bin/sh\nfor last; do :; done\ncp \"" + fixture + "\" \"$(dirname \"$last\")/$(basename \"$last\" .tex).pdf\"\n"
	require.NoError(t, os.WriteFile(engine, []byte(script), 0755))

	s := newTestServer(t, func(c *Config) {
		c.Generator = generator.New(generator.Options{OutputDir: t.TempDir(), Command: engine})
	})
	seedResume(t, s, "jane", scenarioResume)
	id := createSession(t, s, "jane")
	analyze(t, s, id)

	w := do(t, s, http.MethodPost, "/sessions/"+id+"/generate", candidate)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(1), decode(t, w)["pages"])

	w = do(t, s, http.MethodGet, "/sessions/"+id+"/document", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="tailored_resume.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestRateLimit_Generate(t *testing.T) {
	s := newTestServer(t, func(c *Config) {
		c.RateLimit = &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  1000,
			DefaultWindow: time.Minute,
			EndpointConfigs: []ratelimit.EndpointConfig{
				{Path: ratelimit.GeneratePath, Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
			},
		}
	})

	w := do(t, s, http.MethodPost, "/sessions/a/generate", candidate)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do(t, s, http.MethodPost, "/sessions/b/generate", candidate)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode(t, w)["error"])

	w = do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.AllowedOrigins = []string{"https://app.example"} })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/sessions", nil)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestCORSMiddleware_AnyOrigin(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestExtractClientID(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	assert.Equal(t, "203.0.113.7", s.extractClientID(req))

	req.RemoteAddr = "not-an-address"
	assert.Equal(t, "not-an-address", s.extractClientID(req))
}
