// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultResumeDir is where uploaded resumes are stored when no database is configured
	DefaultResumeDir = "resumes"
	// DefaultPort is the HTTP port used by serve
	DefaultPort = 8080
	// DefaultGenerationTimeout bounds one LaTeX compilation
	DefaultGenerationTimeout = 60 * time.Second
	// DefaultMaxConcurrentCompiles bounds simultaneous LaTeX compilations
	DefaultMaxConcurrentCompiles = 2
	// DefaultSessionTTL is how long an idle HTTP session is kept
	DefaultSessionTTL = 30 * time.Minute
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Storage
	ResumeDir   string `json:"resume_dir,omitempty"`   // Directory of {name}.json + {name}.pdf pairs
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; replaces ResumeDir when set

	// Inputs
	Lexicon  string `json:"lexicon,omitempty"`  // Path to a keyword lexicon JSON file
	Template string `json:"template,omitempty"` // Path to a LaTeX template
	Profile  string `json:"profile,omitempty"`  // Path to a candidate profile JSON file

	// Generation
	OutputDir             string `json:"output_dir,omitempty"`              // Parent directory of generated documents
	GenerationTimeout     string `json:"generation_timeout,omitempty"`      // Duration, e.g. "60s"
	MaxConcurrentCompiles int    `json:"max_concurrent_compiles,omitempty"` // LaTeX compilations allowed at once
	TeXOnly               bool   `json:"tex_only,omitempty"`                // Write LaTeX without compiling

	// Server
	Port           int      `json:"port,omitempty"`
	SessionTTL     string   `json:"session_ttl,omitempty"` // Duration, e.g. "30m"
	AllowedOrigins []string `json:"allowed_origins,omitempty"`

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser for SPA job pages
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed debug information
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		ResumeDir:             DefaultResumeDir,
		GenerationTimeout:     DefaultGenerationTimeout.String(),
		MaxConcurrentCompiles: DefaultMaxConcurrentCompiles,
		Port:                  DefaultPort,
		SessionTTL:            DefaultSessionTTL.String(),
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Unset variables leave fields empty.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		ResumeDir:         getenv("RESUME_DIR"),
		DatabaseURL:       getenv("DATABASE_URL"),
		Lexicon:           getenv("LEXICON_PATH"),
		Template:          getenv("TEMPLATE_PATH"),
		Profile:           getenv("PROFILE_PATH"),
		OutputDir:         getenv("OUTPUT_DIR"),
		GenerationTimeout: getenv("GENERATION_TIMEOUT"),
		SessionTTL:        getenv("SESSION_TTL"),
	}

	for _, intVar := range []struct {
		key string
		dst *int
	}{
		{"PORT", &cfg.Port},
		{"MAX_CONCURRENT_COMPILES", &cfg.MaxConcurrentCompiles},
	} {
		if raw := getenv(intVar.key); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return Config{}, fmt.Errorf("config error: %s must be an integer: %w", intVar.key, err)
			}
			*intVar.dst = n
		}
	}

	if raw := getenv("CORS_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	return cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.MaxConcurrentCompiles < 0 {
		return fmt.Errorf("config error: 'max_concurrent_compiles' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if _, err := parseDuration("generation_timeout", c.GenerationTimeout); err != nil {
		return err
	}
	if _, err := parseDuration("session_ttl", c.SessionTTL); err != nil {
		return err
	}

	for _, f := range []struct{ key, path string }{
		{"template", c.Template},
		{"lexicon", c.Lexicon},
		{"profile", c.Profile},
	} {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", f.key, f.path)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer config sources: flags over env over file over built-ins.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	for _, f := range []struct{ dst, def *string }{
		{&result.ResumeDir, &defaults.ResumeDir},
		{&result.DatabaseURL, &defaults.DatabaseURL},
		{&result.Lexicon, &defaults.Lexicon},
		{&result.Template, &defaults.Template},
		{&result.Profile, &defaults.Profile},
		{&result.OutputDir, &defaults.OutputDir},
		{&result.GenerationTimeout, &defaults.GenerationTimeout},
		{&result.SessionTTL, &defaults.SessionTTL},
	} {
		if *f.dst == "" {
			*f.dst = *f.def
		}
	}

	if result.MaxConcurrentCompiles == 0 {
		result.MaxConcurrentCompiles = defaults.MaxConcurrentCompiles
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}

	// Bools cannot distinguish unset from false, so true in either source wins
	result.TeXOnly = result.TeXOnly || defaults.TeXOnly
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// GenerationTimeoutDuration returns the parsed generation timeout, or the default
func (c *Config) GenerationTimeoutDuration() time.Duration {
	d, err := parseDuration("generation_timeout", c.GenerationTimeout)
	if err != nil || d == 0 {
		return DefaultGenerationTimeout
	}
	return d
}

// SessionTTLDuration returns the parsed session TTL, or the default
func (c *Config) SessionTTLDuration() time.Duration {
	d, err := parseDuration("session_ttl", c.SessionTTL)
	if err != nil || d == 0 {
		return DefaultSessionTTL
	}
	return d
}

func parseDuration(key, raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config error: '%s' is not a duration: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config error: '%s' must be non-negative", key)
	}
	return d, nil
}
