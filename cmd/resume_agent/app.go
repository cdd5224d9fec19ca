package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/generator"
	"github.com/jonathan/resume-tailor/internal/keywords"
	"github.com/jonathan/resume-tailor/internal/resumes"
	"github.com/spf13/cobra"
)

// app is the set of collaborators every command works with
type app struct {
	cfg      config.Config
	store    resumes.Store
	lexicon  *keywords.Lexicon
	analyzer *keywords.Analyzer
	fetcher  *fetch.Fetcher
	close    func()
}

// resolveConfig layers configuration sources: flags over environment over the
// config file over built-in defaults.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var fileCfg config.Config
	if globalConfigPath != "" {
		loaded, err := config.LoadConfig(globalConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = *loaded
	}

	envCfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		return config.Config{}, err
	}

	var flagCfg config.Config
	flags := cmd.Flags()
	if flags.Changed("resume-dir") {
		flagCfg.ResumeDir = globalResumeDir
	}
	if flags.Changed("database-url") {
		flagCfg.DatabaseURL = globalDatabaseURL
	}
	if flags.Changed("lexicon") {
		flagCfg.Lexicon = globalLexicon
	}
	if flags.Changed("verbose") {
		flagCfg.Verbose = globalVerbose
	}

	cfg := flagCfg.MergeWithDefaults(envCfg)
	cfg = cfg.MergeWithDefaults(fileCfg)
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	if cfg.Verbose && globalConfigPath != "" {
		log.Printf("[VERBOSE] Loaded config from: %s", globalConfigPath)
	}
	return cfg, nil
}

// openStore returns the Postgres store when a database URL is configured and the
// filesystem store otherwise.
func openStore(ctx context.Context, cfg config.Config) (resumes.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to prepare database schema: %w", err)
		}
		if cfg.Verbose {
			log.Printf("[VERBOSE] Using PostgreSQL resume store")
		}
		return database, database.Close, nil
	}

	store, err := resumes.NewFileStore(cfg.ResumeDir)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Verbose {
		log.Printf("[VERBOSE] Using resume directory %s", store.Dir())
	}
	return store, func() {}, nil
}

// loadLexicon returns the configured lexicon, or nil for the built-in one
func loadLexicon(cfg config.Config) (*keywords.Lexicon, error) {
	if cfg.Lexicon == "" {
		return nil, nil
	}
	lex, err := keywords.LoadLexicon(cfg.Lexicon)
	if err != nil {
		return nil, fmt.Errorf("failed to load lexicon: %w", err)
	}
	return lex, nil
}

// newApp resolves configuration and opens the store. Callers must call close.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	lex, err := loadLexicon(cfg)
	if err != nil {
		return nil, err
	}
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:      cfg,
		store:    store,
		lexicon:  lex,
		analyzer: keywords.NewAnalyzer(lex),
		fetcher:  fetch.New(fetch.Options{}),
		close:    closeStore,
	}, nil
}

// newGenerator builds a Generator from the resolved configuration
func (a *app) newGenerator(texOnly bool) *generator.Generator {
	return generator.New(generator.Options{
		TemplatePath:  a.cfg.Template,
		OutputDir:     a.cfg.OutputDir,
		Timeout:       a.cfg.GenerationTimeoutDuration(),
		MaxConcurrent: int64(a.cfg.MaxConcurrentCompiles),
		TeXOnly:       texOnly || a.cfg.TeXOnly,
		Lexicon:       a.lexicon,
		Verbose:       a.cfg.Verbose,
	})
}
