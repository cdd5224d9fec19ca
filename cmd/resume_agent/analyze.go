package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a stored resume against a job description",
	Long: `Extract keywords from a job description, split them into technical and general
tiers, and report which ones the stored resume contains together with the overall
and technical match scores.`,
	RunE: runAnalyze,
}

// jobFlags are shared by analyze and generate
type jobFlags struct {
	resume     string
	title      string
	jobFile    string
	jobURL     string
	jobText    string
	useBrowser bool
	asJSON     bool
}

var analyzeFlags jobFlags

func registerJobFlags(cmd *cobra.Command, f *jobFlags) {
	cmd.Flags().StringVarP(&f.resume, "resume", "r", "", "Name of the stored resume (required)")
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Job title (required)")
	cmd.Flags().StringVarP(&f.jobFile, "job-file", "j", "", "Path to a job description text file")
	cmd.Flags().StringVar(&f.jobURL, "job-url", "", "URL of a job posting")
	cmd.Flags().StringVar(&f.jobText, "job-text", "", "Job description text")
	cmd.Flags().BoolVar(&f.useBrowser, "use-browser", false, "Use headless browser for SPA job pages (requires Chrome)")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print the result as JSON")

	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagRequired("title")
	cmd.MarkFlagsMutuallyExclusive("job-file", "job-url", "job-text")
	cmd.MarkFlagsOneRequired("job-file", "job-url", "job-text")
}

func init() {
	registerJobFlags(analyzeCmd, &analyzeFlags)
	rootCmd.AddCommand(analyzeCmd)
}

// runOptions converts parsed flags into pipeline options
func (f *jobFlags) runOptions(a *app) pipeline.RunOptions {
	opts := pipeline.RunOptions{
		ResumeName: f.resume,
		JobTitle:   f.title,
		JobText:    f.jobText,
		JobPath:    f.jobFile,
		JobURL:     f.jobURL,
		UseBrowser: f.useBrowser || a.cfg.UseBrowser,
		Verbose:    a.cfg.Verbose,
	}
	if a.cfg.Verbose {
		opts.OnProgress = func(e pipeline.ProgressEvent) {
			log.Printf("[VERBOSE] %s: %s", e.Step, e.Message)
		}
	}
	return opts
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := pipeline.Run(ctx, pipeline.Deps{
		Store:    a.store,
		Analyzer: a.analyzer,
		Fetcher:  a.fetcher,
	}, analyzeFlags.runOptions(a))
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), analyzeFlags, result, a.cfg.Verbose)
}

func printResult(out io.Writer, f jobFlags, result *pipeline.Result, verbose bool) error {
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	p := observability.NewPrinter(out).WithVerbose(verbose)
	if result.Job != nil {
		p.PrintJobMetadata(result.Job.Metadata)
	}
	p.PrintAnalysis(f.resume, result.Analysis)
	if result.Document != nil {
		p.PrintDocument(result.Document)
	}
	return nil
}

// stderrf writes a diagnostic line that never mixes with JSON output
func stderrf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}
