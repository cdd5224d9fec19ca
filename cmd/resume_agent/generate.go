package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Analyze a job description and generate a tailored resume",
	Long: `Run the analysis, then render the matched skills together with the candidate
profile into a one-page LaTeX resume and compile it with pdflatex. The document is
copied into --out. With --tex-only the LaTeX source is written without compiling.`,
	RunE: runGenerate,
}

var (
	generateFlags    jobFlags
	generateProfile  string
	generateOut      string
	generateTeXOnly  bool
	generateTemplate string
)

func init() {
	registerJobFlags(generateCmd, &generateFlags)
	generateCmd.Flags().StringVarP(&generateProfile, "profile", "p", "", "Path to candidate profile JSON (personal info and education)")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", ".", "Directory to write the tailored resume to")
	generateCmd.Flags().BoolVar(&generateTeXOnly, "tex-only", false, "Write the LaTeX source without compiling it")
	generateCmd.Flags().StringVar(&generateTemplate, "template", "", "Path to a LaTeX template (defaults to the built-in template)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if cmd.Flags().Changed("template") {
		a.cfg.Template = generateTemplate
	}
	profilePath := generateProfile
	if profilePath == "" {
		profilePath = a.cfg.Profile
	}
	if profilePath == "" {
		return fmt.Errorf("--profile is required (via flag, PROFILE_PATH or config)")
	}
	profile, err := types.LoadProfile(profilePath)
	if err != nil {
		return err
	}

	gen := a.newGenerator(generateTeXOnly)
	if !gen.CanCompile() {
		return fmt.Errorf("pdflatex not found in PATH; install a TeX distribution or use --tex-only")
	}

	opts := generateFlags.runOptions(a)
	opts.Profile = profile
	result, err := pipeline.Run(ctx, pipeline.Deps{
		Store:     a.store,
		Analyzer:  a.analyzer,
		Fetcher:   a.fetcher,
		Generator: gen,
	}, opts)
	if err != nil {
		if result != nil && result.Analysis != nil && !generateFlags.asJSON {
			_ = printResult(cmd.OutOrStdout(), generateFlags, result, a.cfg.Verbose)
		}
		return err
	}

	dest, err := copyDocument(result.Document.Path, generateOut)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(result.Document.Dir); err != nil {
		stderrf("warning: failed to remove work directory %s: %v\n", result.Document.Dir, err)
	}
	result.Document.Path = dest
	result.Document.TeXPath = ""

	return printResult(cmd.OutOrStdout(), generateFlags, result, a.cfg.Verbose)
}

// copyDocument copies a generated file into outDir, keeping its file name
func copyDocument(src, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	dest := filepath.Join(outDir, filepath.Base(src))

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open generated document: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return dest, nil
}
