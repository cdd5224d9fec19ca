// Package main provides the resume_agent command line tool and HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Resume keyword analysis and tailoring",
	Long: `resume_agent scores a stored resume against a job description, shows which
technical and general keywords are matched, and generates a tailored one-page
resume from the extracted skills.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	globalConfigPath  string
	globalResumeDir   string
	globalDatabaseURL string
	globalLexicon     string
	globalVerbose     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&globalConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&globalResumeDir, "resume-dir", "", "Directory holding stored resumes (defaults to RESUME_DIR or ./resumes)")
	rootCmd.PersistentFlags().StringVar(&globalDatabaseURL, "database-url", "", "PostgreSQL connection URL; stores resumes in the database instead of --resume-dir")
	rootCmd.PersistentFlags().StringVar(&globalLexicon, "lexicon", "", "Path to a keyword lexicon JSON file (defaults to the built-in lexicon)")
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
