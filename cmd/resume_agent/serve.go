package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveTeXOnly bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server that exposes endpoints for uploading resumes, analyzing them
against job descriptions in sessions, and downloading tailored resumes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 8080)")
	serveCmd.Flags().BoolVar(&serveTeXOnly, "tex-only", false, "Serve LaTeX sources instead of compiling PDFs")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	port := a.cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	gen := a.newGenerator(serveTeXOnly)
	if !gen.CanCompile() {
		stderrf("warning: pdflatex not found in PATH; generation requests will fail (use --tex-only)\n")
	}

	srv, err := server.New(server.Config{
		Port:           port,
		Store:          a.store,
		Analyzer:       a.analyzer,
		Generator:      gen,
		Fetcher:        a.fetcher,
		SessionTTL:     a.cfg.SessionTTLDuration(),
		AllowedOrigins: a.cfg.AllowedOrigins,
		UseBrowser:     a.cfg.UseBrowser,
		Verbose:        a.cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
