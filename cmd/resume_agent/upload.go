package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-tailor/internal/resumes"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Store a resume (PDF, DOCX or text) for later analysis",
	Long: `Extract the text of a resume and store it under a name. The name defaults to the
file name without its extension. An existing resume is only replaced with --force.`,
	RunE: runUpload,
}

var (
	uploadFile  string
	uploadName  string
	uploadForce bool
)

func init() {
	uploadCmd.Flags().StringVarP(&uploadFile, "file", "f", "", "Path to the resume file (required)")
	uploadCmd.Flags().StringVarP(&uploadName, "name", "n", "", "Name to store the resume under")
	uploadCmd.Flags().BoolVar(&uploadForce, "force", false, "Replace an existing resume with the same name")

	_ = uploadCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(uploadFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	ctx := context.Background()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	importer := &resumes.Importer{Store: a.store, Verbose: a.cfg.Verbose}
	rec, err := importer.Import(ctx, resumes.ImportRequest{
		Filename:  filepath.Base(uploadFile),
		Data:      data,
		Name:      uploadName,
		Overwrite: uploadForce,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✅ Stored resume %q (%d characters of text)\n", rec.Name, len(rec.Text))
	return nil
}
