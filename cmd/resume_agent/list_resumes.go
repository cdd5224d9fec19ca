package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/spf13/cobra"
)

var listResumesCmd = &cobra.Command{
	Use:   "list-resumes",
	Short: "List stored resumes",
	RunE:  runListResumes,
}

var listJSON bool

func init() {
	listResumesCmd.Flags().BoolVar(&listJSON, "json", false, "Print the names as a JSON array")
	rootCmd.AddCommand(listResumesCmd)
}

func runListResumes(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	names, err := a.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list resumes: %w", err)
	}
	sort.Strings(names)

	out := cmd.OutOrStdout()
	if listJSON {
		if names == nil {
			names = []string{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(names)
	}
	observability.NewPrinter(out).PrintResumeList(names)
	return nil
}
