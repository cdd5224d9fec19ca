package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// getBinaryPath returns the path to the resume_agent binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "resume_agent"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath, err := filepath.Abs(filepath.Join("..", "..", "bin", binaryName))
	require.NoError(t, err)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/resume_agent ./cmd/resume_agent'", binaryPath)
	}

	return binaryPath
}

// runCLI runs the binary against an isolated resume directory
func runCLI(t *testing.T, resumeDir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinaryPath(t), append([]string{"--resume-dir", resumeDir}, args...)...)
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), "DATABASE_URL=", "LEXICON_PATH=", "PROFILE_PATH=")
	out, err := cmd.CombinedOutput()
	return string(out), err
}
