// Package validation compiles rendered LaTeX and checks the produced PDF.
package validation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	// CompilationTimeout is the default maximum time to wait for LaTeX compilation
	CompilationTimeout = 60 * time.Second

	// DefaultCommand is the LaTeX engine used when Compiler.Command is empty
	DefaultCommand = "pdflatex"
)

// auxExtensions are the pdflatex byproducts removed by CleanupCompilationArtifacts
var auxExtensions = []string{".aux", ".log", ".out", ".toc", ".lof", ".lot"}

// Compiler runs a LaTeX engine over a .tex file
type Compiler struct {
	Command string
	Timeout time.Duration
}

// Available reports whether the LaTeX engine can be found in PATH
func (c Compiler) Available() bool {
	_, err := exec.LookPath(c.command())
	return err == nil
}

func (c Compiler) command() string {
	if c.Command == "" {
		return DefaultCommand
	}
	return c.Command
}

func (c Compiler) timeout() time.Duration {
	if c.Timeout <= 0 {
		return CompilationTimeout
	}
	return c.Timeout
}

// Compile runs the engine in workDir and returns the path of the produced PDF.
// When the engine exits with an error but still wrote a PDF, the path is returned
// together with a *CompilationError.
func (c Compiler) Compile(ctx context.Context, texPath, workDir string) (pdfPath string, logOutput string, err error) {
	command := c.command()
	if _, err := exec.LookPath(command); err != nil {
		return "", "", &CompilationError{
			Message: fmt.Sprintf("%s not found in PATH. Please install a LaTeX distribution (e.g., TeX Live, MiKTeX)", command),
			Cause:   err,
		}
	}

	if workDir == "" {
		workDir = filepath.Dir(texPath)
	}
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return "", "", &CompilationError{
			Message: fmt.Sprintf("failed to create working directory: %s", workDir),
			Cause:   err,
		}
	}

	texBaseName := filepath.Base(texPath)
	workTexPath := filepath.Join(workDir, texBaseName)
	if filepath.Clean(texPath) != filepath.Clean(workTexPath) {
		texContent, err := os.ReadFile(texPath)
		if err != nil {
			return "", "", &FileReadError{
				Message: fmt.Sprintf("failed to read LaTeX file: %s", texPath),
				Cause:   err,
			}
		}
		if err := os.WriteFile(workTexPath, texContent, 0644); err != nil {
			return "", "", &CompilationError{
				Message: fmt.Sprintf("failed to write LaTeX file to working directory: %s", workDir),
				Cause:   err,
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	// nonstopmode keeps the engine from waiting on stdin when it hits an error
	cmd := exec.CommandContext(ctx, command, "-interaction=nonstopmode", "-output-directory", workDir, workTexPath)
	cmd.Dir = workDir

	var output strings.Builder
	cmd.Stdout = &output
	cmd.Stderr = &output
	runErr := cmd.Run()
	logOutput = output.String()

	if ctxErr := ctx.Err(); ctxErr != nil {
		message := "LaTeX compilation cancelled"
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			message = fmt.Sprintf("LaTeX compilation timed out after %s", c.timeout())
		}
		return "", logOutput, &CompilationError{
			Message:   message,
			LogOutput: logOutput,
			Cause:     ctxErr,
		}
	}

	pdfPath = filepath.Join(workDir, strings.TrimSuffix(texBaseName, filepath.Ext(texBaseName))+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", logOutput, &CompilationError{
			Message:   "LaTeX compilation failed: PDF was not generated",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}

	if runErr != nil {
		return pdfPath, logOutput, &CompilationError{
			Message:   "LaTeX compilation completed with errors (PDF may be incomplete)",
			LogOutput: logOutput,
			Cause:     runErr,
			Partial:   true,
		}
	}

	return pdfPath, logOutput, nil
}

// CleanupCompilationArtifacts removes auxiliary files left next to texPath
func CleanupCompilationArtifacts(texPath string) {
	stem := strings.TrimSuffix(texPath, filepath.Ext(texPath))
	for _, ext := range auxExtensions {
		_ = os.Remove(stem + ext)
	}
}
