// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-tailor/internal/generator"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/keywords"
	"github.com/jonathan/resume-tailor/internal/parsing"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow caps keyword lists unless the printer is verbose
	maxItemsToShow = 10
)

// Printer handles formatted output for the CLI
type Printer struct {
	out     io.Writer
	verbose bool
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// WithVerbose returns a printer that lists every keyword instead of a capped sample
func (p *Printer) WithVerbose(verbose bool) *Printer {
	return &Printer{out: p.out, verbose: verbose}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to exactly width runes
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		runes := []rune(s)
		return string(runes[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

// PrintAnalysis outputs the match report for one resume and job
func (p *Printer) PrintAnalysis(resumeName string, a *keywords.Analysis) {
	if a == nil {
		return
	}

	var sb strings.Builder
	if resumeName != "" {
		sb.WriteString(fmt.Sprintf("Resume:          %s\n", resumeName))
	}
	sb.WriteString(fmt.Sprintf("Job:             %s\n", a.JobTitle))
	sb.WriteString(fmt.Sprintf("Overall match:   %d%%\n", a.OverallScore))
	sb.WriteString(fmt.Sprintf("Technical match: %d%%\n", a.TechnicalScore))
	sb.WriteString(fmt.Sprintf("Keywords found:  %d/%d\n", a.MatchedCount, a.TotalCount))
	sb.WriteString(fmt.Sprintf("Status:          %s\n", statusLabel(a.Status)))
	p.printBox("📊 RESUME MATCH ANALYSIS", sb.String())

	p.printTier("HIGH PRIORITY (TECHNICAL)", a.High)
	p.printTier("LOW PRIORITY (GENERAL)", a.Low)

	if len(a.Tips) > 0 {
		var tips strings.Builder
		for i, tip := range a.Tips {
			tips.WriteString(fmt.Sprintf("%d. %s\n", i+1, tip))
		}
		p.printBox("💡 TIPS TO IMPROVE YOUR SCORE", tips.String())
	}
}

func statusLabel(s keywords.Status) string {
	if s == keywords.StatusExcellent {
		return "✅ " + string(s)
	}
	return "⚠️ " + string(s)
}

// printTier lists matched keywords first, each marked ✓ or ✗
func (p *Printer) printTier(title string, tier keywords.TierReport) {
	total := len(tier.Matched) + len(tier.Unmatched)
	if total == 0 {
		return
	}

	var sb strings.Builder
	shown := 0
	for _, group := range []struct {
		mark string
		list []keywords.Keyword
	}{{"✓", tier.Matched}, {"✗", tier.Unmatched}} {
		for _, k := range group.list {
			if !p.verbose && shown == maxItemsToShow {
				break
			}
			sb.WriteString(fmt.Sprintf("%s %s\n", group.mark, parsing.DisplayName(string(k))))
			shown++
		}
	}
	if shown < total {
		sb.WriteString(fmt.Sprintf("... and %d more\n", total-shown))
	}
	p.printBox(fmt.Sprintf("%s: %d/%d", title, len(tier.Matched), total), sb.String())
}

// PrintResumeList outputs stored resume names
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintResumeList(names []string) {
	if len(names) == 0 {
		fmt.Fprintln(p.out, "No resumes stored yet. Upload one with: resume_agent upload --file resume.pdf")
		return
	}
	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("• %s\n", name))
	}
	p.printBox(fmt.Sprintf("📁 STORED RESUMES (%d)", len(names)), sb.String())
}

// PrintJobMetadata outputs where a job description came from
func (p *Printer) PrintJobMetadata(meta *ingestion.Metadata) {
	if meta == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:   %s\n", meta.Source))
	if meta.URL != "" {
		sb.WriteString(fmt.Sprintf("URL:      %s\n", meta.URL))
	}
	if meta.Path != "" {
		sb.WriteString(fmt.Sprintf("Path:     %s\n", meta.Path))
	}
	if meta.Platform != "" {
		sb.WriteString(fmt.Sprintf("Platform: %s\n", meta.Platform))
	}
	if meta.Rendered {
		sb.WriteString("Rendered: headless browser\n")
	}
	sb.WriteString(fmt.Sprintf("Length:   %d chars\n", meta.Chars))
	if len(meta.Hash) >= 12 {
		sb.WriteString(fmt.Sprintf("Hash:     %s\n", meta.Hash[:12]))
	}
	p.printBox("📄 JOB DESCRIPTION", sb.String())
}

// PrintDocument outputs the result of a generation
func (p *Printer) PrintDocument(doc *generator.Document) {
	if doc == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:  %s\n", doc.Path))
	if doc.TeXOnly {
		sb.WriteString("Mode:  LaTeX source only (not compiled)\n")
	} else {
		sb.WriteString(fmt.Sprintf("Pages: %d\n", doc.Pages))
	}
	for _, w := range doc.Warnings {
		sb.WriteString(fmt.Sprintf("⚠️ %s\n", w))
	}
	p.printBox("🎯 TAILORED RESUME", sb.String())
}
