// Package rendering provides functionality to render LaTeX resumes from templates.
package rendering

import "strings"

// latexReplacer maps each LaTeX special character to its literal form.
// strings.Replacer scans left to right without re-reading replaced output, so the
// braces emitted for \textbackslash{} are never escaped twice.
var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
)

// EscapeLaTeX escapes special LaTeX characters in text
// Special characters: \ { } $ & % # ^ _ ~
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}
	return latexReplacer.Replace(text)
}
