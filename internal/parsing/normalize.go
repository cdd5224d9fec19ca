// Package parsing normalizes raw keyword tokens into canonical, comparable forms.
package parsing

import (
	"strings"
	"unicode"
)

// defaultAliases maps common keyword variants to their canonical lower-case form
var defaultAliases = map[string]string{
	"golang":              "go",
	"go lang":             "go",
	"js":                  "javascript",
	"ts":                  "typescript",
	"k8s":                 "kubernetes",
	"react.js":            "react",
	"reactjs":             "react",
	"vue.js":              "vue",
	"vuejs":               "vue",
	"nodejs":              "node.js",
	"node":                "node.js",
	"postgres":            "postgresql",
	"psql":                "postgresql",
	"mongo":               "mongodb",
	"py":                  "python",
	"python3":             "python",
	"gcp":                 "google cloud",
	"amazon web services": "aws",
	"ml":                  "machine learning",
	"tf":                  "terraform",
	"dotnet":              ".net",
}

// displayNames maps canonical keywords to the casing used in rendered documents
var displayNames = map[string]string{
	"go":               "Go",
	"javascript":       "JavaScript",
	"typescript":       "TypeScript",
	"kubernetes":       "Kubernetes",
	"react":            "React",
	"vue":              "Vue",
	"node.js":          "Node.js",
	"postgresql":       "PostgreSQL",
	"mongodb":          "MongoDB",
	"mysql":            "MySQL",
	"graphql":          "GraphQL",
	"aws":              "AWS",
	"gcp":              "GCP",
	"sql":              "SQL",
	"html":             "HTML",
	"css":              "CSS",
	"api":              "API",
	"rest":             "REST",
	"ci/cd":            "CI/CD",
	"c++":              "C++",
	"c#":               "C#",
	".net":             ".NET",
	"nosql":            "NoSQL",
	"github":           "GitHub",
	"gitlab":           "GitLab",
	"devops":           "DevOps",
	"fastapi":          "FastAPI",
	"pytorch":          "PyTorch",
	"tensorflow":       "TensorFlow",
	"machine learning": "Machine Learning",
}

// DefaultAliases returns a copy of the built-in alias table.
func DefaultAliases() map[string]string {
	out := make(map[string]string, len(defaultAliases))
	for k, v := range defaultAliases {
		out[k] = v
	}
	return out
}

// NormalizeKeyword lower-cases and trims a raw token and resolves it through aliases.
// Surrounding punctuation is stripped except the characters that carry meaning in
// technology names (+ and #) and a single leading dot before a letter (.net).
// Returns "" when nothing is left.
func NormalizeKeyword(raw string, aliases map[string]string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	lead := ""
	if len(normalized) > 1 && normalized[0] == '.' && unicode.IsLetter(rune(normalized[1])) {
		lead, normalized = ".", normalized[1:]
	}
	normalized = strings.TrimFunc(normalized, func(r rune) bool {
		if r == '+' || r == '#' {
			return false
		}
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if normalized == "" {
		return ""
	}
	normalized = lead + normalized

	// Collapse inner runs of whitespace so "go   lang" hits the alias table
	normalized = strings.Join(strings.Fields(normalized), " ")

	if canonical, ok := aliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// DisplayName returns the presentation form of a canonical keyword.
// Known technology names get their conventional casing; other single words are
// capitalized and multi-word phrases are title-cased word by word.
func DisplayName(keyword string) string {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return ""
	}
	if display, ok := displayNames[strings.ToLower(keyword)]; ok {
		return display
	}

	// Mixed case input was chosen deliberately by whoever wrote it
	if keyword != strings.ToLower(keyword) {
		return keyword
	}

	words := strings.Fields(keyword)
	for i, w := range words {
		if d, ok := displayNames[w]; ok {
			words[i] = d
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
