package keywords

import (
	"strings"
	"unicode"
)

// tokenize splits text into lower-case word tokens.
// Letters, digits and + # . - are word characters so c++, c#, node.js and aws-lambda
// survive as single tokens. Trailing dots and hyphens are dropped, as are leading
// hyphens and runs of leading dots; a single leading dot is kept for .net.
func tokenize(text string) []string {
	var tokens []string
	var word strings.Builder
	flush := func() {
		w := strings.TrimLeft(strings.TrimRight(word.String(), ".-"), "-")
		if strings.HasPrefix(w, "..") {
			w = strings.TrimLeft(w, ".")
		}
		word.Reset()
		if w != "" {
			tokens = append(tokens, w)
		}
	}
	for _, r := range strings.ToLower(text) {
		if isWordRune(r) {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' || r == '-'
}

// isNumeric reports whether w carries no letters (years, versions, counts).
func isNumeric(w string) bool {
	for _, r := range w {
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// containsSequence reports whether needle occurs contiguously in haystack.
func containsSequence(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if equalAt(haystack, i, needle) {
			return true
		}
	}
	return false
}

func equalAt(haystack []string, at int, needle []string) bool {
	for j, w := range needle {
		if haystack[at+j] != w {
			return false
		}
	}
	return true
}
