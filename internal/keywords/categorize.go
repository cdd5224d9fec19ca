package keywords

import (
	"strings"
	"unicode/utf8"
)

// minCompoundPart is the shortest single part that makes a compound keyword technical.
// Shorter names such as go and ai are ordinary words too (go-getter, ai-powered).
const minCompoundPart = 3

// Categorizer partitions keywords into the high (technical) and low (soft or
// unclassified) tiers.
type Categorizer struct {
	lex *Lexicon
}

// NewCategorizer creates a Categorizer. A nil lexicon selects DefaultLexicon().
func NewCategorizer(lex *Lexicon) *Categorizer {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Categorizer{lex: lex}
}

// Categorize places every keyword of set in exactly one tier. Both tiers are sorted
// and never nil.
func (c *Categorizer) Categorize(set Set) Categorized {
	out := Categorized{High: []Keyword{}, Low: []Keyword{}}
	for _, k := range set.Sorted() {
		if c.IsHigh(k) {
			out.High = append(out.High, k)
		} else {
			out.Low = append(out.Low, k)
		}
	}
	return out
}

// IsHigh reports whether k is a technical keyword. A keyword listed as both technical
// and soft is technical. Compound keywords are technical when a run of their parts is
// (aws-lambda contains aws); a lone part needs at least minCompoundPart runes.
func (c *Categorizer) IsHigh(k Keyword) bool {
	if c.lex.IsTechnical(k) {
		return true
	}
	parts := strings.FieldsFunc(string(k), func(r rune) bool {
		return r == ' ' || r == '-' || r == '/' || r == '_'
	})
	if len(parts) < 2 {
		return false
	}
	for i := range parts {
		for j := i + 1; j <= len(parts); j++ {
			if j == i+1 && utf8.RuneCountInString(parts[i]) < minCompoundPart {
				continue
			}
			if c.lex.IsTechnical(Keyword(c.lex.Normalize(strings.Join(parts[i:j], " ")))) {
				return true
			}
		}
	}
	return false
}
