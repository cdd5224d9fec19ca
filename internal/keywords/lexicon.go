// Package keywords implements the keyword pipeline: extraction from job descriptions,
// technical/soft tiering, and resume match scoring.
package keywords

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/schemas"
)

// DefaultMinLength is the shortest keyword kept by the extractor, in runes.
// Two keeps short technology names such as go, ai and qa.
const DefaultMinLength = 2

// LexiconFile is the on-disk form of a lexicon (see schemas/lexicon.schema.json).
type LexiconFile struct {
	Stopwords []string          `json:"stopwords"`
	Technical []string          `json:"technical"`
	Soft      []string          `json:"soft"`
	Aliases   map[string]string `json:"aliases,omitempty"`
	MinLength int               `json:"min_length,omitempty"`
}

// phrase is a multi-word lexicon entry matched as a contiguous word sequence.
type phrase struct {
	words   []string
	keyword Keyword
}

// Lexicon holds the reference word lists used by the pipeline.
// A Lexicon is immutable after construction and safe for concurrent use.
type Lexicon struct {
	stopwords map[string]bool
	technical map[string]bool
	soft      map[string]bool
	aliases   map[string]string
	phrases   []phrase
	minLength int
}

// NewLexicon builds a Lexicon from its file form. Entries are normalized through the
// alias table, so "Golang" in the technical list is stored as "go". File aliases are
// layered over the built-in ones.
func NewLexicon(f LexiconFile) *Lexicon {
	aliases := parsing.DefaultAliases()
	for k, v := range f.Aliases {
		key := strings.Join(strings.Fields(strings.ToLower(k)), " ")
		if key == "" {
			continue
		}
		aliases[key] = strings.ToLower(strings.TrimSpace(v))
	}

	lex := &Lexicon{
		stopwords: make(map[string]bool, len(f.Stopwords)),
		technical: make(map[string]bool, len(f.Technical)),
		soft:      make(map[string]bool, len(f.Soft)),
		aliases:   aliases,
		minLength: f.MinLength,
	}
	if lex.minLength <= 0 {
		lex.minLength = DefaultMinLength
	}

	for _, w := range f.Stopwords {
		if n := strings.ToLower(strings.TrimSpace(w)); n != "" {
			lex.stopwords[n] = true
		}
	}
	for _, w := range f.Technical {
		if n := lex.Normalize(w); n != "" {
			lex.technical[n] = true
		}
	}
	for _, w := range f.Soft {
		if n := lex.Normalize(w); n != "" {
			lex.soft[n] = true
		}
	}

	seen := make(map[string]bool)
	addPhrase := func(source string, kw string) {
		words := lex.words(source)
		if len(words) < 2 {
			return
		}
		key := strings.Join(words, " ") + "\x00" + kw
		if seen[key] {
			return
		}
		seen[key] = true
		lex.phrases = append(lex.phrases, phrase{words: words, keyword: Keyword(kw)})
	}
	for _, kw := range sortedKeys(lex.technical) {
		addPhrase(kw, kw)
	}
	for _, kw := range sortedKeys(lex.soft) {
		addPhrase(kw, kw)
	}
	for _, from := range sortedStringKeys(aliases) {
		if strings.Contains(from, " ") {
			addPhrase(from, aliases[from])
		}
	}

	return lex
}

var (
	defaultLexicon     *Lexicon
	defaultLexiconOnce sync.Once
)

// DefaultLexicon returns the built-in lexicon. The same instance is shared by all callers.
func DefaultLexicon() *Lexicon {
	defaultLexiconOnce.Do(func() {
		defaultLexicon = NewLexicon(DefaultLexiconFile())
	})
	return defaultLexicon
}

// LoadLexicon reads a lexicon file, validates it against the lexicon schema and builds it.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file %s: %w", path, err)
	}
	if err := schemas.Validate(schemas.Lexicon, data); err != nil {
		return nil, fmt.Errorf("invalid lexicon file %s: %w", path, err)
	}

	var f LexiconFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon file %s: %w", path, err)
	}
	return NewLexicon(f), nil
}

// Normalize canonicalizes a raw token or phrase using the lexicon's alias table.
func (l *Lexicon) Normalize(raw string) string {
	return parsing.NormalizeKeyword(raw, l.aliases)
}

// IsStopword reports whether w is filtered out during extraction.
func (l *Lexicon) IsStopword(w string) bool { return l.stopwords[w] }

// IsTechnical reports whether k is listed as a technical term.
func (l *Lexicon) IsTechnical(k Keyword) bool { return l.technical[string(k)] }

// IsSoft reports whether k is listed as a soft skill.
func (l *Lexicon) IsSoft(k Keyword) bool { return l.soft[string(k)] }

// MinLength returns the shortest keyword length kept, in runes.
func (l *Lexicon) MinLength() int { return l.minLength }

// words splits text into canonical words. Each token is normalized on its own and
// multi-word canonical forms (ml -> machine learning) are split back into words.
func (l *Lexicon) words(text string) []string {
	var out []string
	for _, tok := range tokenize(text) {
		out = append(out, strings.Fields(l.Normalize(tok))...)
	}
	return out
}

// scanPhrases calls fn for every occurrence of a multi-word entry in words, with the
// index of its first word.
func (l *Lexicon) scanPhrases(words []string, fn func(p phrase, at int)) {
	for _, p := range l.phrases {
		for at := 0; at+len(p.words) <= len(words); at++ {
			if equalAt(words, at, p.words) {
				fn(p, at)
			}
		}
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
