package keywords

import (
	"strings"
	"unicode/utf8"
)

// Extractor turns free text into a deduplicated keyword set.
type Extractor struct {
	lex *Lexicon
}

// NewExtractor creates an Extractor. A nil lexicon selects DefaultLexicon().
func NewExtractor(lex *Lexicon) *Extractor {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Extractor{lex: lex}
}

// ExtractKeywords returns the keywords of text.
//
// Tokens are case-folded and canonicalized through the alias table; stopwords,
// purely numeric tokens and tokens shorter than the lexicon minimum are dropped.
// Multi-word lexicon entries found as contiguous words are kept as one keyword and
// the tokens they cover are not added separately. Empty text yields an empty set.
func (e *Extractor) ExtractKeywords(text string) Set {
	set := make(Set)
	for k := range e.FirstMentions(text) {
		set.Add(k)
	}
	return set
}

// FirstMentions returns the keywords ExtractKeywords finds in text, each with the
// index of the token where it first appears.
func (e *Extractor) FirstMentions(text string) map[Keyword]int {
	found := make(map[Keyword]int)
	mention := func(k Keyword, at int) {
		if prev, ok := found[k]; !ok || at < prev {
			found[k] = at
		}
	}
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return found
	}

	canonical := make([]string, len(tokens))
	var words []string
	var owner []int // token index for each entry in words
	for i, tok := range tokens {
		canonical[i] = e.lex.Normalize(tok)
		for _, w := range strings.Fields(canonical[i]) {
			words = append(words, w)
			owner = append(owner, i)
		}
	}

	covered := make([]bool, len(tokens))
	e.lex.scanPhrases(words, func(p phrase, at int) {
		mention(p.keyword, owner[at])
		for j := at; j < at+len(p.words); j++ {
			covered[owner[j]] = true
		}
	})

	for i, c := range canonical {
		if covered[i] || !e.keep(c) {
			continue
		}
		mention(Keyword(c), i)
	}
	return found
}

func (e *Extractor) keep(c string) bool {
	if c == "" || e.lex.IsStopword(c) || isNumeric(c) {
		return false
	}
	return utf8.RuneCountInString(c) >= e.lex.MinLength()
}
