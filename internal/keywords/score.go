package keywords

import "math"

// Scorer checks keyword presence in resume text and derives percentage scores.
// Scoring holds no state between calls and is safe for concurrent use.
type Scorer struct {
	lex         *Lexicon
	extractor   *Extractor
	categorizer *Categorizer
}

// NewScorer creates a Scorer. A nil lexicon selects DefaultLexicon().
func NewScorer(lex *Lexicon) *Scorer {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Scorer{
		lex:         lex,
		extractor:   NewExtractor(lex),
		categorizer: NewCategorizer(lex),
	}
}

// Matches reports, for each keyword of set, whether it occurs in resumeText on word
// boundaries. Comparison is case-insensitive and the resume goes through the same
// alias and phrase pass as the extractor, so "Golang" matches go and
// "Amazon Web Services" matches aws.
func (s *Scorer) Matches(set Set, resumeText string) Matches {
	out := make(Matches, len(set))
	resumeWords := s.lex.words(resumeText)
	present := make(map[string]bool, len(resumeWords))
	for _, w := range resumeWords {
		present[w] = true
	}
	phrases := make(map[Keyword]bool)
	s.lex.scanPhrases(resumeWords, func(p phrase, _ int) {
		phrases[p.keyword] = true
	})

	for k := range set {
		if phrases[k] {
			out[k] = true
			continue
		}
		needle := s.lex.words(string(k))
		switch len(needle) {
		case 0:
			out[k] = false
		case 1:
			out[k] = present[needle[0]]
		default:
			out[k] = containsSequence(resumeWords, needle)
		}
	}
	return out
}

// KeywordMatchScore returns the share of set found in resumeText as a rounded
// percentage, or 0 when set is empty. jobDescription is not consulted; set is
// expected to have been extracted from it.
func (s *Scorer) KeywordMatchScore(jobDescription, resumeText string, set Set) int {
	return percentage(s.Matches(set, resumeText).Count(), len(set))
}

// TechnicalSkillsMatchScore extracts keywords from jobDescription, keeps the high tier
// and returns the share of those found in resumeText.
func (s *Scorer) TechnicalSkillsMatchScore(jobDescription, resumeText string) int {
	technical := NewSet(s.categorizer.Categorize(s.extractor.ExtractKeywords(jobDescription)).High...)
	return percentage(s.Matches(technical, resumeText).Count(), len(technical))
}

func percentage(matched, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(matched) / float64(total)))
}
