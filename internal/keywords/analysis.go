package keywords

import "strings"

// Status summarizes an overall score.
type Status string

const (
	// StatusExcellent is reported at or above ExcellentThreshold
	StatusExcellent Status = "Excellent"
	// StatusNeedsWork is reported below ExcellentThreshold
	StatusNeedsWork Status = "Needs Work"
)

// ExcellentThreshold is the overall score at which a resume is considered a good match.
const ExcellentThreshold = 70

var improvementTips = []string{
	"Add missing keywords naturally in your resume",
	"Focus on adding technical skills that are missing",
	"Use similar terminology as the job description",
}

// TierReport lists the keywords of one tier, split by presence in the resume.
type TierReport struct {
	Matched   []Keyword `json:"matched"`
	Unmatched []Keyword `json:"unmatched"`
}

// Analysis is the result of scoring one resume against one job description.
type Analysis struct {
	JobTitle       string      `json:"job_title"`
	OverallScore   int         `json:"overall_score"`
	TechnicalScore int         `json:"technical_score"`
	MatchedCount   int         `json:"matched_count"`
	TotalCount     int         `json:"total_count"`
	Status         Status      `json:"status"`
	Categorized    Categorized `json:"categorized"`
	High           TierReport  `json:"high"`
	Low            TierReport  `json:"low"`
	Matches        Matches     `json:"-"`
	Tips           []string    `json:"tips,omitempty"`
}

// Analyzer runs the full pipeline: extract, categorize, score.
type Analyzer struct {
	extractor   *Extractor
	categorizer *Categorizer
	scorer      *Scorer
}

// NewAnalyzer creates an Analyzer over lex. A nil lexicon selects DefaultLexicon().
func NewAnalyzer(lex *Lexicon) *Analyzer {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Analyzer{
		extractor:   NewExtractor(lex),
		categorizer: NewCategorizer(lex),
		scorer:      NewScorer(lex),
	}
}

// Analyze scores resumeText against a job. Title and description are required; an
// empty resume is allowed and scores 0.
func (a *Analyzer) Analyze(title, description, resumeText string) (*Analysis, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &InputError{Field: "job_title", Message: "job title is required"}
	}
	if strings.TrimSpace(description) == "" {
		return nil, &InputError{Field: "job_description", Message: "job description is required"}
	}

	set := a.extractor.ExtractKeywords(description)
	categorized := a.categorizer.Categorize(set)
	matches := a.scorer.Matches(set, resumeText)

	result := &Analysis{
		JobTitle:       title,
		OverallScore:   a.scorer.KeywordMatchScore(description, resumeText, set),
		TechnicalScore: a.scorer.TechnicalSkillsMatchScore(description, resumeText),
		MatchedCount:   matches.Count(),
		TotalCount:     len(set),
		Categorized:    categorized,
		High:           splitTier(categorized.High, matches),
		Low:            splitTier(categorized.Low, matches),
		Matches:        matches,
	}
	if result.OverallScore >= ExcellentThreshold {
		result.Status = StatusExcellent
	} else {
		result.Status = StatusNeedsWork
		result.Tips = append([]string(nil), improvementTips...)
	}
	return result, nil
}

// Analyze runs the pipeline with the built-in lexicon.
func Analyze(title, description, resumeText string) (*Analysis, error) {
	return NewAnalyzer(nil).Analyze(title, description, resumeText)
}

func splitTier(tier []Keyword, matches Matches) TierReport {
	report := TierReport{Matched: []Keyword{}, Unmatched: []Keyword{}}
	for _, k := range tier {
		if matches[k] {
			report.Matched = append(report.Matched, k)
		} else {
			report.Unmatched = append(report.Unmatched, k)
		}
	}
	return report
}
