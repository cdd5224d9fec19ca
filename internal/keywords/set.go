package keywords

import "sort"

// Keyword is a normalized, case-folded text fragment taken from a job description.
type Keyword string

// Set is a deduplicated collection of keywords.
type Set map[Keyword]struct{}

// NewSet builds a set from the given keywords.
func NewSet(kws ...Keyword) Set {
	s := make(Set, len(kws))
	for _, k := range kws {
		s.Add(k)
	}
	return s
}

// Add inserts k. Empty keywords are ignored.
func (s Set) Add(k Keyword) {
	if k == "" {
		return
	}
	s[k] = struct{}{}
}

// Contains reports whether k is in the set.
func (s Set) Contains(k Keyword) bool {
	_, ok := s[k]
	return ok
}

// Sorted returns the keywords in lexical order.
func (s Set) Sorted() []Keyword {
	out := make([]Keyword, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sortKeywords(out)
	return out
}

// Strings returns the sorted keywords as plain strings.
func (s Set) Strings() []string {
	return toStrings(s.Sorted())
}

// Categorized is the two-tier partition of a keyword set.
type Categorized struct {
	High []Keyword `json:"high"`
	Low  []Keyword `json:"low"`
}

// Len returns the total number of categorized keywords.
func (c Categorized) Len() int {
	return len(c.High) + len(c.Low)
}

// Tiers returns both tiers as plain strings.
func (c Categorized) Tiers() (high, low []string) {
	return toStrings(c.High), toStrings(c.Low)
}

// Matches maps each keyword to whether it was found in the resume text.
type Matches map[Keyword]bool

// Count returns the number of matched keywords.
func (m Matches) Count() int {
	n := 0
	for _, ok := range m {
		if ok {
			n++
		}
	}
	return n
}

func sortKeywords(ks []Keyword) {
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
}

func toStrings(ks []Keyword) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = string(k)
	}
	return out
}
