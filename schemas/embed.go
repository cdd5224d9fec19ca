// Package schemas holds the JSON Schema documents describing on-disk artifacts:
// resume sidecars, keyword lexicon files and candidate profiles.
package schemas

import _ "embed"

// ResumeRecord is the schema for the {name}.json sidecar stored next to each resume.
//
//go:embed resume_record.schema.json
var ResumeRecord string

// Lexicon is the schema for keyword lexicon files (stopwords, technical and soft skills).
//
//go:embed lexicon.schema.json
var Lexicon string

// CandidateProfile is the schema for the personal info and education used in generated documents.
//
//go:embed candidate_profile.schema.json
var CandidateProfile string

// All returns every embedded schema keyed by file name.
func All() map[string]string {
	return map[string]string{
		"resume_record.schema.json":     ResumeRecord,
		"lexicon.schema.json":           Lexicon,
		"candidate_profile.schema.json": CandidateProfile,
	}
}
