// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-tailor/internal/schemas"
)

// PersonalInfo is the contact block printed at the top of a tailored resume
type PersonalInfo struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email" validate:"required,email"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Education describes the single education entry of a tailored resume
type Education struct {
	Institute string `json:"institute,omitempty"`
	Degree    string `json:"degree,omitempty"`
	Major     string `json:"major,omitempty"`
	Duration  string `json:"duration,omitempty"` // e.g. "Nov 2020-April 2024"
	CGPA      string `json:"cgpa,omitempty"`
}

// IsZero reports whether no education field is set
func (e Education) IsZero() bool {
	return e == Education{}
}

// CandidateProfile is the personal information and education supplied by the
// candidate for document generation.
type CandidateProfile struct {
	Personal  PersonalInfo `json:"personal"`
	Education Education    `json:"education,omitempty"`
}

var profileValidator = validator.New()

// Validate checks the struct-level constraints (required name, email format)
func (p *CandidateProfile) Validate() error {
	if err := profileValidator.Struct(p); err != nil {
		return fmt.Errorf("invalid candidate profile: %w", err)
	}
	return nil
}

// ParseProfile schema-validates and decodes a candidate profile document
func ParseProfile(data []byte) (*CandidateProfile, error) {
	if err := schemas.Validate(schemas.CandidateProfile, data); err != nil {
		return nil, err
	}

	var profile CandidateProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidate profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// LoadProfile reads a candidate profile JSON file
func LoadProfile(path string) (*CandidateProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("candidate profile not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read candidate profile: %w", err)
	}

	profile, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return profile, nil
}
