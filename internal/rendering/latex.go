// Package rendering provides functionality to render LaTeX resumes from templates.
package rendering

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/types"
)

// DefaultTemplateName is the name reported for the built-in template
const DefaultTemplateName = "tailored_resume.tex"

//go:embed templates/tailored_resume.tex
var defaultTemplate string

// summarySkillCount is how many technical skills are named in the generated summary
const summarySkillCount = 3

// Input is everything a tailored resume is rendered from. Strings are raw; they are
// escaped while building TemplateData.
type Input struct {
	Personal        types.PersonalInfo
	Education       types.Education
	JobTitle        string
	TechnicalSkills []string
	SoftSkills      []string
}

// TemplateData represents the data structure passed to the LaTeX template.
// All string fields are LaTeX-escaped.
type TemplateData struct {
	Name            string
	ContactItems    []string
	JobTitle        string
	Summary         string
	TechnicalSkills []string
	SoftSkills      []string
	Education       *EducationSection
}

// EducationSection is the escaped education entry; nil when the candidate gave none
type EducationSection struct {
	Institute string
	Degree    string
	Major     string
	Duration  string
	CGPA      string
}

// RenderLaTeX renders a tailored resume. An empty templatePath selects the
// built-in template.
func RenderLaTeX(in Input, templatePath string) (string, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return "", err
	}

	data, err := BuildTemplateData(in)
	if err != nil {
		return "", &RenderError{
			Message: "failed to build template data",
			Cause:   err,
		}
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Template: tmpl.Name(),
			Message:  "failed to execute template",
			Cause:    err,
		}
	}

	return result.String(), nil
}

// parseTemplate reads and parses a LaTeX template file, or the built-in one
func parseTemplate(templatePath string) (*template.Template, error) {
	content := defaultTemplate
	name := DefaultTemplateName
	if templatePath != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &TemplateError{
					Template: templatePath,
					Message:  "template file not found",
					Cause:    err,
				}
			}
			return nil, &TemplateError{
				Template: templatePath,
				Message:  "failed to read template file",
				Cause:    err,
			}
		}
		content = string(raw)
		name = templatePath
	}

	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
		"join":   strings.Join,
	}).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, &TemplateError{
			Template: name,
			Message:  "failed to parse template",
			Cause:    err,
		}
	}

	return tmpl, nil
}

// BuildTemplateData escapes the input and shapes it for the template
func BuildTemplateData(in Input) (*TemplateData, error) {
	name := strings.TrimSpace(in.Personal.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	technical := displaySkills(in.TechnicalSkills)
	soft := displaySkills(in.SoftSkills)

	data := &TemplateData{
		Name:            EscapeLaTeX(name),
		ContactItems:    contactItems(in.Personal),
		JobTitle:        EscapeLaTeX(strings.TrimSpace(in.JobTitle)),
		Summary:         EscapeLaTeX(buildSummary(in.JobTitle, technical)),
		TechnicalSkills: escapeAll(technical),
		SoftSkills:      escapeAll(soft),
	}
	if !in.Education.IsZero() {
		data.Education = &EducationSection{
			Institute: EscapeLaTeX(strings.TrimSpace(in.Education.Institute)),
			Degree:    EscapeLaTeX(strings.TrimSpace(in.Education.Degree)),
			Major:     EscapeLaTeX(strings.TrimSpace(in.Education.Major)),
			Duration:  EscapeLaTeX(strings.TrimSpace(in.Education.Duration)),
			CGPA:      EscapeLaTeX(strings.TrimSpace(in.Education.CGPA)),
		}
	}
	return data, nil
}

// contactItems returns the non-empty contact fields in display order
func contactItems(p types.PersonalInfo) []string {
	items := []string{}
	for _, v := range []string{p.Location, p.Phone, p.Email, p.LinkedIn, p.GitHub, p.Website} {
		if v = strings.TrimSpace(v); v != "" {
			items = append(items, EscapeLaTeX(v))
		}
	}
	return items
}

// displaySkills converts canonical keywords to their display form, dropping duplicates
func displaySkills(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		d := parsing.DisplayName(k)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

func escapeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = EscapeLaTeX(v)
	}
	return out
}

// buildSummary writes a one-sentence summary naming the role and leading skills
func buildSummary(jobTitle string, technical []string) string {
	jobTitle = strings.TrimSpace(jobTitle)
	if jobTitle == "" || len(technical) == 0 {
		return ""
	}
	top := technical
	if len(top) > summarySkillCount {
		top = top[:summarySkillCount]
	}
	return fmt.Sprintf("Candidate for the %s role with hands-on experience in %s.", jobTitle, joinEnglish(top))
}

// joinEnglish joins items as "a", "a and b" or "a, b and c"
func joinEnglish(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
