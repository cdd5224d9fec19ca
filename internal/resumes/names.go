package resumes

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxNameLength bounds a resume name in runes.
const maxNameLength = 128

// NameFromFilename derives a resume name from an uploaded filename by dropping any
// directory and the extension.
func NameFromFilename(filename string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	name := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return name, nil
}

// ValidateName checks that name is usable as a file stem and database key.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &NameError{Name: name, Message: "name is empty"}
	case name != strings.TrimSpace(name):
		return &NameError{Name: name, Message: "name has leading or trailing spaces"}
	case strings.HasPrefix(name, "."):
		return &NameError{Name: name, Message: "name cannot start with a dot"}
	case strings.ContainsAny(name, `/\`):
		return &NameError{Name: name, Message: "name cannot contain path separators"}
	case len([]rune(name)) > maxNameLength:
		return &NameError{Name: name, Message: "name is too long"}
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return &NameError{Name: name, Message: "name contains control characters"}
		}
	}
	return nil
}

// NormalizeExt returns ext lower-cased with a leading dot, or DefaultExt when empty.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return DefaultExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
