package resumes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		expected string
		wantErr  bool
	}{
		{"jane.pdf", "jane", false},
		{"Jane Doe Resume.pdf", "Jane Doe Resume", false},
		{"resume.v2.pdf", "resume.v2", false},
		{"/tmp/uploads/jane.pdf", "jane", false},
		{`C:\Users\jane\cv.docx`, "cv", false},
		{"noext", "noext", false},
		{".pdf", "", true},
		{".hidden.pdf", "", true},
		{"", "", true},
		{"   .pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := NameFromFilename(tt.filename)
			if tt.wantErr {
				var nameErr *NameError
				assert.ErrorAs(t, err, &nameErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("jane"))
	assert.Error(t, ValidateName(" jane"))
	assert.Error(t, ValidateName("a/b"))
	assert.Error(t, ValidateName("tab\there"))
	assert.Error(t, ValidateName(string(make([]rune, maxNameLength+1))))
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, ".pdf", NormalizeExt(""))
	assert.Equal(t, ".pdf", NormalizeExt("."))
	assert.Equal(t, ".docx", NormalizeExt("DOCX"))
	assert.Equal(t, ".txt", NormalizeExt(".TXT"))
}
