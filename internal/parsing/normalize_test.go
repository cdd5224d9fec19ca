package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKeyword(t *testing.T) {
	aliases := DefaultAliases()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Golang to go", "Golang", "go"},
		{"GOLANG to go", "GOLANG", "go"},
		{"go lang to go", "go   lang", "go"},
		{"JS to javascript", "JS", "javascript"},
		{"k8s to kubernetes", "k8s", "kubernetes"},
		{"reactjs to react", "ReactJS", "react"},
		{"nodejs to node.js", "nodejs", "node.js"},
		{"node.js stays node.js", "node.js", "node.js"},
		{"trailing punctuation stripped", "python,", "python"},
		{"sentence end stripped", "AWS.", "aws"},
		{"parenthesised", "(docker)", "docker"},
		{"c++ keeps plus", "C++", "c++"},
		{"c# keeps hash", "C#", "c#"},
		{".net keeps leading dot", ".NET", ".net"},
		{"dotnet to .net", "DotNet", ".net"},
		{"leading dot before digit stripped", ".5", "5"},
		{"empty string", "", ""},
		{"whitespace only", "   ", ""},
		{"punctuation only", "--", ""},
		{"unknown word lowered", "Communication", "communication"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeKeyword(tt.input, aliases))
		})
	}
}

func TestNormalizeKeyword_NilAliases(t *testing.T) {
	assert.Equal(t, "golang", NormalizeKeyword("Golang", nil))
}

func TestDefaultAliases_ReturnsCopy(t *testing.T) {
	a := DefaultAliases()
	a["golang"] = "changed"

	assert.Equal(t, "go", DefaultAliases()["golang"])
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"known acronym", "aws", "AWS"},
		{".net casing", ".net", ".NET"},
		{"known mixed case", "javascript", "JavaScript"},
		{"go", "go", "Go"},
		{"plain word capitalized", "python", "Python"},
		{"phrase title cased", "problem solving", "Problem Solving"},
		{"phrase with known word", "rest api", "REST API"},
		{"mixed case kept", "OpenAPI", "OpenAPI"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayName(tt.input))
		})
	}
}
