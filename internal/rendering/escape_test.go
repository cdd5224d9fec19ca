package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "Python developer", "Python developer"},
		{"backslash", `a\b`, `a\textbackslash{}b`},
		{"braces", "text{with}braces", `text\{with\}braces`},
		{"dollar", "cost $100", `cost \$100`},
		{"ampersand", "A & B", `A \& B`},
		{"percent", "100% complete", `100\% complete`},
		{"hash", "C#", `C\#`},
		{"caret", "x^2", `x\textasciicircum{}2`},
		{"underscore", "snake_case", `snake\_case`},
		{"tilde", "~approx", `\textasciitilde{}approx`},
		{"all together", `${}~&%#^_\`, `\$\{\}\textasciitilde{}\&\%\#\textasciicircum{}\_\textbackslash{}`},
		{"unicode passes through", "résumé α β γ", "résumé α β γ"},
		{"plus signs untouched", "C++ and Node.js", "C++ and Node.js"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLaTeX(tt.input))
		})
	}
}

func TestEscapeLaTeX_BackslashBracesNotReEscaped(t *testing.T) {
	assert.Equal(t, `\textbackslash{}\textbackslash{}`, EscapeLaTeX(`\\`))
}
