package bot

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "plain text no escaping",
			input:    "token refreshed",
			expected: "token refreshed",
		},
		{
			name:     "underscore escaped",
			input:    "cod_lead",
			expected: "cod\\_lead",
		},
		{
			name:     "dot and dash escaped",
			input:    "api.sankhya.com-prod",
			expected: "api\\.sankhya\\.com\\-prod",
		},
		{
			name:     "parentheses escaped",
			input:    "save(lead)",
			expected: "save\\(lead\\)",
		},
		{
			name:     "equals escaped",
			input:    "status=502",
			expected: "status\\=502",
		},
		{
			name:     "backslash escaped",
			input:    "path\\to\\file",
			expected: "path\\\\to\\\\file",
		},
		{
			name:     "all reserved chars",
			input:    "\\_{}#+-.!|()[]=*",
			expected: "\\\\\\_\\{\\}\\#\\+\\-\\.\\!\\|\\(\\)\\[\\]\\=\\*",
		},
		{
			name:     "typical log message",
			input:    "[ERROR] remote call failed: POST mge/service.sbr (status=401)",
			expected: "\\[ERROR\\] remote call failed: POST mge/service\\.sbr \\(status\\=401\\)",
		},
		{
			name:     "unicode preserved",
			input:    "Sessão expirada",
			expected: "Sessão expirada",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Sanitize(tt.input)
			if result != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSanitizeEscapesExistingBackslash(t *testing.T) {
	result := Sanitize("already\\_escaped")
	if !strings.Contains(result, "\\\\") {
		t.Error("backslash should be escaped")
	}
}
