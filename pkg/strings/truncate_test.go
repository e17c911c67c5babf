package strings

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{
			name:     "short heading unchanged",
			input:    "Glossary Information",
			width:    30,
			expected: "Glossary Information",
		},
		{
			name:     "exact width unchanged",
			input:    "hello",
			width:    5,
			expected: "hello",
		},
		{
			name:     "long description cut",
			input:    "Information relevant to a collection.",
			width:    15,
			expected: "Information ...",
		},
		{
			name:     "multiline description flattened",
			input:    "Attributes useful\nto\n\n  digital products.",
			width:    60,
			expected: "Attributes useful to digital products.",
		},
		{
			name:     "tabs and carriage returns collapsed",
			input:    "a\t\tb\r\nc",
			width:    20,
			expected: "a b c",
		},
		{
			name:     "wide runes count double",
			input:    "日本語テスト",
			width:    9,
			expected: "日本語...",
		},
		{
			name:     "width below minimum raised",
			input:    "hello",
			width:    1,
			expected: "h...",
		},
		{
			name:     "whitespace only becomes empty",
			input:    "  \n\t ",
			width:    10,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summary(tt.input, tt.width)
			if got != tt.expected {
				t.Errorf("Summary(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
			if w := runewidth.StringWidth(got); w > max(tt.width, MinSummaryWidth) {
				t.Errorf("Summary(%q, %d) is %d cells wide", tt.input, tt.width, w)
			}
		})
	}
}
