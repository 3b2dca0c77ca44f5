package textnorm

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "separator lines are dropped",
			input:    "John Doe\n----------\nSoftware Engineer",
			expected: "John Doe\nSoftware Engineer",
		},
		{
			name:     "underscore separator lines are dropped",
			input:    "Summary\n________\nExperienced developer",
			expected: "Summary\nExperienced developer",
		},
		{
			name:     "mixed separator line is dropped",
			input:    "Header\n-- == __\nBody",
			expected: "Header\nBody",
		},
		{
			name:     "whitespace runs collapse to one space",
			input:    "Senior    Backend\tEngineer",
			expected: "Senior Backend Engineer",
		},
		{
			name:     "line containing an underscore anywhere is dropped",
			input:    "Keep this line\nfield_name: value\nAnd this one",
			expected: "Keep this line\nAnd this one",
		},
		{
			name:     "hyphen runs collapse outside headers",
			input:    "2019 --- 2022 at Acme",
			expected: "2019 - 2022 at Acme",
		},
		{
			name:     "header lines keep hyphen runs",
			input:    "## Experience --- Highlights",
			expected: "## Experience --- Highlights",
		},
		{
			name:     "disallowed characters are stripped",
			input:    "C++ & Go développeur <b>bold</b>",
			expected: "C Go dveloppeur bbold/b",
		},
		{
			name:     "allowed punctuation survives",
			input:    "Go, Python; SQL: 5 yrs. (remote) #lead @acme a/b",
			expected: "Go, Python; SQL: 5 yrs. (remote) #lead @acme a/b",
		},
		{
			name:     "single blank lines preserved as section breaks",
			input:    "Education\n\nSkills",
			expected: "Education\n\nSkills",
		},
		{
			name:     "runs of blank lines collapse to one",
			input:    "Education\n\n\n\n\nSkills",
			expected: "Education\n\nSkills",
		},
		{
			name:     "surrounding whitespace is trimmed",
			input:    "\n\n  Resume  \n\n",
			expected: "Resume",
		},
		{
			name:     "line reduced to separator chars by stripping is dropped",
			input:    "* - *",
			expected: "",
		},
		{
			name:     "bullet separator line between sections is dropped",
			input:    "Skills\n*-*\nGo, SQL",
			expected: "Skills\nGo, SQL",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"John Doe\n----\nEngineer at Acme   Corp\n\n\n\nSkills: Go, SQL",
		"## Header --- kept\nbody -- collapsed\nsnake_case dropped",
		"",
		"plain text with no issues",
		"• bullets * and <tags> get stripped\n\n\nEnd",
		"* - *",
		"• - •",
		"Skills\n*-*\nGo, SQL",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q:\nonce:  %q\ntwice: %q", input, once, twice)
		}
	}
}
