package stats

import (
	"strings"
	"testing"
)

func TestReadingMinutes(t *testing.T) {
	tests := []struct {
		name     string
		words    int
		expected int
	}{
		{name: "empty body", words: 0, expected: 0},
		{name: "single word", words: 1, expected: 1},
		{name: "exactly one minute", words: 200, expected: 1},
		{name: "exactly two minutes", words: 400, expected: 2},
		{name: "one word over rounds up", words: 401, expected: 3},
		{name: "just under a boundary", words: 399, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.TrimSpace(strings.Repeat("word ", tt.words))
			if got := ReadingMinutes(body); got != tt.expected {
				t.Errorf("ReadingMinutes(%d words) = %d, want %d", tt.words, got, tt.expected)
			}
		})
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{name: "empty", body: "", expected: 0},
		{name: "whitespace only", body: "  \n\t ", expected: 0},
		{name: "runs of whitespace", body: "one\t\ttwo \n three", expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WordCount(tt.body); got != tt.expected {
				t.Errorf("WordCount(%q) = %d, want %d", tt.body, got, tt.expected)
			}
		})
	}
}

func TestCodeSnippetCount(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{
			name:     "no fences",
			body:     "plain prose",
			expected: 0,
		},
		{
			name:     "two fenced blocks",
			body:     "```go\nfmt.Println(1)\n```\ntext\n```sh\nls\n```",
			expected: 2,
		},
		{
			name:     "odd marker count floors",
			body:     "```go\ncode\n```\ndangling ```",
			expected: 1,
		},
		{
			name:     "single unpaired fence",
			body:     "``` only one",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeSnippetCount(tt.body); got != tt.expected {
				t.Errorf("CodeSnippetCount() = %d, want %d", got, tt.expected)
			}
		})
	}
}
