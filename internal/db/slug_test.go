package db

import (
	"regexp"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{
			name:     "simple title",
			title:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "punctuation collapsed",
			title:    "Hello, World!!",
			expected: "hello-world",
		},
		{
			name:     "leading and trailing junk trimmed",
			title:    "  ...Go Rocks!  ",
			expected: "go-rocks",
		},
		{
			name:     "runs of separators become one hyphen",
			title:    "a -- b___c",
			expected: "a-b-c",
		},
		{
			name:     "digits kept",
			title:    "Top 10 Tips",
			expected: "top-10-tips",
		},
		{
			name:     "only punctuation",
			title:    "!!!",
			expected: "",
		},
		{
			name:     "already lowercase hyphenated",
			title:    "already-a-slug",
			expected: "already-a-slug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.expected)
			}
		})
	}
}

func TestNewPostSlug(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	got := NewPostSlug("Hello, World!!", now)
	if matched := regexp.MustCompile(`^hello-world-\d+$`).MatchString(got); !matched {
		t.Errorf("NewPostSlug() = %q, want match for ^hello-world-\\d+$", got)
	}

	// Empty titles still yield a usable slug.
	got = NewPostSlug("!!!", now)
	if matched := regexp.MustCompile(`^post-\d+$`).MatchString(got); !matched {
		t.Errorf("NewPostSlug() = %q, want match for ^post-\\d+$", got)
	}
}
