package stats

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/inkwell/inkwell/internal/models"
)

func category(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: true}
}

func TestContentTotalsReduction(t *testing.T) {
	posts := []*models.Post{
		{
			Content:    strings.TrimSpace(strings.Repeat("word ", 400)), // 2 minutes
			CategoryID: category(1),
		},
		{
			Content:    "```go\ncode\n```\n" + strings.TrimSpace(strings.Repeat("word ", 401)), // 3 minutes, 1 snippet
			CategoryID: category(1),
		},
		{
			Content:    "short note", // 1 minute
			CategoryID: category(2),
		},
		{
			Content: "uncategorized ```a``` ```b```", // 2 snippets
		},
	}

	totals := newContentTotals()
	for _, p := range posts {
		totals.add(p)
	}

	if totals.posts != 4 {
		t.Errorf("posts = %d, want 4", totals.posts)
	}
	// Distinct categories only; the uncategorized post adds none.
	if len(totals.categories) != 2 {
		t.Errorf("topics covered = %d, want 2", len(totals.categories))
	}
	// Snippet markers inside the second post's content count words too;
	// reading time uses whitespace-separated fields, so the fence lines
	// add 3 words (401+3 words still ceils to 3 minutes).
	if totals.readingMinutes != 2+3+1+1 {
		t.Errorf("reading minutes = %d, want 7", totals.readingMinutes)
	}
	if totals.codeSnippets != 3 {
		t.Errorf("code snippets = %d, want 3", totals.codeSnippets)
	}
}
