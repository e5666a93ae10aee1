package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/internal/listing"
)

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/explore?"+rawQuery, nil)
	return c
}

func TestFilterStateFromQuery(t *testing.T) {
	t.Run("empty query is the initial state", func(t *testing.T) {
		state, err := filterStateFromQuery(queryContext(t, ""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := listing.NewFilterState()
		if state.Search != want.Search || state.Date != want.Date ||
			state.Sort != want.Sort || state.Visible != want.Visible {
			t.Errorf("state = %+v, want initial %+v", state, want)
		}
	})

	t.Run("facets parsed", func(t *testing.T) {
		state, err := filterStateFromQuery(queryContext(t,
			"search=go&categories=Engineering,Design&tags=testing&date=this_week&sort=most_viewed&reading_min=5&reading_max=15"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if state.Search != "go" {
			t.Errorf("Search = %q, want %q", state.Search, "go")
		}
		if len(state.Categories) != 2 || state.Categories[0] != "Engineering" {
			t.Errorf("Categories = %v", state.Categories)
		}
		if len(state.Tags) != 1 || state.Tags[0] != "testing" {
			t.Errorf("Tags = %v", state.Tags)
		}
		if state.Date != listing.ThisWeek {
			t.Errorf("Date = %q, want %q", state.Date, listing.ThisWeek)
		}
		if state.Sort != listing.SortMostViewed {
			t.Errorf("Sort = %q, want %q", state.Sort, listing.SortMostViewed)
		}
		if state.ReadingMin != 5 || state.ReadingMax != 15 {
			t.Errorf("reading range = [%d,%d], want [5,15]", state.ReadingMin, state.ReadingMax)
		}
	})

	t.Run("custom range upper bound covers the whole day", func(t *testing.T) {
		state, err := filterStateFromQuery(queryContext(t,
			"date=custom&from=2026-08-01&to=2026-08-15"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if state.Date != listing.CustomRange {
			t.Fatalf("Date = %q, want %q", state.Date, listing.CustomRange)
		}
		wantFrom := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		if !state.CustomFrom.Equal(wantFrom) {
			t.Errorf("CustomFrom = %v, want %v", state.CustomFrom, wantFrom)
		}
		endOfDay := time.Date(2026, 8, 15, 23, 59, 59, 0, time.UTC)
		nextDay := time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC)
		if state.CustomTo.Before(endOfDay) || !state.CustomTo.Before(nextDay) {
			t.Errorf("CustomTo = %v, want inside Aug 15", state.CustomTo)
		}
	})

	t.Run("visible overrides the reset cursor", func(t *testing.T) {
		state, err := filterStateFromQuery(queryContext(t, "search=x&visible=27"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if state.Visible != 27 {
			t.Errorf("Visible = %d, want 27", state.Visible)
		}
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		for _, q := range []string{
			"date=fortnight",
			"sort=random",
			"reading_min=abc",
			"visible=0",
			"date=custom&from=01-08-2026",
		} {
			if _, err := filterStateFromQuery(queryContext(t, q)); err == nil {
				t.Errorf("filterStateFromQuery(%q) accepted invalid input", q)
			}
		}
	})
}
