// Package listing implements the in-memory multi-facet filter over an
// already-fetched set of posts: free text, category and tag sets, date
// presets, a reading-time range, client-side sort orders and the reveal
// cursor for incremental loading. Facets combine with AND; the
// multi-select facets (categories, tags) are OR within themselves.
package listing

import (
	"sort"
	"strings"
	"time"
)

// DatePreset selects the date facet's window.
type DatePreset string

// Date presets
const (
	AllTime     DatePreset = "all_time"
	Today       DatePreset = "today"
	ThisWeek    DatePreset = "this_week"
	ThisMonth   DatePreset = "this_month"
	ThisYear    DatePreset = "this_year"
	CustomRange DatePreset = "custom"
)

// SortKey selects the ordering of the filtered result.
type SortKey string

// Sort keys
const (
	SortLatest         SortKey = "latest"
	SortOldest         SortKey = "oldest"
	SortMostViewed     SortKey = "most_viewed"
	SortMostBookmarked SortKey = "most_bookmarked"
	SortLongestRead    SortKey = "longest_read"
	SortShortestRead   SortKey = "shortest_read"
	SortTitleAZ        SortKey = "title_az"
	SortTitleZA        SortKey = "title_za"
)

// RevealBatch is the fixed increment of the reveal cursor.
const RevealBatch = 9

// Default reading-time range bounds, in minutes.
const (
	DefaultReadingMin = 0
	DefaultReadingMax = 60
)

// Post is the working-set shape the filter operates on.
type Post struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Excerpt        string    `json:"excerpt"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	PublishedAt    time.Time `json:"published_at"` // zero until published
	CreatedAt      time.Time `json:"created_at"`
	Views          int64     `json:"views"`
	Bookmarks      int64     `json:"bookmarks"`
	ReadingMinutes int       `json:"reading_minutes"`
}

// timestamp is the publish-or-created time used by the date facet and the
// time-based sorts.
func (p *Post) timestamp() time.Time {
	if !p.PublishedAt.IsZero() {
		return p.PublishedAt
	}
	return p.CreatedAt
}

// FilterState is one immutable record of every active facet plus the
// reveal cursor. Facet transitions return a new state with the cursor
// reset to the first batch, so narrowing a result set never leaves a
// stale load-more affordance behind.
type FilterState struct {
	Search     string
	Categories []string
	Tags       []string
	Date       DatePreset
	CustomFrom time.Time // zero = unbounded
	CustomTo   time.Time // zero = unbounded
	Sort       SortKey
	ReadingMin int
	ReadingMax int
	Visible    int
}

// NewFilterState returns the initial state: no facets active, latest
// first, default reading range, first reveal batch visible.
func NewFilterState() FilterState {
	return FilterState{
		Date:       AllTime,
		Sort:       SortLatest,
		ReadingMin: DefaultReadingMin,
		ReadingMax: DefaultReadingMax,
		Visible:    RevealBatch,
	}
}

func (s FilterState) reset() FilterState {
	s.Visible = RevealBatch
	return s
}

// WithSearch returns s with a new search string.
func (s FilterState) WithSearch(search string) FilterState {
	s.Search = search
	return s.reset()
}

// WithCategories returns s with a new category selection.
func (s FilterState) WithCategories(categories []string) FilterState {
	s.Categories = categories
	return s.reset()
}

// WithTags returns s with a new tag selection.
func (s FilterState) WithTags(tags []string) FilterState {
	s.Tags = tags
	return s.reset()
}

// WithDate returns s with a new date preset.
func (s FilterState) WithDate(preset DatePreset) FilterState {
	s.Date = preset
	return s.reset()
}

// WithCustomRange returns s on the custom preset with inclusive bounds;
// a zero bound leaves that end open.
func (s FilterState) WithCustomRange(from, to time.Time) FilterState {
	s.Date = CustomRange
	s.CustomFrom = from
	s.CustomTo = to
	return s.reset()
}

// WithSort returns s with a new sort key.
func (s FilterState) WithSort(key SortKey) FilterState {
	s.Sort = key
	return s.reset()
}

// WithReadingRange returns s with a new inclusive reading-time range.
func (s FilterState) WithReadingRange(min, max int) FilterState {
	s.ReadingMin = min
	s.ReadingMax = max
	return s.reset()
}

// Reveal advances the cursor by one batch.
func (s FilterState) Reveal() FilterState {
	s.Visible += RevealBatch
	return s
}

// Apply returns the posts passing every active facet, ordered by the
// state's sort key. The result is independent of facet evaluation order
// and the sorts are stable.
func Apply(posts []Post, s FilterState, now time.Time) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if matchesSearch(&p, s.Search) &&
			matchesCategory(&p, s.Categories) &&
			matchesTags(&p, s.Tags) &&
			matchesDate(&p, s, now) &&
			matchesReadingTime(&p, s.ReadingMin, s.ReadingMax) {
			out = append(out, p)
		}
	}
	sortPosts(out, s.Sort)
	return out
}

// Revealed truncates an already-filtered result to the reveal cursor.
func Revealed(filtered []Post, s FilterState) []Post {
	if s.Visible >= len(filtered) {
		return filtered
	}
	if s.Visible < 0 {
		return filtered[:0]
	}
	return filtered[:s.Visible]
}

// A post passes the search facet when the lowered search string occurs in
// its title, excerpt, any tag name or the category name.
func matchesSearch(p *Post, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Excerpt), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func matchesCategory(p *Post, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, name := range selected {
		if p.Category == name {
			return true
		}
	}
	return false
}

// Tag selection is OR semantics: sharing any one selected tag passes.
func matchesTags(p *Post, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, want := range selected {
		for _, have := range p.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

func matchesDate(p *Post, s FilterState, now time.Time) bool {
	t := p.timestamp()
	switch s.Date {
	case Today:
		return !t.Before(startOfDay(now)) && t.Before(startOfDay(now).AddDate(0, 0, 1))
	case ThisWeek:
		return !t.Before(startOfWeek(now))
	case ThisMonth:
		return !t.Before(startOfMonth(now))
	case ThisYear:
		return !t.Before(startOfYear(now))
	case CustomRange:
		if !s.CustomFrom.IsZero() && t.Before(s.CustomFrom) {
			return false
		}
		if !s.CustomTo.IsZero() && t.After(s.CustomTo) {
			return false
		}
		return true
	default:
		return true
	}
}

func matchesReadingTime(p *Post, min, max int) bool {
	return p.ReadingMinutes >= min && p.ReadingMinutes <= max
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns midnight of the most recent Sunday.
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
}

func sortPosts(posts []Post, key SortKey) {
	switch key {
	case SortOldest:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].timestamp().Before(posts[j].timestamp())
		})
	case SortMostViewed:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Views > posts[j].Views
		})
	case SortMostBookmarked:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Bookmarks > posts[j].Bookmarks
		})
	case SortLongestRead:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].ReadingMinutes > posts[j].ReadingMinutes
		})
	case SortShortestRead:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].ReadingMinutes < posts[j].ReadingMinutes
		})
	case SortTitleAZ:
		sort.SliceStable(posts, func(i, j int) bool {
			return strings.ToLower(posts[i].Title) < strings.ToLower(posts[j].Title)
		})
	case SortTitleZA:
		sort.SliceStable(posts, func(i, j int) bool {
			return strings.ToLower(posts[i].Title) > strings.ToLower(posts[j].Title)
		})
	default: // SortLatest
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].timestamp().After(posts[j].timestamp())
		})
	}
}
