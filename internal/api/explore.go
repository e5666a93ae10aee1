package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/listing"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/stats"
)

const workingSetBatch = 500

// ExploreAPI serves the multi-facet discovery listing. The whole
// published working set is loaded and filtered in memory; facets combine
// with AND and the result carries a reveal cursor instead of pages.
type ExploreAPI struct {
	posts *db.PostRepository
}

// NewExploreAPI creates the explore handler.
func NewExploreAPI(posts *db.PostRepository) *ExploreAPI {
	return &ExploreAPI{posts: posts}
}

// Explore handles GET /explore. Every facet of the filter state maps to
// a query parameter; omitted parameters keep the facet inactive.
func (h *ExploreAPI) Explore(c *gin.Context) {
	state, err := filterStateFromQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	working, err := h.loadWorkingSet(c)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	filtered := listing.Apply(working, state, time.Now().UTC())
	visible := listing.Revealed(filtered, state)

	c.JSON(http.StatusOK, gin.H{
		"posts":   visible,
		"total":   len(filtered),
		"visible": len(visible),
	})
}

// loadWorkingSet batches the published posts into the filter's shape.
func (h *ExploreAPI) loadWorkingSet(c *gin.Context) ([]listing.Post, error) {
	ctx := c.Request.Context()

	var (
		working []listing.Post
		afterID int64
	)
	for {
		batch, err := h.posts.WorkingSet(ctx, afterID, workingSetBatch)
		if err != nil {
			return nil, err
		}
		for _, post := range batch {
			working = append(working, toListingPost(post))
		}
		if len(batch) < workingSetBatch {
			return working, nil
		}
		afterID = batch[len(batch)-1].ID
	}
}

func toListingPost(post *models.Post) listing.Post {
	p := listing.Post{
		ID:             post.ID,
		Title:          post.Title,
		CreatedAt:      post.CreatedAt,
		Views:          post.ViewCount,
		Bookmarks:      post.BookmarkCount,
		ReadingMinutes: stats.ReadingMinutes(post.Content),
	}
	if post.Excerpt.Valid {
		p.Excerpt = post.Excerpt.String
	}
	if post.PublishedAt.Valid {
		p.PublishedAt = post.PublishedAt.Time
	}
	if post.Category != nil {
		p.Category = post.Category.Name
	}
	for _, tag := range post.Tags {
		p.Tags = append(p.Tags, tag.Name)
	}
	return p
}

// filterStateFromQuery rebuilds the filter state a request describes.
// Facet transitions reset the reveal cursor, so the explicit visible
// parameter is applied last.
func filterStateFromQuery(c *gin.Context) (listing.FilterState, error) {
	state := listing.NewFilterState()

	if search := c.Query("search"); search != "" {
		state = state.WithSearch(search)
	}
	if categories := splitCSV(c.Query("categories")); len(categories) > 0 {
		state = state.WithCategories(categories)
	}
	if tags := splitCSV(c.Query("tags")); len(tags) > 0 {
		state = state.WithTags(tags)
	}

	switch preset := listing.DatePreset(c.Query("date")); preset {
	case "":
	case listing.AllTime, listing.Today, listing.ThisWeek, listing.ThisMonth, listing.ThisYear:
		state = state.WithDate(preset)
	case listing.CustomRange:
		from, err := parseDateParam(c.Query("from"))
		if err != nil {
			return state, err
		}
		to, err := parseDateParam(c.Query("to"))
		if err != nil {
			return state, err
		}
		if !to.IsZero() {
			// The upper bound is inclusive of the whole day.
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		state = state.WithCustomRange(from, to)
	default:
		return state, errBadFilterParam("date")
	}

	if sortKey := listing.SortKey(c.Query("sort")); sortKey != "" {
		switch sortKey {
		case listing.SortLatest, listing.SortOldest, listing.SortMostViewed,
			listing.SortMostBookmarked, listing.SortLongestRead,
			listing.SortShortestRead, listing.SortTitleAZ, listing.SortTitleZA:
			state = state.WithSort(sortKey)
		default:
			return state, errBadFilterParam("sort")
		}
	}

	if c.Query("reading_min") != "" || c.Query("reading_max") != "" {
		min, max := listing.DefaultReadingMin, listing.DefaultReadingMax
		var err error
		if raw := c.Query("reading_min"); raw != "" {
			if min, err = strconv.Atoi(raw); err != nil {
				return state, errBadFilterParam("reading_min")
			}
		}
		if raw := c.Query("reading_max"); raw != "" {
			if max, err = strconv.Atoi(raw); err != nil {
				return state, errBadFilterParam("reading_max")
			}
		}
		state = state.WithReadingRange(min, max)
	}

	if raw := c.Query("visible"); raw != "" {
		visible, err := strconv.Atoi(raw)
		if err != nil || visible < 1 {
			return state, errBadFilterParam("visible")
		}
		state.Visible = visible
	}

	return state, nil
}

type filterParamError string

func errBadFilterParam(name string) error {
	return filterParamError(name)
}

func (e filterParamError) Error() string {
	return "invalid filter parameter: " + string(e)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseDateParam accepts a calendar date; a missing parameter leaves
// that bound open.
func parseDateParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errBadFilterParam("date bound")
	}
	return t.UTC(), nil
}
