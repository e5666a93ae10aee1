package db

import (
	"testing"

	"github.com/inkwell/inkwell/internal/models"
)

func TestCountersFloorAtZero(t *testing.T) {
	gdb := newTestDB(t)
	ctx := testContext()
	counters := NewCounters(gdb)

	author := seedUser(t, gdb, "ext_counter", "counter-author")
	post := seedPost(t, gdb, author.ID, "Counter Post", models.PostStatusPublished)

	steps := []struct {
		name  string
		delta int64
		want  int64
	}{
		{"decrement from zero stays zero", -5, 0},
		{"increment applies", 3, 3},
		{"decrement applies", -1, 2},
		{"overshooting decrement floors", -10, 0},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			if err := counters.PostViews(ctx, post.ID, step.delta); err != nil {
				t.Fatalf("PostViews(%d) failed: %v", step.delta, err)
			}
			if got := reloadPost(t, gdb, post.ID).ViewCount; got != step.want {
				t.Errorf("view_count = %d, want %d", got, step.want)
			}
		})
	}
}
