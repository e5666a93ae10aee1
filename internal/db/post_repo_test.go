package db

import (
	"errors"
	"testing"

	"github.com/inkwell/inkwell/internal/models"
)

func TestFilterPostUpdates(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]interface{}
		wantKeys []string
	}{
		{
			name: "mutable fields pass",
			input: map[string]interface{}{
				"title":   "New title",
				"content": "body",
				"excerpt": "short",
			},
			wantKeys: []string{"title", "content", "excerpt"},
		},
		{
			name: "slug and counters dropped silently",
			input: map[string]interface{}{
				"title":      "ok",
				"slug":       "hijacked-slug",
				"view_count": 99999,
				"author_id":  42,
			},
			wantKeys: []string{"title"},
		},
		{
			name:     "empty input",
			input:    map[string]interface{}{},
			wantKeys: nil,
		},
		{
			name: "only unknown fields",
			input: map[string]interface{}{
				"id":           7,
				"published_at": "2020-01-01",
			},
			wantKeys: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterPostUpdates(tt.input)
			if len(got) != len(tt.wantKeys) {
				t.Fatalf("FilterPostUpdates() kept %d keys, want %d: %v", len(got), len(tt.wantKeys), got)
			}
			for _, k := range tt.wantKeys {
				if _, ok := got[k]; !ok {
					t.Errorf("FilterPostUpdates() dropped expected key %q", k)
				}
			}
		})
	}
}

func TestUpdateOwnedEnforcesOwnership(t *testing.T) {
	gdb := newTestDB(t)
	ctx := testContext()
	repo := NewPostRepository(NewRepository(gdb), NewCounters(gdb))

	owner := seedUser(t, gdb, "ext_owner", "owner")
	intruder := seedUser(t, gdb, "ext_intruder", "intruder")
	post := seedPost(t, gdb, owner.ID, "Guarded Draft", models.PostStatusDraft)

	tests := []struct {
		name     string
		postID   int64
		authorID int64
		updates  map[string]interface{}
		wantErr  error
	}{
		{
			name:   "owner updates",
			postID: post.ID, authorID: owner.ID,
			updates: map[string]interface{}{"title": "Renamed"},
			wantErr: nil,
		},
		{
			name:   "non-owner rejected",
			postID: post.ID, authorID: intruder.ID,
			updates: map[string]interface{}{"title": "Taken over"},
			wantErr: ErrNotOwner,
		},
		{
			name:   "missing post",
			postID: post.ID + 1000, authorID: owner.ID,
			updates: map[string]interface{}{"title": "Ghost"},
			wantErr: ErrNotFound,
		},
		{
			name:   "owner no-op with unknown fields only",
			postID: post.ID, authorID: owner.ID,
			updates: map[string]interface{}{"junk": "x"},
			wantErr: nil,
		},
		{
			name:   "non-owner no-op still rejected",
			postID: post.ID, authorID: intruder.ID,
			updates: map[string]interface{}{"junk": "x"},
			wantErr: ErrNotOwner,
		},
		{
			name:   "missing post no-op still not found",
			postID: post.ID + 1000, authorID: intruder.ID,
			updates: map[string]interface{}{"junk": "x"},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.UpdateOwned(ctx, tt.postID, tt.authorID, tt.updates)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("UpdateOwned() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if got := reloadPost(t, gdb, post.ID); got.Title != "Renamed" {
		t.Errorf("title = %q, want %q", got.Title, "Renamed")
	}
}

func TestDeleteOwnedEnforcesOwnership(t *testing.T) {
	gdb := newTestDB(t)
	ctx := testContext()
	repo := NewPostRepository(NewRepository(gdb), NewCounters(gdb))

	owner := seedUser(t, gdb, "ext_owner", "owner")
	intruder := seedUser(t, gdb, "ext_intruder", "intruder")
	post := seedPost(t, gdb, owner.ID, "Deletable", models.PostStatusPublished)

	if err := repo.DeleteOwned(ctx, post.ID, intruder.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("DeleteOwned(non-owner) = %v, want %v", err, ErrNotOwner)
	}
	if got, err := repo.GetByID(ctx, post.ID); err != nil || got == nil {
		t.Fatalf("post vanished after rejected delete: post=%v err=%v", got, err)
	}

	if err := repo.DeleteOwned(ctx, post.ID, owner.ID); err != nil {
		t.Fatalf("DeleteOwned(owner) = %v, want nil", err)
	}
	if got, _ := repo.GetByID(ctx, post.ID); got != nil {
		t.Error("post still present after owner delete")
	}

	if err := repo.DeleteOwned(ctx, post.ID, owner.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteOwned(deleted) = %v, want %v", err, ErrNotFound)
	}
}
