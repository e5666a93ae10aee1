package db

import (
	"errors"
	"testing"

	"github.com/inkwell/inkwell/internal/models"
)

func TestCommentDeleteOwnedEnforcesOwnership(t *testing.T) {
	gdb := newTestDB(t)
	ctx := testContext()
	repo := NewCommentRepository(NewRepository(gdb), NewCounters(gdb))

	author := seedUser(t, gdb, "ext_author", "author")
	commenter := seedUser(t, gdb, "ext_commenter", "commenter")
	intruder := seedUser(t, gdb, "ext_intruder", "intruder")
	post := seedPost(t, gdb, author.ID, "Commented Post", models.PostStatusPublished)

	comment := &models.Comment{
		Content:  "first",
		PostID:   post.ID,
		AuthorID: commenter.ID,
		Status:   models.CommentStatusApproved,
	}
	if err := repo.Create(ctx, comment); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got := reloadPost(t, gdb, post.ID).CommentCount; got != 1 {
		t.Fatalf("comment_count = %d after create, want 1", got)
	}

	if err := repo.DeleteOwned(ctx, comment.ID, intruder.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("DeleteOwned(non-owner) = %v, want %v", err, ErrNotOwner)
	}
	if got := reloadPost(t, gdb, post.ID).CommentCount; got != 1 {
		t.Errorf("comment_count = %d after rejected delete, want 1", got)
	}

	if err := repo.DeleteOwned(ctx, comment.ID, commenter.ID); err != nil {
		t.Fatalf("DeleteOwned(owner) = %v, want nil", err)
	}
	if got := reloadPost(t, gdb, post.ID).CommentCount; got != 0 {
		t.Errorf("comment_count = %d after owner delete, want 0", got)
	}

	if err := repo.DeleteOwned(ctx, comment.ID, commenter.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteOwned(deleted) = %v, want %v", err, ErrNotFound)
	}
}
