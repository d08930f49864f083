package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
	"github.com/podtruth/go-factcheck-backend/internal/repo"
)

func newCommentService(db *gorm.DB) *CommentService {
	return NewCommentService(db, NewKarmaService(db), NewNotificationService(db))
}

func TestCommentService_Create(t *testing.T) {
	db := newServiceDB(t)
	svc := newCommentService(db)
	ctx := context.Background()
	fcID := seedFactCheck(t, db)

	c, err := svc.Create(ctx, fcID, "u1", "  good point  ", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Content != "good point" || c.ParentCommentID != nil {
		t.Fatalf("unexpected comment: %+v", c)
	}

	total, _ := svc.Karma.GetTotal(ctx, "u1")
	if want := domain.StartingKarma + Points(domain.ActionSubmitComment); total != want {
		t.Fatalf("comment karma: total = %d, want %d", total, want)
	}
}

func TestCommentService_Create_ReplyNotifiesParentAuthor(t *testing.T) {
	db := newServiceDB(t)
	svc := newCommentService(db)
	ctx := context.Background()
	fcID := seedFactCheck(t, db)

	parent, err := svc.Create(ctx, fcID, "parent-author", "original", nil)
	if err != nil {
		t.Fatalf("parent: %v", err)
	}

	if _, err := svc.Create(ctx, fcID, "replier", "I disagree", &parent.ID); err != nil {
		t.Fatalf("reply: %v", err)
	}
	notifs, err := svc.Notifications.List(ctx, "parent-author", true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notifs) != 1 || notifs[0].Type != domain.NotificationCommentReply || notifs[0].FactCheckID != fcID {
		t.Fatalf("expected one reply notification, got %+v", notifs)
	}
}

func TestCommentService_Create_SelfReplyDoesNotNotify(t *testing.T) {
	db := newServiceDB(t)
	svc := newCommentService(db)
	ctx := context.Background()
	fcID := seedFactCheck(t, db)

	parent, _ := svc.Create(ctx, fcID, "u1", "original", nil)
	if _, err := svc.Create(ctx, fcID, "u1", "adding to my own point", &parent.ID); err != nil {
		t.Fatalf("self reply: %v", err)
	}
	notifs, _ := svc.Notifications.List(ctx, "u1", false)
	if len(notifs) != 0 {
		t.Fatalf("self reply should not notify, got %+v", notifs)
	}
}

func TestCommentService_Create_Validation(t *testing.T) {
	db := newServiceDB(t)
	svc := newCommentService(db)
	ctx := context.Background()
	fcID := seedFactCheck(t, db)

	if _, err := svc.Create(ctx, fcID, "u1", "   ", nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("blank content: %v", err)
	}
	if _, err := svc.Create(ctx, "missing", "u1", "hello", nil); !errors.Is(err, ErrFactCheckNotFound) {
		t.Fatalf("dangling fact check: %v", err)
	}
	missingParent := "missing-parent"
	if _, err := svc.Create(ctx, fcID, "u1", "hello", &missingParent); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("dangling parent: %v", err)
	}

	svc.MaxContentRunes = 5
	if _, err := svc.Create(ctx, fcID, "u1", strings.Repeat("y", 6), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("oversized content: %v", err)
	}
}

func TestCommentService_ListByFactCheck(t *testing.T) {
	db := newServiceDB(t)
	svc := newCommentService(db)
	ctx := context.Background()
	fcID := seedFactCheck(t, db)

	_, _ = svc.Create(ctx, fcID, "u1", "one", nil)
	_, _ = svc.Create(ctx, fcID, "u2", "two", nil)

	list, err := svc.ListByFactCheck(ctx, fcID)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListByFactCheck: len=%d err=%v", len(list), err)
	}
	if _, err := svc.ListByFactCheck(ctx, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("blank id: %v", err)
	}
}

func TestCommentService_Delete_OwnComment(t *testing.T) {
	db := newServiceDB(t)
	svc := newCommentService(db)
	ctx := context.Background()
	fcID := seedFactCheck(t, db)

	c, _ := svc.Create(ctx, fcID, "u1", "oops", nil)
	before, _ := svc.Karma.GetTotal(ctx, "u1")

	if err := svc.Delete(ctx, c.ID, "u1", false, ""); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := repo.GetComment(ctx, db, c.ID)
	if err != nil {
		t.Fatalf("tombstone should keep the row: %v", err)
	}
	if !got.IsDeleted || !strings.Contains(got.Content, "deleted by the user") {
		t.Fatalf("tombstone wrong: %+v", got)
	}

	// Self-deletion is free and silent.
	after, _ := svc.Karma.GetTotal(ctx, "u1")
	if after != before {
		t.Fatalf("self delete moved karma: %d -> %d", before, after)
	}
	notifs, _ := svc.Notifications.List(ctx, "u1", false)
	if len(notifs) != 0 {
		t.Fatalf("self delete should not notify, got %+v", notifs)
	}
}

func TestCommentService_Delete_Moderator(t *testing.T) {
	db := newServiceDB(t)
	svc := newCommentService(db)
	ctx := context.Background()
	fcID := seedFactCheck(t, db)

	c, _ := svc.Create(ctx, fcID, "u1", "off topic rant", nil)
	before, _ := svc.Karma.GetTotal(ctx, "u1")

	if err := svc.Delete(ctx, c.ID, "mod", true, "off topic"); err != nil {
		t.Fatalf("moderator delete: %v", err)
	}

	got, _ := repo.GetComment(ctx, db, c.ID)
	if !got.IsDeleted || got.ModeratorReason != "off topic" || got.DeletedBy != "mod" {
		t.Fatalf("tombstone wrong: %+v", got)
	}
	if !strings.Contains(got.Content, "moderator") || !strings.Contains(got.Content, "off topic") {
		t.Fatalf("tombstone content: %q", got.Content)
	}

	// Author notified and charged.
	notifs, _ := svc.Notifications.List(ctx, "u1", true)
	if len(notifs) != 1 || notifs[0].Type != domain.NotificationModeration {
		t.Fatalf("expected moderation notification, got %+v", notifs)
	}
	after, _ := svc.Karma.GetTotal(ctx, "u1")
	if want := before + Points(domain.ActionCommentDeleted); after != want {
		t.Fatalf("deletion karma: %d, want %d", after, want)
	}
}

func TestCommentService_Delete_ModeratorDeletingOwnIsSelfDelete(t *testing.T) {
	db := newServiceDB(t)
	svc := newCommentService(db)
	ctx := context.Background()
	fcID := seedFactCheck(t, db)

	c, _ := svc.Create(ctx, fcID, "mod", "my own note", nil)
	before, _ := svc.Karma.GetTotal(ctx, "mod")

	if err := svc.Delete(ctx, c.ID, "mod", true, ""); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := repo.GetComment(ctx, db, c.ID)
	if !strings.Contains(got.Content, "deleted by the user") {
		t.Fatalf("own deletion should not read as moderation: %q", got.Content)
	}
	after, _ := svc.Karma.GetTotal(ctx, "mod")
	if after != before {
		t.Fatalf("own deletion charged karma: %d -> %d", before, after)
	}
}

func TestCommentService_Delete_Errors(t *testing.T) {
	db := newServiceDB(t)
	svc := newCommentService(db)
	ctx := context.Background()
	fcID := seedFactCheck(t, db)

	c, _ := svc.Create(ctx, fcID, "u1", "hello", nil)
	if err := svc.Delete(ctx, c.ID, "stranger", false, ""); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("stranger delete: %v", err)
	}
	if err := svc.Delete(ctx, "missing", "u1", false, ""); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("missing comment: %v", err)
	}
}

func TestClip(t *testing.T) {
	if got := clip("short", 10); got != "short" {
		t.Fatalf("clip short = %q", got)
	}
	if got := clip("exactly ten", 11); got != "exactly ten" {
		t.Fatalf("clip boundary = %q", got)
	}
	if got := clip("0123456789ABC", 10); got != "0123456789…" {
		t.Fatalf("clip long = %q", got)
	}
}
