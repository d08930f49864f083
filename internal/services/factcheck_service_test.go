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

func newFactCheckService(db *gorm.DB) *FactCheckService {
	return NewFactCheckService(db, NewKarmaService(db), NewNotificationService(db))
}

func TestFactCheckService_Create(t *testing.T) {
	db := newServiceDB(t)
	svc := newFactCheckService(db)
	ctx := context.Background()

	if _, err := repo.CreateEpisode(ctx, db, "ep1", "Episode 1"); err != nil {
		t.Fatalf("seed episode: %v", err)
	}

	fc, err := svc.Create(ctx, "ep1", "author", "  the claim  ", " source ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if fc.Claim != "the claim" || fc.Source != "source" {
		t.Fatalf("inputs not trimmed: %+v", fc)
	}
	if fc.Status != string(domain.StatusUnvalidated) {
		t.Fatalf("new fact check status = %q", fc.Status)
	}

	// Episode counter bumped in the same transaction.
	ep, err := repo.GetEpisode(ctx, db, "ep1")
	if err != nil {
		t.Fatalf("GetEpisode: %v", err)
	}
	if ep.FactCheckCount != 1 {
		t.Fatalf("episode count = %d, want 1", ep.FactCheckCount)
	}

	// Submission karma settled.
	total, _ := svc.Karma.GetTotal(ctx, "author")
	if want := domain.StartingKarma + Points(domain.ActionSubmitFact); total != want {
		t.Fatalf("author total = %d, want %d", total, want)
	}
}

func TestFactCheckService_Create_Validation(t *testing.T) {
	db := newServiceDB(t)
	svc := newFactCheckService(db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "", "author", "claim", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("blank episode: %v", err)
	}
	if _, err := svc.Create(ctx, "ep1", "", "claim", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("blank author: %v", err)
	}
	if _, err := svc.Create(ctx, "ep1", "author", "   ", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("blank claim: %v", err)
	}

	svc.MaxClaimRunes = 10
	if _, err := svc.Create(ctx, "ep1", "author", strings.Repeat("x", 11), ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("oversized claim: %v", err)
	}
}

func TestFactCheckService_GetAndList(t *testing.T) {
	db := newServiceDB(t)
	svc := newFactCheckService(db)
	ctx := context.Background()

	fc, err := svc.Create(ctx, "ep1", "author", "claim", "")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.Get(ctx, fc.ID)
	if err != nil || got.ID != fc.ID {
		t.Fatalf("Get: %+v err=%v", got, err)
	}
	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, ErrFactCheckNotFound) {
		t.Fatalf("missing: %v", err)
	}

	list, err := svc.ListByEpisode(ctx, "ep1")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListByEpisode: len=%d err=%v", len(list), err)
	}
	if _, err := svc.ListByEpisode(ctx, "  "); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("blank episode: %v", err)
	}
}

func TestFactCheckService_SetStatus(t *testing.T) {
	db := newServiceDB(t)
	svc := newFactCheckService(db)
	ctx := context.Background()

	fc, err := svc.Create(ctx, "ep1", "author", "claim", "")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	afterSubmit, _ := svc.Karma.GetTotal(ctx, "author")

	got, err := svc.SetStatus(ctx, fc.ID, domain.StatusValidatedTrue)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if got.Status != string(domain.StatusValidatedTrue) {
		t.Fatalf("status = %q", got.Status)
	}

	total, _ := svc.Karma.GetTotal(ctx, "author")
	if want := afterSubmit + Points(domain.ActionFactValidatedTrue); total != want {
		t.Fatalf("moderation karma: total = %d, want %d", total, want)
	}

	// The submitter is told about the verdict.
	notifs, err := svc.Notifications.List(ctx, "author", true)
	if err != nil {
		t.Fatalf("List notifications: %v", err)
	}
	if len(notifs) != 1 || notifs[0].Type != domain.NotificationModeration {
		t.Fatalf("expected one moderation notification, got %+v", notifs)
	}

	// Re-applying the same verdict changes nothing.
	if _, err := svc.SetStatus(ctx, fc.ID, domain.StatusValidatedTrue); err != nil {
		t.Fatalf("repeat SetStatus: %v", err)
	}
	again, _ := svc.Karma.GetTotal(ctx, "author")
	if again != total {
		t.Fatalf("repeated verdict moved karma: %d -> %d", total, again)
	}
	notifs, _ = svc.Notifications.List(ctx, "author", true)
	if len(notifs) != 1 {
		t.Fatalf("repeated verdict re-notified: %d notifications", len(notifs))
	}
}

func TestFactCheckService_SetStatus_WithdrawnVerdictEarnsNothing(t *testing.T) {
	db := newServiceDB(t)
	svc := newFactCheckService(db)
	ctx := context.Background()

	fc, _ := svc.Create(ctx, "ep1", "author", "claim", "")
	if _, err := svc.SetStatus(ctx, fc.ID, domain.StatusValidatedTrue); err != nil {
		t.Fatalf("validate: %v", err)
	}
	before, _ := svc.Karma.GetTotal(ctx, "author")

	if _, err := svc.SetStatus(ctx, fc.ID, domain.StatusUnvalidated); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	after, _ := svc.Karma.GetTotal(ctx, "author")
	if after != before {
		t.Fatalf("withdrawing a verdict moved karma: %d -> %d", before, after)
	}
}

func TestFactCheckService_SetStatus_Errors(t *testing.T) {
	svc := newFactCheckService(newServiceDB(t))
	ctx := context.Background()

	if _, err := svc.SetStatus(ctx, "fc1", domain.ValidationStatus("MAYBE")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("bad status: %v", err)
	}
	if _, err := svc.SetStatus(ctx, "missing", domain.StatusValidatedTrue); !errors.Is(err, ErrFactCheckNotFound) {
		t.Fatalf("missing: %v", err)
	}
}

func TestFactCheckService_Delete(t *testing.T) {
	db := newServiceDB(t)
	svc := newFactCheckService(db)
	ctx := context.Background()

	if _, err := repo.CreateEpisode(ctx, db, "ep1", "Episode 1"); err != nil {
		t.Fatalf("seed episode: %v", err)
	}
	fc, _ := svc.Create(ctx, "ep1", "author", "claim", "")
	beforeDelete, _ := svc.Karma.GetTotal(ctx, "author")

	// A stranger may not delete it.
	if err := svc.Delete(ctx, fc.ID, "stranger", false); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("stranger delete: %v", err)
	}

	// The submitter may.
	if err := svc.Delete(ctx, fc.ID, "author", false); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if _, err := svc.Get(ctx, fc.ID); !errors.Is(err, ErrFactCheckNotFound) {
		t.Fatalf("deleted fact check still visible: %v", err)
	}

	// Episode counter restored and deletion karma applied.
	ep, _ := repo.GetEpisode(ctx, db, "ep1")
	if ep.FactCheckCount != 0 {
		t.Fatalf("episode count = %d, want 0", ep.FactCheckCount)
	}
	total, _ := svc.Karma.GetTotal(ctx, "author")
	if want := beforeDelete + Points(domain.ActionFactDeleted); total != want {
		t.Fatalf("deletion karma: total = %d, want %d", total, want)
	}

	if err := svc.Delete(ctx, fc.ID, "author", false); !errors.Is(err, ErrFactCheckNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestFactCheckService_Delete_Moderator(t *testing.T) {
	db := newServiceDB(t)
	svc := newFactCheckService(db)
	ctx := context.Background()

	fc, _ := svc.Create(ctx, "ep1", "author", "claim", "")
	if err := svc.Delete(ctx, fc.ID, "mod", true); err != nil {
		t.Fatalf("moderator delete: %v", err)
	}
	if _, err := svc.Get(ctx, fc.ID); !errors.Is(err, ErrFactCheckNotFound) {
		t.Fatalf("still visible: %v", err)
	}
}
