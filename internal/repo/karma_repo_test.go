package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
)

func TestInsertKarmaEntry_AppendsAndDeduplicates(t *testing.T) {
	db := newRepoDB(t, &domain.KarmaHistoryEntry{})
	ctx := context.Background()

	e, err := InsertKarmaEntry(ctx, db, "u1", domain.ActionFactUpvoted, 5, "fc1")
	if err != nil {
		t.Fatalf("InsertKarmaEntry: %v", err)
	}
	if e.ID == "" || e.Points != 5 || e.Action != string(domain.ActionFactUpvoted) {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not set")
	}

	// Same (user, action, target) triple must hit the unique index.
	if _, err := InsertKarmaEntry(ctx, db, "u1", domain.ActionFactUpvoted, 5, "fc1"); !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}

	// Varying any component of the triple is a fresh row.
	if _, err := InsertKarmaEntry(ctx, db, "u2", domain.ActionFactUpvoted, 5, "fc1"); err != nil {
		t.Fatalf("different user: %v", err)
	}
	if _, err := InsertKarmaEntry(ctx, db, "u1", domain.ActionFactDownvoted, -2, "fc1"); err != nil {
		t.Fatalf("different action: %v", err)
	}
	if _, err := InsertKarmaEntry(ctx, db, "u1", domain.ActionFactUpvoted, 5, "fc2"); err != nil {
		t.Fatalf("different target: %v", err)
	}
}

func TestHasKarmaEntry(t *testing.T) {
	db := newRepoDB(t, &domain.KarmaHistoryEntry{})
	ctx := context.Background()

	ok, err := HasKarmaEntry(ctx, db, "u1", domain.ActionFactUpvoted, "fc1")
	if err != nil || ok {
		t.Fatalf("pre-insert: ok=%v err=%v", ok, err)
	}
	if _, err := InsertKarmaEntry(ctx, db, "u1", domain.ActionFactUpvoted, 5, "fc1"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ok, err = HasKarmaEntry(ctx, db, "u1", domain.ActionFactUpvoted, "fc1")
	if err != nil || !ok {
		t.Fatalf("post-insert: ok=%v err=%v", ok, err)
	}
}

func TestListKarmaHistory_PagesNewestFirst(t *testing.T) {
	db := newRepoDB(t, &domain.KarmaHistoryEntry{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		target := fmt.Sprintf("fc%d", i)
		e, err := InsertKarmaEntry(ctx, db, "u1", domain.ActionFactUpvoted, 5, target)
		if err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
		// Space the timestamps out so ordering is deterministic.
		if err := db.Model(e).Update("created_at", e.CreatedAt.Add(-time.Duration(5-i)*time.Second)).Error; err != nil {
			t.Fatalf("backdate %d: %v", i, err)
		}
	}
	// Another user's rows must not bleed in.
	if _, err := InsertKarmaEntry(ctx, db, "u2", domain.ActionFactUpvoted, 5, "fc0"); err != nil {
		t.Fatalf("seed other user: %v", err)
	}

	page, total, err := ListKarmaHistory(ctx, db, "u1", 0, 2)
	if err != nil {
		t.Fatalf("ListKarmaHistory: %v", err)
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if len(page) != 2 || page[0].TargetID != "fc4" || page[1].TargetID != "fc3" {
		t.Fatalf("first page wrong: %+v", page)
	}

	page, total, err = ListKarmaHistory(ctx, db, "u1", 4, 2)
	if err != nil || total != 5 {
		t.Fatalf("last page: total=%d err=%v", total, err)
	}
	if len(page) != 1 || page[0].TargetID != "fc0" {
		t.Fatalf("last page wrong: %+v", page)
	}

	// Beyond the end: empty page, same total.
	page, total, err = ListKarmaHistory(ctx, db, "u1", 10, 2)
	if err != nil || total != 5 || len(page) != 0 {
		t.Fatalf("overrun page: len=%d total=%d err=%v", len(page), total, err)
	}
}

func TestUserKarma_CreateGetAdd(t *testing.T) {
	db := newRepoDB(t, &domain.UserKarma{})
	ctx := context.Background()

	if _, err := GetUserKarma(ctx, db, "u1"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := AddUserKarma(ctx, db, "u1", 5); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("increment without row should be not found, got %v", err)
	}

	if err := CreateUserKarma(ctx, db, "u1", domain.StartingKarma); err != nil {
		t.Fatalf("CreateUserKarma: %v", err)
	}
	if err := CreateUserKarma(ctx, db, "u1", domain.StartingKarma); !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("second create should be duplicate, got %v", err)
	}

	if err := AddUserKarma(ctx, db, "u1", 5); err != nil {
		t.Fatalf("AddUserKarma +5: %v", err)
	}
	if err := AddUserKarma(ctx, db, "u1", -2); err != nil {
		t.Fatalf("AddUserKarma -2: %v", err)
	}
	uk, err := GetUserKarma(ctx, db, "u1")
	if err != nil {
		t.Fatalf("GetUserKarma: %v", err)
	}
	if uk.TotalKarma != domain.StartingKarma+3 {
		t.Fatalf("total = %d, want %d", uk.TotalKarma, domain.StartingKarma+3)
	}
	if uk.LastUpdated.IsZero() {
		t.Fatal("LastUpdated not set")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{gorm.ErrDuplicatedKey, true},
		{errors.New("UNIQUE constraint failed: karma_history.user_id"), true},
		{errors.New("duplicate key value violates unique constraint \"ux\""), true},
		{errors.New("constraint failed: UNIQUE constraint failed: votes.id"), true},
		{errors.New("no such table: votes"), false},
		{gorm.ErrRecordNotFound, false},
	}
	for _, c := range cases {
		if got := isUniqueViolation(c.err); got != c.want {
			t.Fatalf("isUniqueViolation(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
