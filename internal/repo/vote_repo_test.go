package repo

import (
	"context"
	"testing"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
)

func TestGetVoteValue_AbsentIsZero(t *testing.T) {
	db := newRepoDB(t, &domain.Vote{})
	v, err := GetVoteValue(context.Background(), db, domain.SubjectFactCheck, "fc1", "u1")
	if err != nil {
		t.Fatalf("GetVoteValue: %v", err)
	}
	if v != 0 {
		t.Fatalf("absent vote should read 0, got %d", v)
	}
}

func TestUpsertVote_InsertThenUpdate(t *testing.T) {
	db := newRepoDB(t, &domain.Vote{})
	ctx := context.Background()

	if err := UpsertVote(ctx, db, domain.SubjectFactCheck, "fc1", "u1", 1); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if v, _ := GetVoteValue(ctx, db, domain.SubjectFactCheck, "fc1", "u1"); v != 1 {
		t.Fatalf("after insert: v=%d", v)
	}

	// Flip in place; must not create a second row.
	if err := UpsertVote(ctx, db, domain.SubjectFactCheck, "fc1", "u1", -1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if v, _ := GetVoteValue(ctx, db, domain.SubjectFactCheck, "fc1", "u1"); v != -1 {
		t.Fatalf("after flip: v=%d", v)
	}
	var n int64
	db.Model(&domain.Vote{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected exactly one vote row, got %d", n)
	}
}

func TestUpsertVote_KindsAndUsersAreIndependentSlots(t *testing.T) {
	db := newRepoDB(t, &domain.Vote{})
	ctx := context.Background()

	// Same subject id under two kinds, plus a second user.
	_ = UpsertVote(ctx, db, domain.SubjectFactCheck, "x1", "u1", 1)
	_ = UpsertVote(ctx, db, domain.SubjectComment, "x1", "u1", -1)
	_ = UpsertVote(ctx, db, domain.SubjectFactCheck, "x1", "u2", -1)

	if v, _ := GetVoteValue(ctx, db, domain.SubjectFactCheck, "x1", "u1"); v != 1 {
		t.Fatalf("fact check slot: %d", v)
	}
	if v, _ := GetVoteValue(ctx, db, domain.SubjectComment, "x1", "u1"); v != -1 {
		t.Fatalf("comment slot: %d", v)
	}
	if v, _ := GetVoteValue(ctx, db, domain.SubjectFactCheck, "x1", "u2"); v != -1 {
		t.Fatalf("second user slot: %d", v)
	}
}

func TestDeleteVote_RemovesSlot_AbsentOK(t *testing.T) {
	db := newRepoDB(t, &domain.Vote{})
	ctx := context.Background()

	_ = UpsertVote(ctx, db, domain.SubjectFactCheck, "fc1", "u1", 1)
	if err := DeleteVote(ctx, db, domain.SubjectFactCheck, "fc1", "u1"); err != nil {
		t.Fatalf("DeleteVote: %v", err)
	}
	if v, _ := GetVoteValue(ctx, db, domain.SubjectFactCheck, "fc1", "u1"); v != 0 {
		t.Fatalf("slot should be empty after delete, got %d", v)
	}

	// Deleting an absent slot is not an error.
	if err := DeleteVote(ctx, db, domain.SubjectFactCheck, "fc1", "u1"); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}

func TestGetVotesForUser_Batched(t *testing.T) {
	db := newRepoDB(t, &domain.Vote{})
	ctx := context.Background()

	_ = UpsertVote(ctx, db, domain.SubjectFactCheck, "a", "u1", 1)
	_ = UpsertVote(ctx, db, domain.SubjectFactCheck, "b", "u1", -1)
	_ = UpsertVote(ctx, db, domain.SubjectFactCheck, "c", "other", 1)

	got, err := GetVotesForUser(ctx, db, domain.SubjectFactCheck, "u1", []string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatalf("GetVotesForUser: %v", err)
	}
	if len(got) != 2 || got["a"] != 1 || got["b"] != -1 {
		t.Fatalf("unexpected batch result: %#v", got)
	}
	if _, ok := got["c"]; ok {
		t.Fatalf("another user's vote leaked into the batch: %#v", got)
	}

	// Empty input short-circuits without touching the DB.
	empty, err := GetVotesForUser(ctx, db, domain.SubjectFactCheck, "u1", nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty batch: %#v err=%v", empty, err)
	}
}

func TestCountVotes_RecountsBySign(t *testing.T) {
	db := newRepoDB(t, &domain.Vote{})
	ctx := context.Background()

	_ = UpsertVote(ctx, db, domain.SubjectFactCheck, "fc1", "u1", 1)
	_ = UpsertVote(ctx, db, domain.SubjectFactCheck, "fc1", "u2", 1)
	_ = UpsertVote(ctx, db, domain.SubjectFactCheck, "fc1", "u3", -1)
	_ = UpsertVote(ctx, db, domain.SubjectComment, "fc1", "u4", 1) // different kind, excluded

	up, down, err := CountVotes(ctx, db, domain.SubjectFactCheck, "fc1")
	if err != nil {
		t.Fatalf("CountVotes: %v", err)
	}
	if up != 2 || down != 1 {
		t.Fatalf("recount = %d/%d, want 2/1", up, down)
	}
}

func TestVoteUniqueIndex_RejectsDuplicateSlot(t *testing.T) {
	db := newRepoDB(t, &domain.Vote{})

	// Bypass UpsertVote and insert two raw rows for the same slot.
	mk := func(id string) *domain.Vote {
		return &domain.Vote{
			ID: id, SubjectKind: domain.SubjectFactCheck, SubjectID: "fc1", UserID: "u1", Value: 1,
		}
	}
	if err := db.Create(mk("v1")).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := db.Create(mk("v2")).Error
	if err == nil || !isUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}
