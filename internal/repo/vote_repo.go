// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Vote model.
//
// The vote store keeps at most one row per (subject_kind, subject_id,
// user_id); the unique index in the schema enforces it. A value of zero is
// never stored — "no vote" is the absence of a row, which is why the lookup
// helpers translate a missing row into 0 for callers.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
)

// GetVoteValue returns the caller's current vote value on one item: -1, +1,
// or 0 when no vote row exists. DB errors other than not-found propagate.
func GetVoteValue(ctx context.Context, db *gorm.DB, kind, subjectID, userID string) (int, error) {
	var v domain.Vote
	err := db.WithContext(ctx).
		Where("subject_kind = ? AND subject_id = ? AND user_id = ?", kind, subjectID, userID).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return v.Value, nil
}

// GetVotesForUser is the batched variant of GetVoteValue: one query for many
// subject IDs. Items the user has not voted on are simply absent from the
// returned map (callers treat absence as 0).
func GetVotesForUser(ctx context.Context, db *gorm.DB, kind, userID string, subjectIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(subjectIDs))
	if len(subjectIDs) == 0 {
		return out, nil
	}
	var rows []domain.Vote
	err := db.WithContext(ctx).
		Where("subject_kind = ? AND user_id = ? AND subject_id IN ?", kind, userID, subjectIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.SubjectID] = r.Value
	}
	return out, nil
}

// UpsertVote writes the vote slot for (kind, subjectID, userID) to value.
// An existing row is updated in place; otherwise a new row is inserted.
// value must be -1 or +1 — removal goes through DeleteVote.
func UpsertVote(ctx context.Context, db *gorm.DB, kind, subjectID, userID string, value int) error {
	now := time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("subject_kind = ? AND subject_id = ? AND user_id = ?", kind, subjectID, userID).
		Updates(map[string]any{"value": value, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&domain.Vote{
		ID:          uuid.NewString(),
		SubjectKind: kind,
		SubjectID:   subjectID,
		UserID:      userID,
		Value:       value,
		CreatedAt:   now,
		UpdatedAt:   now,
	}).Error
}

// DeleteVote removes the vote slot, if present. Deleting an absent slot is
// not an error; the caller has already decided the slot should be empty.
func DeleteVote(ctx context.Context, db *gorm.DB, kind, subjectID, userID string) error {
	return db.WithContext(ctx).
		Where("subject_kind = ? AND subject_id = ? AND user_id = ?", kind, subjectID, userID).
		Delete(&domain.Vote{}).Error
}

// CountVotes recomputes an item's aggregate from the vote rows themselves.
// This is the audit/repair path; the hot path reads the denormalized
// counters on the item.
func CountVotes(ctx context.Context, db *gorm.DB, kind, subjectID string) (upvotes, downvotes int64, err error) {
	q := db.WithContext(ctx).Model(&domain.Vote{}).
		Where("subject_kind = ? AND subject_id = ?", kind, subjectID)

	if err = q.Session(&gorm.Session{}).Where("value = 1").Count(&upvotes).Error; err != nil {
		return 0, 0, err
	}
	if err = q.Session(&gorm.Session{}).Where("value = -1").Count(&downvotes).Error; err != nil {
		return 0, 0, err
	}
	return upvotes, downvotes, nil
}
