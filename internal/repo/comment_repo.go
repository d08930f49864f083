// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Comment
// model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
)

// CreateComment inserts a new comment under a fact check. parentCommentID
// may be nil for top-level comments.
func CreateComment(ctx context.Context, db *gorm.DB, factCheckID, userID, content string, parentCommentID *string) (*domain.Comment, error) {
	c := &domain.Comment{
		ID:              uuid.NewString(),
		FactCheckID:     factCheckID,
		UserID:          userID,
		Content:         content,
		ParentCommentID: parentCommentID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetComment fetches a comment by ID, or ErrNotFound.
func GetComment(ctx context.Context, db *gorm.DB, id string) (*domain.Comment, error) {
	var c domain.Comment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCommentsByFactCheck returns every comment under a fact check, oldest
// first so threads read top-down. Tombstoned comments are included; the
// service has already blanked their content.
func ListCommentsByFactCheck(ctx context.Context, db *gorm.DB, factCheckID string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Where("fact_check_id = ?", factCheckID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// UpdateCommentCounters persists the denormalized vote counters. Run inside
// the vote transaction, same as UpdateFactCheckCounters.
func UpdateCommentCounters(ctx context.Context, db *gorm.DB, id string, upvotes, downvotes int) error {
	res := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ?", id).
		Updates(map[string]any{"upvotes": upvotes, "downvotes": downvotes})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TombstoneComment marks a comment deleted and replaces its content,
// keeping the row so replies stay attached. Returns ErrNotFound when the
// comment does not exist.
func TombstoneComment(ctx context.Context, db *gorm.DB, id, content, moderatorReason, deletedBy string) error {
	res := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_deleted":       true,
			"content":          content,
			"moderator_reason": moderatorReason,
			"deleted_by":       deletedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
