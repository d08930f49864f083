// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the karma
// ledger: the append-only karma_history table and the running user_karma
// totals.
//
// The repository stays thin on purpose. The at-most-one-entry-per
// (user, action, target) rule lives in the schema as a unique index;
// duplicate inserts surface as ErrDuplicateEntry and the service layer
// decides what that means (a correctness no-op, not a failure).
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
)

// ErrDuplicateEntry indicates a ledger row already exists for the given
// (user_id, action, target_id) triple.
var ErrDuplicateEntry = errors.New("karma entry already recorded")

// InsertKarmaEntry appends one immutable ledger row. A unique violation on
// (user_id, action, target_id) is mapped to ErrDuplicateEntry; other DB
// errors propagate raw.
func InsertKarmaEntry(ctx context.Context, db *gorm.DB, userID string, action domain.KarmaAction, points int, targetID string) (*domain.KarmaHistoryEntry, error) {
	e := &domain.KarmaHistoryEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    string(action),
		Points:    points,
		TargetID:  targetID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEntry
		}
		return nil, err
	}
	return e, nil
}

// HasKarmaEntry reports whether a ledger row exists for the triple. Used as
// the cheap pre-check before attempting an insert; the unique index remains
// the authority under concurrency.
func HasKarmaEntry(ctx context.Context, db *gorm.DB, userID string, action domain.KarmaAction, targetID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.KarmaHistoryEntry{}).
		Where("user_id = ? AND action = ? AND target_id = ?", userID, string(action), targetID).
		Count(&n).Error
	return n > 0, err
}

// ListKarmaHistory returns a page of a user's ledger rows, newest first,
// plus the total row count for pagination metadata.
func ListKarmaHistory(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.KarmaHistoryEntry, int64, error) {
	var total int64
	base := db.WithContext(ctx).Model(&domain.KarmaHistoryEntry{}).Where("user_id = ?", userID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.KarmaHistoryEntry
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, total, err
}

// GetUserKarma fetches the running total row, or ErrNotFound when the user
// has never been touched by the ledger.
func GetUserKarma(ctx context.Context, db *gorm.DB, userID string) (*domain.UserKarma, error) {
	var uk domain.UserKarma
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&uk).Error; err != nil {
		return nil, err
	}
	return &uk, nil
}

// CreateUserKarma inserts the lazily-initialized total row. Concurrent
// initialization races surface as ErrDuplicateEntry via the primary key.
func CreateUserKarma(ctx context.Context, db *gorm.DB, userID string, total int) error {
	uk := &domain.UserKarma{
		UserID:      userID,
		TotalKarma:  total,
		LastUpdated: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(uk).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEntry
		}
		return err
	}
	return nil
}

// AddUserKarma increments an existing total in place. Returns ErrNotFound
// when no row exists yet (caller then creates one).
func AddUserKarma(ctx context.Context, db *gorm.DB, userID string, delta int) error {
	res := db.WithContext(ctx).
		Model(&domain.UserKarma{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"total_karma":  gorm.Expr("total_karma + ?", delta),
			"last_updated": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// isUniqueViolation detects unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// glebarez/sqlite: "UNIQUE constraint failed: ..."
	// Postgres: "duplicate key value violates unique constraint"
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint") ||
		strings.Contains(low, "duplicate key") ||
		strings.Contains(low, "constraint failed: unique")
}
