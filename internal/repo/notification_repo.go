// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Notification model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
)

// CreateNotification inserts an unread notification row for userID.
func CreateNotification(ctx context.Context, db *gorm.DB, userID, factCheckID, message, typ string) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:          uuid.NewString(),
		UserID:      userID,
		FactCheckID: factCheckID,
		Message:     message,
		Type:        typ,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotifications returns a user's notifications, newest first, optionally
// restricted to unread rows.
func ListNotifications(ctx context.Context, db *gorm.DB, userID string, unreadOnly bool) ([]domain.Notification, error) {
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var out []domain.Notification
	err := q.Order("created_at desc").Find(&out).Error
	return out, err
}

// MarkNotificationRead flips the read flag, scoped to the owner so one user
// cannot acknowledge another's inbox. Returns ErrNotFound when no row
// matches.
func MarkNotificationRead(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
