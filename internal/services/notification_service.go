// Package services – NotificationService
//
// Notifications are best-effort inbox rows: the events that create them
// (replies, moderation) must never fail because a notification could not be
// written, so Notify logs failures instead of returning them. Listing and
// acknowledgement are plain reads/updates.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
	"github.com/podtruth/go-factcheck-backend/internal/repo"
)

// NotificationService records and lists per-user notifications.
type NotificationService struct {
	DB *gorm.DB
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Notify writes a notification row, logging (not returning) failures.
func (s *NotificationService) Notify(ctx context.Context, userID, factCheckID, message, typ string) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(message) == "" {
		return
	}
	if _, err := repo.CreateNotification(ctx, s.DB, userID, factCheckID, message, typ); err != nil {
		log.Warn().Err(err).
			Str("user_id", userID).
			Str("type", typ).
			Msg("notification not recorded")
	}
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidArgument
	}
	return repo.ListNotifications(ctx, s.DB, userID, unreadOnly)
}

// MarkRead acknowledges one notification for its owner.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	err := repo.MarkNotificationRead(ctx, s.DB, id, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
