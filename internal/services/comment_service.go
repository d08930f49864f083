// Package services – CommentService
//
// This file implements threaded comments under fact checks. Creating a
// comment awards submission karma and notifies the parent author on
// replies; deletion is a tombstone that keeps the thread intact, and a
// moderator deletion additionally notifies and costs the author.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
	"github.com/podtruth/go-factcheck-backend/internal/repo"
)

// CommentService coordinates comment persistence, karma, and reply
// notifications.
type CommentService struct {
	DB            *gorm.DB
	Karma         *KarmaService
	Notifications *NotificationService

	// MaxContentRunes caps comment length. Zero disables the cap.
	MaxContentRunes int
}

// NewCommentService constructs a CommentService with default limits.
func NewCommentService(db *gorm.DB, karma *KarmaService, notif *NotificationService) *CommentService {
	return &CommentService{DB: db, Karma: karma, Notifications: notif, MaxContentRunes: 2000}
}

// Create adds a comment (optionally as a reply), awards submission karma,
// and notifies the parent comment's author on replies to someone else.
func (s *CommentService) Create(ctx context.Context, factCheckID, userID, content string, parentCommentID *string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if factCheckID == "" || userID == "" || content == "" {
		return nil, ErrInvalidArgument
	}
	if s.MaxContentRunes > 0 && utf8.RuneCountInString(content) > s.MaxContentRunes {
		return nil, ErrInvalidArgument
	}

	// The fact check must exist; comments never dangle.
	if _, err := repo.GetFactCheck(ctx, s.DB, factCheckID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrFactCheckNotFound
		}
		return nil, err
	}

	var parent *domain.Comment
	if parentCommentID != nil && *parentCommentID != "" {
		var err error
		parent, err = repo.GetComment(ctx, s.DB, *parentCommentID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
	}

	c, err := repo.CreateComment(ctx, s.DB, factCheckID, userID, content, parentCommentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.Karma.Append(ctx, userID, domain.ActionSubmitComment, c.ID); err != nil {
		log.Warn().Err(err).Str("comment_id", c.ID).Msg("comment karma not settled")
	}

	if parent != nil && parent.UserID != userID {
		s.Notifications.Notify(ctx, parent.UserID, factCheckID,
			"Someone replied to your comment: "+clip(content, 100),
			domain.NotificationCommentReply)
	}
	return c, nil
}

// Get returns a single comment by id, or ErrCommentNotFound.
func (s *CommentService) Get(ctx context.Context, id string) (*domain.Comment, error) {
	c, err := repo.GetComment(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrCommentNotFound
	}
	return c, err
}

// ListByFactCheck returns a fact check's comment thread, oldest first.
func (s *CommentService) ListByFactCheck(ctx context.Context, factCheckID string) ([]domain.Comment, error) {
	if strings.TrimSpace(factCheckID) == "" {
		return nil, ErrInvalidArgument
	}
	return repo.ListCommentsByFactCheck(ctx, s.DB, factCheckID)
}

// Delete tombstones a comment. The author may delete their own comment; a
// moderator may delete anyone's, which notifies the author and applies the
// deletion karma.
func (s *CommentService) Delete(ctx context.Context, commentID, callerID string, moderator bool, reason string) error {
	c, err := repo.GetComment(ctx, s.DB, commentID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if callerID != c.UserID && !moderator {
		return ErrPermissionDenied
	}
	moderatorAction := moderator && callerID != c.UserID

	content := "This comment was deleted by the user"
	modReason := ""
	if moderatorAction {
		content = "Comment deleted by a moderator"
		if reason != "" {
			content += ": " + reason
		}
		modReason = reason
	}

	if err := repo.TombstoneComment(ctx, s.DB, commentID, content, modReason, callerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if moderatorAction {
		msg := "Your comment was deleted by a moderator."
		if reason != "" {
			msg = "Your comment was deleted by a moderator. Reason: " + reason
		}
		s.Notifications.Notify(ctx, c.UserID, c.FactCheckID, msg, domain.NotificationModeration)

		if _, err := s.Karma.Append(ctx, c.UserID, domain.ActionCommentDeleted, commentID); err != nil {
			log.Warn().Err(err).Str("comment_id", commentID).Msg("deletion karma not settled")
		}
	}
	return nil
}

// clip shortens s to at most n runes, appending an ellipsis when truncated.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
