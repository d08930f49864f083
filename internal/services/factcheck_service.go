// Package services – FactCheckService
//
// This file implements the lifecycle of fact checks: submission, per-episode
// listing, moderation status changes, and deletion. Lifecycle events feed
// the karma ledger (submission and moderation outcomes reward or cost the
// submitter) and moderation changes notify the submitter. Ledger appends are
// idempotent, so the service can call them after its own writes without
// coordinating a cross-aggregate transaction.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
	"github.com/podtruth/go-factcheck-backend/internal/repo"
)

// FactCheckService coordinates fact check persistence, episode counters,
// karma, and moderation notifications.
type FactCheckService struct {
	DB            *gorm.DB
	Karma         *KarmaService
	Notifications *NotificationService

	// MaxClaimRunes caps the submitted claim length. Zero disables the cap.
	MaxClaimRunes int
}

// NewFactCheckService constructs a FactCheckService with default limits.
func NewFactCheckService(db *gorm.DB, karma *KarmaService, notif *NotificationService) *FactCheckService {
	return &FactCheckService{DB: db, Karma: karma, Notifications: notif, MaxClaimRunes: 4000}
}

// Create submits a new fact check, bumps the episode's counter, and awards
// the submission karma.
func (s *FactCheckService) Create(ctx context.Context, episodeID, submittedBy, claim, source string) (*domain.FactCheck, error) {
	tr := otel.Tracer("services/FactCheckService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("episode.id", episodeID),
			attribute.String("user.id", submittedBy),
		),
	)
	defer span.End()

	claim = strings.TrimSpace(claim)
	if episodeID == "" || submittedBy == "" || claim == "" {
		return nil, ErrInvalidArgument
	}
	if s.MaxClaimRunes > 0 && len([]rune(claim)) > s.MaxClaimRunes {
		return nil, ErrInvalidArgument
	}

	var fc *domain.FactCheck
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		fc, err = repo.CreateFactCheck(ctx, tx, episodeID, submittedBy, claim, strings.TrimSpace(source))
		if err != nil {
			return err
		}
		return repo.BumpEpisodeFactCheckCount(ctx, tx, episodeID, 1)
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.Karma.Append(ctx, submittedBy, domain.ActionSubmitFact, fc.ID); err != nil {
		log.Warn().Err(err).Str("fact_check_id", fc.ID).Msg("submission karma not settled")
	}
	return fc, nil
}

// Get returns one fact check or ErrFactCheckNotFound.
func (s *FactCheckService) Get(ctx context.Context, id string) (*domain.FactCheck, error) {
	fc, err := repo.GetFactCheck(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrFactCheckNotFound
	}
	return fc, err
}

// ListByEpisode returns every fact check on an episode, newest first.
func (s *FactCheckService) ListByEpisode(ctx context.Context, episodeID string) ([]domain.FactCheck, error) {
	if strings.TrimSpace(episodeID) == "" {
		return nil, ErrInvalidArgument
	}
	return repo.ListFactChecksByEpisode(ctx, s.DB, episodeID)
}

// SetStatus applies a moderation verdict. Karma is awarded only when the
// status genuinely changes, and the submitter is notified of the outcome.
func (s *FactCheckService) SetStatus(ctx context.Context, id string, status domain.ValidationStatus) (*domain.FactCheck, error) {
	if !status.IsValid() {
		return nil, ErrInvalidArgument
	}

	fc, err := repo.GetFactCheck(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrFactCheckNotFound
		}
		return nil, err
	}
	if domain.ValidationStatus(fc.Status) == status {
		return fc, nil
	}

	if err := repo.UpdateFactCheckStatus(ctx, s.DB, id, status); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrFactCheckNotFound
		}
		return nil, err
	}
	fc.Status = string(status)

	if action, ok := moderationAction(status); ok {
		if _, err := s.Karma.Append(ctx, fc.SubmittedBy, action, fc.ID); err != nil {
			log.Warn().Err(err).Str("fact_check_id", fc.ID).Msg("moderation karma not settled")
		}
	}
	s.Notifications.Notify(ctx, fc.SubmittedBy, fc.ID,
		"A moderator reviewed your fact check: "+string(status),
		domain.NotificationModeration)
	return fc, nil
}

// Delete removes a fact check, decrements the episode counter, and applies
// the deletion karma to the submitter. Only the submitter or a moderator
// may delete.
func (s *FactCheckService) Delete(ctx context.Context, id, callerID string, moderator bool) error {
	fc, err := repo.GetFactCheck(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrFactCheckNotFound
		}
		return err
	}
	if !moderator && fc.SubmittedBy != callerID {
		return ErrPermissionDenied
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.DeleteFactCheck(ctx, tx, id); err != nil {
			return err
		}
		return repo.BumpEpisodeFactCheckCount(ctx, tx, fc.EpisodeID, -1)
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrFactCheckNotFound
		}
		return err
	}

	if _, err := s.Karma.Append(ctx, fc.SubmittedBy, domain.ActionFactDeleted, fc.ID); err != nil {
		log.Warn().Err(err).Str("fact_check_id", fc.ID).Msg("deletion karma not settled")
	}
	return nil
}

// moderationAction maps a validation status to the submitter's karma
// action. UNVALIDATED (a verdict being withdrawn) earns nothing.
func moderationAction(status domain.ValidationStatus) (domain.KarmaAction, bool) {
	switch status {
	case domain.StatusValidatedTrue:
		return domain.ActionFactValidatedTrue, true
	case domain.StatusValidatedFalse:
		return domain.ActionFactValidatedFalse, true
	case domain.StatusControversial:
		return domain.ActionFactValidatedControversy, true
	default:
		return "", false
	}
}
