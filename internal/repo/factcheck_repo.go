// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the FactCheck
// and Episode models.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateFactCheck inserts a new fact check for the given episode. The ID is
// a randomly generated UUID and the status starts as UNVALIDATED with zero
// counters.
func CreateFactCheck(ctx context.Context, db *gorm.DB, episodeID, submittedBy, claim, source string) (*domain.FactCheck, error) {
	fc := &domain.FactCheck{
		ID:          uuid.NewString(),
		EpisodeID:   episodeID,
		SubmittedBy: submittedBy,
		Claim:       claim,
		Source:      source,
		Status:      string(domain.StatusUnvalidated),
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(fc).Error; err != nil {
		return nil, err
	}
	return fc, nil
}

// GetFactCheck fetches a single fact check by ID, or ErrNotFound.
func GetFactCheck(ctx context.Context, db *gorm.DB, id string) (*domain.FactCheck, error) {
	var fc domain.FactCheck
	if err := db.WithContext(ctx).Where("id = ?", id).First(&fc).Error; err != nil {
		return nil, err
	}
	return &fc, nil
}

// ListFactChecksByEpisode returns every fact check attached to episodeID,
// newest first. It returns an empty slice when the episode has none.
func ListFactChecksByEpisode(ctx context.Context, db *gorm.DB, episodeID string) ([]domain.FactCheck, error) {
	var out []domain.FactCheck
	err := db.WithContext(ctx).
		Where("episode_id = ?", episodeID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// UpdateFactCheckStatus sets the validation status of a fact check. If no
// rows are affected (record missing), it returns ErrNotFound.
func UpdateFactCheckStatus(ctx context.Context, db *gorm.DB, id string, status domain.ValidationStatus) error {
	res := db.WithContext(ctx).
		Model(&domain.FactCheck{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateFactCheckCounters persists the denormalized vote counters. Callers
// must run this inside the vote transaction so counters and vote rows move
// together.
func UpdateFactCheckCounters(ctx context.Context, db *gorm.DB, id string, upvotes, downvotes int) error {
	res := db.WithContext(ctx).
		Model(&domain.FactCheck{}).
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

// DeleteFactCheck soft-deletes a fact check. Returns ErrNotFound when the
// record does not exist.
func DeleteFactCheck(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.FactCheck{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetEpisode fetches an episode by ID, or ErrNotFound.
func GetEpisode(ctx context.Context, db *gorm.DB, id string) (*domain.Episode, error) {
	var ep domain.Episode
	if err := db.WithContext(ctx).Where("id = ?", id).First(&ep).Error; err != nil {
		return nil, err
	}
	return &ep, nil
}

// CreateEpisode inserts an episode row. Used by seeding and tests; episodes
// normally arrive through the ingestion pipeline outside this service.
func CreateEpisode(ctx context.Context, db *gorm.DB, id, title string) (*domain.Episode, error) {
	if id == "" {
		id = uuid.NewString()
	}
	ep := &domain.Episode{ID: id, Title: title, CreatedAt: time.Now().UTC()}
	if err := db.WithContext(ctx).Create(ep).Error; err != nil {
		return nil, err
	}
	return ep, nil
}

// BumpEpisodeFactCheckCount adjusts the denormalized fact check counter by
// delta, flooring at zero. Missing episodes are ignored: a fact check may
// reference an episode this service has not seen.
func BumpEpisodeFactCheckCount(ctx context.Context, db *gorm.DB, episodeID string, delta int) error {
	return db.WithContext(ctx).
		Model(&domain.Episode{}).
		Where("id = ?", episodeID).
		UpdateColumn("fact_check_count", gorm.Expr("MAX(0, fact_check_count + ?)", delta)).Error
}
