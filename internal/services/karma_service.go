// Package services – KarmaService
//
// This file implements the karma ledger: an append-only history of
// point-valued actions and a running per-user total. The ledger's contract:
//
//   - At most one entry per (user, action, target). Re-processing the same
//     event is a no-op, not an error, which makes appends safe to retry.
//   - The total row is created lazily at domain.StartingKarma on first
//     touch and always moves together with the appended entry, inside one
//     transaction.
//   - Transient transaction conflicts are retried a bounded number of
//     times; a detected duplicate is returned immediately without retrying.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
	"github.com/podtruth/go-factcheck-backend/internal/repo"
)

// KarmaService owns the karma ledger and user totals.
type KarmaService struct {
	// DB is the database handle used for all ledger operations.
	DB *gorm.DB

	// MaxRetries bounds the retry loop around the append transaction.
	// Zero means a single attempt.
	MaxRetries int
}

// NewKarmaService constructs a KarmaService with the default retry bound.
func NewKarmaService(db *gorm.DB) *KarmaService {
	return &KarmaService{DB: db, MaxRetries: 3}
}

// GetTotal returns the user's current karma total, lazily creating the
// total row at the starting balance when the user has none yet.
func (s *KarmaService) GetTotal(ctx context.Context, userID string) (int, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, ErrInvalidArgument
	}

	uk, err := repo.GetUserKarma(ctx, s.DB, userID)
	if err == nil {
		return uk.TotalKarma, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return 0, err
	}

	// First touch: initialize at the starting balance. A concurrent
	// initializer winning the race is fine, the row it created is the one
	// we wanted.
	if err := repo.CreateUserKarma(ctx, s.DB, userID, domain.StartingKarma); err != nil &&
		!errors.Is(err, repo.ErrDuplicateEntry) {
		return 0, err
	}
	uk, err = repo.GetUserKarma(ctx, s.DB, userID)
	if err != nil {
		return 0, err
	}
	return uk.TotalKarma, nil
}

// KarmaAudit is the recount report: the stored total next to the ledger
// ground truth.
type KarmaAudit = repo.KarmaAudit

// AuditTotal recomputes the user's karma from the ledger and compares it
// with the stored total. The row is lazily initialized first, so auditing
// an untouched user reports a consistent starting balance.
func (s *KarmaService) AuditTotal(ctx context.Context, userID string) (*KarmaAudit, error) {
	if _, err := s.GetTotal(ctx, userID); err != nil {
		return nil, err
	}
	return repo.AuditUserKarma(ctx, s.DB, userID)
}

// Append records one karma event for userID against targetID. It returns
// true when a new ledger entry was written and the total moved, false when
// the same (user, action, target) event had already been recorded.
//
// Validation: empty userID/targetID or an unrecognized action yield
// ErrInvalidArgument before any mutation.
//
// Atomicity: the duplicate check, the total upsert, and the entry insert run
// in a single transaction. The unique index on the triple is the authority
// under concurrency — a duplicate slipping past the pre-check surfaces as a
// unique violation inside the transaction and is reported as false, not as
// an error.
func (s *KarmaService) Append(ctx context.Context, userID string, action domain.KarmaAction, targetID string) (bool, error) {
	tr := otel.Tracer("services/KarmaService")
	ctx, span := tr.Start(ctx, "Append",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("karma.action", string(action)),
			attribute.String("karma.target_id", targetID),
		),
	)
	defer span.End()

	if strings.TrimSpace(userID) == "" || strings.TrimSpace(targetID) == "" || !action.IsValid() {
		return false, ErrInvalidArgument
	}
	pts := Points(action)

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		applied, err := s.appendOnce(ctx, userID, action, pts, targetID)
		if err == nil {
			return applied, nil
		}
		if errors.Is(err, ErrInvalidArgument) {
			return false, err
		}
		lastErr = err
		if !isRetryable(err) {
			return false, err
		}
		sleepBackoff(ctx, attempt)
	}

	log.Error().Err(lastErr).
		Str("user_id", userID).
		Str("action", string(action)).
		Str("target_id", targetID).
		Msg("karma append retries exhausted")
	return false, ErrTransactionConflict
}

// appendOnce runs a single append transaction. Returns applied=false with a
// nil error on a detected duplicate.
func (s *KarmaService) appendOnce(ctx context.Context, userID string, action domain.KarmaAction, pts int, targetID string) (bool, error) {
	applied := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := repo.HasKarmaEntry(ctx, tx, userID, action, targetID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		if _, err := repo.InsertKarmaEntry(ctx, tx, userID, action, pts, targetID); err != nil {
			if errors.Is(err, repo.ErrDuplicateEntry) {
				// Lost the race to an identical event; same outcome.
				return nil
			}
			return err
		}

		if err := repo.AddUserKarma(ctx, tx, userID, pts); err != nil {
			if !errors.Is(err, repo.ErrNotFound) {
				return err
			}
			// First ledger touch for this user: total row starts at the
			// starting balance plus this entry's points.
			if err := repo.CreateUserKarma(ctx, tx, userID, domain.StartingKarma+pts); err != nil {
				return err
			}
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// History returns one page of the user's ledger, newest first, plus the
// total number of entries.
func (s *KarmaService) History(ctx context.Context, userID string, page, pageSize int) ([]domain.KarmaHistoryEntry, int64, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, 0, ErrInvalidArgument
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}
	return repo.ListKarmaHistory(ctx, s.DB, userID, (page-1)*pageSize, pageSize)
}

// isRetryable reports whether a transaction error is worth another attempt.
// SQLite surfaces write contention as "database is locked"/"busy"; serial
// stores as serialization failures.
func isRetryable(err error) bool {
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "database is locked") ||
		strings.Contains(low, "busy") ||
		strings.Contains(low, "serialization") ||
		strings.Contains(low, "deadlock")
}

// sleepBackoff waits briefly before the next attempt, bailing out early if
// the context is done.
func sleepBackoff(ctx context.Context, attempt int) {
	d := time.Duration(attempt+1) * 25 * time.Millisecond
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
