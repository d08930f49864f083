// Package services – VoteService
//
// This file implements the vote transaction orchestrator. A vote submission
// runs as one storage transaction over exactly two aggregates: the item's
// denormalized counters and the caller's single vote slot on that item.
// Everything else — the karma owed to the voter and the item's owner — is
// derived after commit from a VoteApplied event and appended to the ledger
// best-effort (see vote_events.go and §Concurrency notes below).
//
// Concurrency:
//   - The transaction re-reads the item and the prior vote inside the
//     transaction, never from a caller-supplied snapshot, so concurrent
//     voters on the same item serialize without lost counter updates.
//   - Karma appends stay outside the transaction: they touch per-user
//     aggregates, and the ledger's (user, action, target) de-duplication
//     makes delayed or repeated delivery harmless. Failed appends are
//     retried a bounded number of times and then logged with enough
//     context to replay.
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

// VoteService orchestrates vote transactions on fact checks and comments.
type VoteService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Karma receives the ledger appends derived from committed votes.
	Karma *KarmaService
	// MaxRetries bounds the retry loop around the vote transaction.
	MaxRetries int
}

// NewVoteService constructs a VoteService with the default retry bound.
func NewVoteService(db *gorm.DB, karma *KarmaService) *VoteService {
	return &VoteService{DB: db, Karma: karma, MaxRetries: 3}
}

// VoteCounts is the denormalized aggregate exposed to callers.
type VoteCounts struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

// Submit applies the requested vote value for voterID on one item and
// settles the karma it earns. value must be -1, 0 (remove), or +1.
//
// Semantics:
//   - Re-submitting the current value is an idempotent no-op.
//   - The old value's counter effect is removed with a max(0, n-1) floor,
//     then the new value's effect is added; value 0 deletes the vote slot.
//   - ErrFactCheckNotFound / ErrCommentNotFound when the item is missing.
//   - ErrTransactionConflict after the bounded retry loop is exhausted.
//
// Karma failures never fail the vote: the vote is committed at that point
// and the ledger appends are idempotent and replayable.
func (s *VoteService) Submit(ctx context.Context, kind, itemID, voterID string, value int) (VoteCounts, error) {
	tr := otel.Tracer("services/VoteService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(
			attribute.String("vote.kind", kind),
			attribute.String("vote.item_id", itemID),
			attribute.String("user.id", voterID),
			attribute.Int("vote.value", value),
		),
	)
	defer span.End()

	if value < -1 || value > 1 {
		return VoteCounts{}, ErrInvalidVote
	}
	if kind != domain.SubjectFactCheck && kind != domain.SubjectComment {
		return VoteCounts{}, ErrInvalidVote
	}
	if strings.TrimSpace(itemID) == "" || strings.TrimSpace(voterID) == "" {
		return VoteCounts{}, ErrInvalidArgument
	}

	var (
		counts  VoteCounts
		evt     VoteApplied
		lastErr error
	)
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		counts, evt, lastErr = s.submitOnce(ctx, kind, itemID, voterID, value)
		if lastErr == nil {
			break
		}
		if !isRetryable(lastErr) {
			return VoteCounts{}, s.translate(kind, lastErr)
		}
		sleepBackoff(ctx, attempt)
	}
	if lastErr != nil {
		log.Error().Err(lastErr).
			Str("kind", kind).
			Str("item_id", itemID).
			Str("voter_id", voterID).
			Msg("vote transaction retries exhausted")
		return VoteCounts{}, ErrTransactionConflict
	}

	s.settleKarma(ctx, evt)
	return counts, nil
}

// submitOnce runs a single vote transaction and returns the applied event.
// A no-op re-vote returns the current counters with evt.Old == evt.New.
func (s *VoteService) submitOnce(ctx context.Context, kind, itemID, voterID string, value int) (VoteCounts, VoteApplied, error) {
	var (
		counts VoteCounts
		evt    VoteApplied
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var (
			ownerID   string
			status    domain.ValidationStatus
			upvotes   int
			downvotes int
		)

		switch kind {
		case domain.SubjectFactCheck:
			fc, err := repo.GetFactCheck(ctx, tx, itemID)
			if err != nil {
				return err
			}
			ownerID, status = fc.SubmittedBy, domain.ValidationStatus(fc.Status)
			upvotes, downvotes = fc.Upvotes, fc.Downvotes
		case domain.SubjectComment:
			c, err := repo.GetComment(ctx, tx, itemID)
			if err != nil {
				return err
			}
			ownerID = c.UserID
			upvotes, downvotes = c.Upvotes, c.Downvotes
		}

		oldValue, err := repo.GetVoteValue(ctx, tx, kind, itemID, voterID)
		if err != nil {
			return err
		}

		evt = VoteApplied{
			Kind:         kind,
			ItemID:       itemID,
			VoterID:      voterID,
			OwnerID:      ownerID,
			OldValue:     oldValue,
			NewValue:     value,
			StatusAtVote: status,
		}

		// Idempotent re-vote: commit with no changes.
		if oldValue == value {
			counts = VoteCounts{Upvotes: upvotes, Downvotes: downvotes}
			return nil
		}

		// Undo the old vote. The floor guards against drift from any prior
		// inconsistency; counters never go negative.
		switch oldValue {
		case 1:
			upvotes = max(0, upvotes-1)
		case -1:
			downvotes = max(0, downvotes-1)
		}
		// Apply the new vote.
		switch value {
		case 1:
			upvotes++
		case -1:
			downvotes++
		}

		if value == 0 {
			if err := repo.DeleteVote(ctx, tx, kind, itemID, voterID); err != nil {
				return err
			}
		} else {
			if err := repo.UpsertVote(ctx, tx, kind, itemID, voterID, value); err != nil {
				return err
			}
		}

		switch kind {
		case domain.SubjectFactCheck:
			err = repo.UpdateFactCheckCounters(ctx, tx, itemID, upvotes, downvotes)
		case domain.SubjectComment:
			err = repo.UpdateCommentCounters(ctx, tx, itemID, upvotes, downvotes)
		}
		if err != nil {
			return err
		}

		counts = VoteCounts{Upvotes: upvotes, Downvotes: downvotes}
		return nil
	})
	return counts, evt, err
}

// settleKarma appends every ledger entry the committed vote earns. Each
// append already retries internally; a final failure is logged by the
// ledger with replay context and deliberately not propagated.
func (s *VoteService) settleKarma(ctx context.Context, evt VoteApplied) {
	for _, a := range KarmaAwardsFor(evt) {
		if _, err := s.Karma.Append(ctx, a.UserID, a.Action, a.TargetID); err != nil {
			log.Warn().Err(err).
				Str("user_id", a.UserID).
				Str("action", string(a.Action)).
				Str("target_id", a.TargetID).
				Msg("karma award not settled")
		}
	}
}

// Counts returns the denormalized aggregate for one item.
func (s *VoteService) Counts(ctx context.Context, kind, itemID string) (VoteCounts, error) {
	switch kind {
	case domain.SubjectFactCheck:
		fc, err := repo.GetFactCheck(ctx, s.DB, itemID)
		if err != nil {
			return VoteCounts{}, s.translate(kind, err)
		}
		return VoteCounts{Upvotes: fc.Upvotes, Downvotes: fc.Downvotes}, nil
	case domain.SubjectComment:
		c, err := repo.GetComment(ctx, s.DB, itemID)
		if err != nil {
			return VoteCounts{}, s.translate(kind, err)
		}
		return VoteCounts{Upvotes: c.Upvotes, Downvotes: c.Downvotes}, nil
	}
	return VoteCounts{}, ErrInvalidVote
}

// VoteAudit is the recount report: stored counters next to a fresh count
// of the vote rows.
type VoteAudit = repo.VoteAudit

// Audit recounts an item's vote rows and compares them with the stored
// counters. This is the recount=true path of the counts endpoints.
func (s *VoteService) Audit(ctx context.Context, kind, itemID string) (*VoteAudit, error) {
	switch kind {
	case domain.SubjectFactCheck:
		a, err := repo.AuditFactCheckVotes(ctx, s.DB, itemID)
		if err != nil {
			return nil, s.translate(kind, err)
		}
		return a, nil
	case domain.SubjectComment:
		a, err := repo.AuditCommentVotes(ctx, s.DB, itemID)
		if err != nil {
			return nil, s.translate(kind, err)
		}
		return a, nil
	}
	return nil, ErrInvalidVote
}

// UserVotes is the batched vote lookup: itemID → value for every item in
// itemIDs the user has voted on. Absent entries mean "no vote".
func (s *VoteService) UserVotes(ctx context.Context, kind, userID string, itemIDs []string) (map[string]int, error) {
	if kind != domain.SubjectFactCheck && kind != domain.SubjectComment {
		return nil, ErrInvalidVote
	}
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidArgument
	}
	return repo.GetVotesForUser(ctx, s.DB, kind, userID, itemIDs)
}

// translate maps repo-level not-found onto the kind-specific sentinel.
func (s *VoteService) translate(kind string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		if kind == domain.SubjectComment {
			return ErrCommentNotFound
		}
		return ErrFactCheckNotFound
	}
	return err
}
