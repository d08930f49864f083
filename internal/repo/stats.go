// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// counter auditing: comparing an item's denormalized vote counters against
// a recount of its vote rows.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
)

// VoteAudit is the result of comparing stored counters with a recount.
type VoteAudit struct {
	StoredUpvotes    int   `json:"stored_upvotes"`
	StoredDownvotes  int   `json:"stored_downvotes"`
	CountedUpvotes   int64 `json:"counted_upvotes"`
	CountedDownvotes int64 `json:"counted_downvotes"`
	Consistent       bool  `json:"consistent"`
}

// AuditFactCheckVotes recounts a fact check's vote rows and reports whether
// the denormalized counters agree. Returns ErrNotFound when the fact check
// does not exist.
func AuditFactCheckVotes(ctx context.Context, db *gorm.DB, factCheckID string) (*VoteAudit, error) {
	fc, err := GetFactCheck(ctx, db, factCheckID)
	if err != nil {
		return nil, err
	}
	return auditVotes(ctx, db, domain.SubjectFactCheck, factCheckID, fc.Upvotes, fc.Downvotes)
}

// AuditCommentVotes is the comment-side counterpart of AuditFactCheckVotes.
func AuditCommentVotes(ctx context.Context, db *gorm.DB, commentID string) (*VoteAudit, error) {
	cm, err := GetComment(ctx, db, commentID)
	if err != nil {
		return nil, err
	}
	return auditVotes(ctx, db, domain.SubjectComment, commentID, cm.Upvotes, cm.Downvotes)
}

func auditVotes(ctx context.Context, db *gorm.DB, kind, itemID string, storedUp, storedDown int) (*VoteAudit, error) {
	up, down, err := CountVotes(ctx, db, kind, itemID)
	if err != nil {
		return nil, err
	}
	return &VoteAudit{
		StoredUpvotes:    storedUp,
		StoredDownvotes:  storedDown,
		CountedUpvotes:   up,
		CountedDownvotes: down,
		Consistent:       int64(storedUp) == up && int64(storedDown) == down,
	}, nil
}

// SumKarmaPoints totals a user's ledger points. Together with the starting
// balance it is the ground truth the user_karma row should converge to.
func SumKarmaPoints(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var row struct {
		Total int64
	}
	err := db.WithContext(ctx).
		Model(&domain.KarmaHistoryEntry{}).
		Select("COALESCE(SUM(points), 0) AS total").
		Where("user_id = ?", userID).
		Scan(&row).Error
	return row.Total, err
}

// KarmaAudit compares a user's stored karma total with the ledger ground
// truth (starting balance plus summed points).
type KarmaAudit struct {
	StoredTotal int   `json:"stored_total"`
	LedgerTotal int64 `json:"ledger_total"`
	Consistent  bool  `json:"consistent"`
}

// AuditUserKarma recomputes a user's karma from the ledger and reports
// whether the stored total agrees. Returns ErrNotFound when the user has no
// karma row yet.
func AuditUserKarma(ctx context.Context, db *gorm.DB, userID string) (*KarmaAudit, error) {
	uk, err := GetUserKarma(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	sum, err := SumKarmaPoints(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	ledger := int64(domain.StartingKarma) + sum
	return &KarmaAudit{
		StoredTotal: uk.TotalKarma,
		LedgerTotal: ledger,
		Consistent:  int64(uk.TotalKarma) == ledger,
	}, nil
}
