// Handler wiring shared by every endpoint file in this package.
//
// Handlers are transport-thin: they validate input, call application
// services, and translate service errors into HTTP responses. Service
// dependencies are abstract interfaces so transport concerns stay separate
// from business logic.
package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
	"github.com/podtruth/go-factcheck-backend/internal/http/middleware"
	"github.com/podtruth/go-factcheck-backend/internal/services"
	"github.com/podtruth/go-factcheck-backend/internal/sysutil"
)

// VoteService defines the vote operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type VoteService interface {
	// Submit applies a vote value (-1, 0, +1) for voterID on one item.
	Submit(ctx context.Context, kind, itemID, voterID string, value int) (services.VoteCounts, error)
	// Counts returns the vote aggregate for one item.
	Counts(ctx context.Context, kind, itemID string) (services.VoteCounts, error)
	// Audit recounts the item's vote rows against the stored counters.
	Audit(ctx context.Context, kind, itemID string) (*services.VoteAudit, error)
	// UserVotes returns the batched itemID→value lookup for one user.
	UserVotes(ctx context.Context, kind, userID string, itemIDs []string) (map[string]int, error)
}

// KarmaService defines the ledger operations consumed by HTTP handlers.
type KarmaService interface {
	// GetTotal returns the user's karma total, lazily initialized.
	GetTotal(ctx context.Context, userID string) (int, error)
	// AuditTotal compares the stored total with a ledger recount.
	AuditTotal(ctx context.Context, userID string) (*services.KarmaAudit, error)
	// History returns one page of ledger entries plus the total count.
	History(ctx context.Context, userID string, page, pageSize int) ([]domain.KarmaHistoryEntry, int64, error)
}

// FactCheckService defines fact-check lifecycle operations consumed by
// HTTP handlers.
type FactCheckService interface {
	Create(ctx context.Context, episodeID, submittedBy, claim, source string) (*domain.FactCheck, error)
	Get(ctx context.Context, id string) (*domain.FactCheck, error)
	ListByEpisode(ctx context.Context, episodeID string) ([]domain.FactCheck, error)
	SetStatus(ctx context.Context, id string, status domain.ValidationStatus) (*domain.FactCheck, error)
	Delete(ctx context.Context, id, callerID string, moderator bool) error
}

// CommentService defines comment lifecycle operations consumed by HTTP
// handlers.
type CommentService interface {
	Create(ctx context.Context, factCheckID, userID, content string, parentCommentID *string) (*domain.Comment, error)
	Get(ctx context.Context, id string) (*domain.Comment, error)
	ListByFactCheck(ctx context.Context, factCheckID string) ([]domain.Comment, error)
	Delete(ctx context.Context, commentID, callerID string, moderator bool, reason string) error
}

// NotificationService defines the notification inbox operations consumed by
// HTTP handlers.
type NotificationService interface {
	List(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// IdempotencyStore persists and recalls idempotency records for unsafe
// POSTs. Record is best-effort: a failed write only means a retried request
// gets processed again, which the vote engine tolerates.
type IdempotencyStore interface {
	// Recall returns the result id stored by a previously completed request.
	Recall(ctx context.Context, userID, subjectID, key string) (resultID string, found bool)
	// Record stores the outcome of a completed request for later replays.
	Record(ctx context.Context, userID, subjectID, key, resultID string, status int)
}

// Handlers groups the HTTP endpoints for fact checks, comments, votes,
// karma, and notifications.
type Handlers struct {
	votes         VoteService
	karma         KarmaService
	factChecks    FactCheckService
	comments      CommentService
	notifications NotificationService
	idem          IdempotencyStore
}

// New constructs a Handlers instance bound to the given services.
func New(votes VoteService, karma KarmaService, fc FactCheckService, cm CommentService, nt NotificationService) *Handlers {
	return &Handlers{votes: votes, karma: karma, factChecks: fc, comments: cm, notifications: nt}
}

// WithIdempotency attaches the store that backs Idempotency-Key replays on
// vote and comment POSTs. Without it, keys are validated but not persisted.
func (h *Handlers) WithIdempotency(store IdempotencyStore) *Handlers {
	h.idem = store
	return h
}

// recordIdempotency stores the outcome of a completed request when the
// caller sent a valid Idempotency-Key and a store is attached.
func (h *Handlers) recordIdempotency(c *gin.Context, userID, subjectID, resultID string, status int) {
	if h.idem == nil {
		return
	}
	if key, okKey := middleware.GetIdempotencyKey(c); okKey {
		h.idem.Record(c.Request.Context(), userID, subjectID, key, resultID, status)
	}
}

// userID extracts the authenticated user id from Gin context (set by
// upstream middleware). If absent, it falls back to the "X-User-ID" header
// (tests use it), and finally to "demo-user".
func userID(c *gin.Context) string {
	fromCtx := ""
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			fromCtx = s
		}
	}
	fromHeader := ""
	if c != nil && c.Request != nil {
		fromHeader = strings.TrimSpace(c.GetHeader("X-User-ID"))
	}
	return sysutil.FirstNonEmpty(fromCtx, fromHeader, "demo-user")
}

// isModerator reports whether the caller presented the moderator shim
// header. Real authorization is an external collaborator; this mirrors the
// X-User-ID demo shim.
func isModerator(c *gin.Context) bool {
	return sysutil.IsTruthy(c.GetHeader("X-Moderator"))
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}
