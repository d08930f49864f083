// Vote HTTP handlers.
//
// This file exposes the REST endpoints for the vote engine:
//   - POST /fact-checks/{id}/votes   (submit/change/remove a vote)
//   - GET  /fact-checks/{id}/votes   (vote counts, optional recount audit)
//   - POST /comments/{id}/votes      (comment variant)
//   - GET  /comments/{id}/votes
//   - GET  /users/{id}/votes         (batched lookup of a user's votes)
//
// Vote values are constrained to {-1, 0, +1}: -1 downvote, +1 upvote, 0
// removes the caller's vote.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
	"github.com/podtruth/go-factcheck-backend/internal/http/middleware"
	"github.com/podtruth/go-factcheck-backend/internal/services"
	"github.com/podtruth/go-factcheck-backend/internal/sysutil"
)

// SubmitVoteRequest is the JSON payload for submitting a vote.
//
// Value must be one of:
//   - +1 : upvote
//   - -1 : downvote
//   - 0 : remove the caller's existing vote
type SubmitVoteRequest struct {
	// Value is the vote signal: -1, 0, or +1.
	Value *int `json:"value" binding:"required" example:"1"`
}

// SubmitFactCheckVote godoc
// @ID          submitFactCheckVote
// @Summary     Vote on a fact check
// @Description Applies an upvote (+1), downvote (-1), or vote removal (0) for the calling user.
// @Tags        Votes
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string false "User ID (demo header)" example(user123)
// @Param       id        path   string true  "Fact check ID (UUID)" format(uuid)
// @Param       body      body   handlers.SubmitVoteRequest true "Vote payload"
// @Success     200 {object} services.VoteCounts
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload"
// @Failure     404 {object} handlers.ErrorResponse "Fact check not found"
// @Failure     503 {object} handlers.ErrorResponse "Transaction conflict"
// @Router      /fact-checks/{id}/votes [post]
func (h *Handlers) SubmitFactCheckVote(c *gin.Context) {
	h.submitVote(c, domain.SubjectFactCheck)
}

// SubmitCommentVote godoc
// @ID          submitCommentVote
// @Summary     Vote on a comment
// @Description Applies an upvote (+1), downvote (-1), or vote removal (0) for the calling user.
// @Tags        Votes
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string false "User ID (demo header)" example(user123)
// @Param       id        path   string true  "Comment ID (UUID)" format(uuid)
// @Param       body      body   handlers.SubmitVoteRequest true "Vote payload"
// @Success     200 {object} services.VoteCounts
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload"
// @Failure     404 {object} handlers.ErrorResponse "Comment not found"
// @Failure     503 {object} handlers.ErrorResponse "Transaction conflict"
// @Router      /comments/{id}/votes [post]
func (h *Handlers) SubmitCommentVote(c *gin.Context) {
	h.submitVote(c, domain.SubjectComment)
}

func (h *Handlers) submitVote(c *gin.Context, kind string) {
	var req SubmitVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "value must be -1, 0 or 1")
		return
	}

	itemID := c.Param("id")
	uid := userID(c)

	// A stored Idempotency-Key replay serves the current counts without
	// re-running the transaction or touching the ledger.
	if middleware.IsReplay(c) {
		counts, err := h.votes.Counts(c.Request.Context(), kind, itemID)
		if err == nil {
			c.Header("Idempotency-Replayed", "true")
			ok(c, http.StatusOK, counts)
			return
		}
	}

	counts, err := h.votes.Submit(c.Request.Context(), kind, itemID, uid, *req.Value)
	if err != nil {
		h.failVote(c, err)
		return
	}
	h.recordIdempotency(c, uid, itemID, itemID, http.StatusOK)
	ok(c, http.StatusOK, counts)
}

// GetFactCheckVotes godoc
// @ID          getFactCheckVotes
// @Summary     Get vote counts for a fact check
// @Description Returns the denormalized counters; pass recount=true for a recount audit comparing them with the vote rows.
// @Tags        Votes
// @Produce     json
// @Param       id      path  string true  "Fact check ID (UUID)" format(uuid)
// @Param       recount query bool   false "Recount from vote rows"
// @Success     200 {object} services.VoteCounts
// @Failure     404 {object} handlers.ErrorResponse "Fact check not found"
// @Router      /fact-checks/{id}/votes [get]
func (h *Handlers) GetFactCheckVotes(c *gin.Context) {
	h.getVotes(c, domain.SubjectFactCheck)
}

// GetCommentVotes godoc
// @ID          getCommentVotes
// @Summary     Get vote counts for a comment
// @Tags        Votes
// @Produce     json
// @Param       id      path  string true  "Comment ID (UUID)" format(uuid)
// @Param       recount query bool   false "Recount from vote rows"
// @Success     200 {object} services.VoteCounts
// @Failure     404 {object} handlers.ErrorResponse "Comment not found"
// @Router      /comments/{id}/votes [get]
func (h *Handlers) GetCommentVotes(c *gin.Context) {
	h.getVotes(c, domain.SubjectComment)
}

func (h *Handlers) getVotes(c *gin.Context, kind string) {
	if sysutil.IsTruthy(c.Query("recount")) {
		audit, err := h.votes.Audit(c.Request.Context(), kind, c.Param("id"))
		if err != nil {
			h.failVote(c, err)
			return
		}
		ok(c, http.StatusOK, audit)
		return
	}

	counts, err := h.votes.Counts(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		h.failVote(c, err)
		return
	}
	ok(c, http.StatusOK, counts)
}

// GetUserVotes godoc
// @ID          getUserVotes
// @Summary     Batched lookup of a user's votes
// @Description Returns itemID→value for the requested items; items without a vote are omitted.
// @Tags        Votes
// @Produce     json
// @Param       id     path  string true  "User ID"
// @Param       target query string false "Vote target kind" Enums(fact_check, comment) default(fact_check)
// @Param       ids    query string true  "Comma-separated item IDs"
// @Success     200 {object} map[string]int
// @Failure     400 {object} handlers.ErrorResponse "Invalid parameters"
// @Router      /users/{id}/votes [get]
func (h *Handlers) GetUserVotes(c *gin.Context) {
	kind := c.DefaultQuery("target", domain.SubjectFactCheck)

	var ids []string
	for _, raw := range strings.Split(c.Query("ids"), ",") {
		if v := strings.TrimSpace(raw); v != "" {
			ids = append(ids, v)
		}
	}
	if len(ids) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ids query parameter is required")
		return
	}

	votes, err := h.votes.UserVotes(c.Request.Context(), kind, c.Param("id"), ids)
	if err != nil {
		h.failVote(c, err)
		return
	}
	ok(c, http.StatusOK, votes)
}

// failVote translates vote-service errors into HTTP results.
func (h *Handlers) failVote(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFactCheckNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "fact check not found")
	case errors.Is(err, services.ErrCommentNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "comment not found")
	case errors.Is(err, services.ErrInvalidVote), errors.Is(err, services.ErrInvalidArgument):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrTransactionConflict):
		fail(c, http.StatusServiceUnavailable, ErrCodeVoteFailed, "vote could not be applied, please retry")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
