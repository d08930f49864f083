// Karma HTTP handlers.
//
// This file exposes read endpoints over the karma ledger:
//   - GET /users/{id}/karma          (total, level, milestones)
//   - GET /users/{id}/karma/history  (paginated ledger, newest first)
//
// The ledger itself is written only by the services that own the events
// (votes, submissions, moderation); there is no write endpoint.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
	"github.com/podtruth/go-factcheck-backend/internal/services"
	"github.com/podtruth/go-factcheck-backend/internal/sysutil"
	"github.com/podtruth/go-factcheck-backend/internal/utils"
)

// KarmaResponse is the karma summary returned for a user.
type KarmaResponse struct {
	UserID     string                  `json:"user_id"`
	TotalKarma int                     `json:"total_karma"`
	Level      domain.KarmaLevel       `json:"level"`
	Next       *domain.KarmaMilestone  `json:"next_milestone,omitempty"`
	Completed  []domain.KarmaMilestone `json:"completed_milestones,omitempty"`
}

// KarmaHistoryResponse is one page of a user's ledger.
type KarmaHistoryResponse struct {
	Entries    []domain.KarmaHistoryEntry `json:"entries"`
	Pagination Pagination                 `json:"pagination"`
}

// GetUserKarma godoc
// @ID          getUserKarma
// @Summary     Get a user's karma summary
// @Description Returns the running total (lazily initialized to the starting balance), display level, and milestones. Pass recount=true for a ledger audit comparing the stored total with the summed entries.
// @Tags        Karma
// @Produce     json
// @Param       id      path  string true  "User ID"
// @Param       recount query bool  false "Recompute the total from the ledger"
// @Success     200 {object} handlers.KarmaResponse
// @Failure     400 {object} handlers.ErrorResponse "Invalid user ID"
// @Router      /users/{id}/karma [get]
func (h *Handlers) GetUserKarma(c *gin.Context) {
	uid := c.Param("id")

	if sysutil.IsTruthy(c.Query("recount")) {
		audit, err := h.karma.AuditTotal(c.Request.Context(), uid)
		if err != nil {
			h.failKarma(c, err)
			return
		}
		ok(c, http.StatusOK, audit)
		return
	}

	total, err := h.karma.GetTotal(c.Request.Context(), uid)
	if err != nil {
		h.failKarma(c, err)
		return
	}

	ok(c, http.StatusOK, KarmaResponse{
		UserID:     uid,
		TotalKarma: total,
		Level:      domain.LevelFor(total),
		Next:       domain.NextMilestone(total),
		Completed:  domain.CompletedMilestones(total),
	})
}

func (h *Handlers) failKarma(c *gin.Context, err error) {
	if errors.Is(err, services.ErrInvalidArgument) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user id is required")
		return
	}
	fail(c, http.StatusInternalServerError, ErrCodeKarmaFailed, err.Error())
}

// GetKarmaHistory godoc
// @ID          getKarmaHistory
// @Summary     Get a user's karma history
// @Description Returns ledger entries newest first, paginated.
// @Tags        Karma
// @Produce     json
// @Param       id        path  string true  "User ID"
// @Param       page      query int    false "Page (1-based)"  default(1)
// @Param       page_size query int    false "Page size"       default(50)
// @Success     200 {object} handlers.KarmaHistoryResponse
// @Failure     400 {object} handlers.ErrorResponse "Invalid parameters"
// @Router      /users/{id}/karma/history [get]
func (h *Handlers) GetKarmaHistory(c *gin.Context) {
	// Clamp to the same bounds the service enforces, so the echoed
	// pagination and the total_pages division use the effective values.
	page := utils.AtoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	pageSize := utils.AtoiDefault(c.Query("page_size"), 50)
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}

	entries, total, err := h.karma.History(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		if errors.Is(err, services.ErrInvalidArgument) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user id is required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if entries == nil {
		entries = []domain.KarmaHistoryEntry{}
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, KarmaHistoryResponse{
		Entries: entries,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}
