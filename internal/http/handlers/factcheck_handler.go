// Fact check HTTP handlers.
//
// This file exposes the fact-check lifecycle:
//   - POST   /fact-checks                   (submit a claim on an episode)
//   - GET    /fact-checks/{id}
//   - GET    /episodes/{id}/fact-checks
//   - PATCH  /fact-checks/{id}/status       (moderator verdict)
//   - DELETE /fact-checks/{id}              (submitter or moderator)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
	"github.com/podtruth/go-factcheck-backend/internal/services"
)

// CreateFactCheckRequest is the JSON payload for submitting a fact check.
type CreateFactCheckRequest struct {
	EpisodeID string `json:"episode_id" binding:"required" example:"ep-2024-001"`
	Claim     string `json:"claim" binding:"required" example:"The host claimed GDP grew 7% last quarter"`
	Source    string `json:"source" example:"https://example.org/gdp-report"`
}

// SetStatusRequest is the JSON payload for a moderation verdict.
type SetStatusRequest struct {
	Status string `json:"status" binding:"required" enums:"UNVALIDATED,VALIDATED_TRUE,VALIDATED_FALSE,VALIDATED_CONTROVERSIAL" example:"VALIDATED_TRUE"`
}

// FactCheckListResponse wraps a per-episode listing.
type FactCheckListResponse struct {
	EpisodeID  string             `json:"episode_id"`
	FactChecks []domain.FactCheck `json:"fact_checks"`
}

// CreateFactCheck godoc
// @ID          createFactCheck
// @Summary     Submit a fact check
// @Description Records a claim against an episode, bumps the episode counter, and awards submission karma.
// @Tags        FactChecks
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string false "User ID (demo header)" example(user123)
// @Param       body      body   handlers.CreateFactCheckRequest true "Fact check payload"
// @Success     201 {object} domain.FactCheck
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload"
// @Router      /fact-checks [post]
func (h *Handlers) CreateFactCheck(c *gin.Context) {
	var req CreateFactCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "episode_id and claim are required")
		return
	}

	fc, err := h.factChecks.Create(c.Request.Context(), req.EpisodeID, userID(c), req.Claim, req.Source)
	if err != nil {
		if errors.Is(err, services.ErrInvalidArgument) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "episode_id and claim are required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, fc)
}

// GetFactCheck godoc
// @ID          getFactCheck
// @Summary     Get a fact check
// @Tags        FactChecks
// @Produce     json
// @Param       id path string true "Fact check ID (UUID)" format(uuid)
// @Success     200 {object} domain.FactCheck
// @Failure     404 {object} handlers.ErrorResponse "Fact check not found"
// @Router      /fact-checks/{id} [get]
func (h *Handlers) GetFactCheck(c *gin.Context) {
	fc, err := h.factChecks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failFactCheck(c, err)
		return
	}
	ok(c, http.StatusOK, fc)
}

// ListEpisodeFactChecks godoc
// @ID          listEpisodeFactChecks
// @Summary     List fact checks on an episode
// @Description Returns the episode's fact checks, newest first.
// @Tags        FactChecks
// @Produce     json
// @Param       id path string true "Episode ID"
// @Success     200 {object} handlers.FactCheckListResponse
// @Failure     400 {object} handlers.ErrorResponse "Invalid episode ID"
// @Router      /episodes/{id}/fact-checks [get]
func (h *Handlers) ListEpisodeFactChecks(c *gin.Context) {
	episodeID := c.Param("id")
	fcs, err := h.factChecks.ListByEpisode(c.Request.Context(), episodeID)
	if err != nil {
		h.failFactCheck(c, err)
		return
	}
	if fcs == nil {
		fcs = []domain.FactCheck{}
	}
	ok(c, http.StatusOK, FactCheckListResponse{EpisodeID: episodeID, FactChecks: fcs})
}

// SetFactCheckStatus godoc
// @ID          setFactCheckStatus
// @Summary     Apply a moderation verdict
// @Description Updates the validation status; karma and a submitter notification fire only on a genuine change. Requires the moderator header.
// @Tags        FactChecks
// @Accept      json
// @Produce     json
// @Param       X-Moderator header string true  "Moderator shim" example(true)
// @Param       id          path   string true  "Fact check ID (UUID)" format(uuid)
// @Param       body        body   handlers.SetStatusRequest true "Status payload"
// @Success     200 {object} domain.FactCheck
// @Failure     400 {object} handlers.ErrorResponse "Invalid status"
// @Failure     403 {object} handlers.ErrorResponse "Moderator required"
// @Failure     404 {object} handlers.ErrorResponse "Fact check not found"
// @Router      /fact-checks/{id}/status [patch]
func (h *Handlers) SetFactCheckStatus(c *gin.Context) {
	if !isModerator(c) {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "moderator role required")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status is required")
		return
	}

	fc, err := h.factChecks.SetStatus(c.Request.Context(), c.Param("id"), domain.ValidationStatus(req.Status))
	if err != nil {
		if errors.Is(err, services.ErrInvalidArgument) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown validation status")
			return
		}
		h.failFactCheck(c, err)
		return
	}
	ok(c, http.StatusOK, fc)
}

// DeleteFactCheck godoc
// @ID          deleteFactCheck
// @Summary     Delete a fact check
// @Description Removes the fact check and decrements the episode counter. Allowed for the submitter or a moderator.
// @Tags        FactChecks
// @Param       X-User-ID   header string false "User ID (demo header)" example(user123)
// @Param       X-Moderator header string false "Moderator shim" example(true)
// @Param       id          path   string true  "Fact check ID (UUID)" format(uuid)
// @Success     204 "Deleted"
// @Failure     403 {object} handlers.ErrorResponse "Not the submitter"
// @Failure     404 {object} handlers.ErrorResponse "Fact check not found"
// @Router      /fact-checks/{id} [delete]
func (h *Handlers) DeleteFactCheck(c *gin.Context) {
	err := h.factChecks.Delete(c.Request.Context(), c.Param("id"), userID(c), isModerator(c))
	if err != nil {
		h.failFactCheck(c, err)
		return
	}
	noContent(c)
}

// failFactCheck translates fact-check service errors into HTTP results.
func (h *Handlers) failFactCheck(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFactCheckNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "fact check not found")
	case errors.Is(err, services.ErrPermissionDenied):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "caller may not modify this fact check")
	case errors.Is(err, services.ErrInvalidArgument):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
