// Comment HTTP handlers.
//
//   - POST   /fact-checks/{id}/comments  (add a comment or reply)
//   - GET    /fact-checks/{id}/comments  (thread, oldest first)
//   - DELETE /comments/{id}              (author tombstone or moderator removal)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
	"github.com/podtruth/go-factcheck-backend/internal/http/middleware"
	"github.com/podtruth/go-factcheck-backend/internal/services"
)

// CreateCommentRequest is the JSON payload for adding a comment.
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required" example:"The report actually says 6.8%, not 7%."`
	// ParentCommentID makes this comment a reply when set.
	ParentCommentID *string `json:"parent_comment_id,omitempty"`
}

// CommentListResponse wraps a fact check's comment thread.
type CommentListResponse struct {
	FactCheckID string           `json:"fact_check_id"`
	Comments    []domain.Comment `json:"comments"`
}

// CreateComment godoc
// @ID          createComment
// @Summary     Comment on a fact check
// @Description Adds a comment (optionally as a reply), awards submission karma, and notifies the parent author on replies.
// @Tags        Comments
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string false "User ID (demo header)" example(user123)
// @Param       id        path   string true  "Fact check ID (UUID)" format(uuid)
// @Param       body      body   handlers.CreateCommentRequest true "Comment payload"
// @Success     201 {object} domain.Comment
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload"
// @Failure     404 {object} handlers.ErrorResponse "Fact check or parent comment not found"
// @Router      /fact-checks/{id}/comments [post]
func (h *Handlers) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content is required")
		return
	}

	factCheckID := c.Param("id")
	uid := userID(c)

	// A stored Idempotency-Key replay returns the comment the original
	// request created instead of creating a duplicate.
	if middleware.IsReplay(c) && h.idem != nil {
		if key, okKey := middleware.GetIdempotencyKey(c); okKey {
			if resultID, found := h.idem.Recall(c.Request.Context(), uid, factCheckID, key); found {
				if prev, err := h.comments.Get(c.Request.Context(), resultID); err == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, prev)
					return
				}
			}
		}
	}

	cm, err := h.comments.Create(c.Request.Context(), factCheckID, uid, req.Content, req.ParentCommentID)
	if err != nil {
		h.failComment(c, err)
		return
	}
	h.recordIdempotency(c, uid, factCheckID, cm.ID, http.StatusCreated)
	ok(c, http.StatusCreated, cm)
}

// ListComments godoc
// @ID          listComments
// @Summary     List a fact check's comment thread
// @Description Returns comments oldest first. Deleted comments appear as tombstones so replies keep their context.
// @Tags        Comments
// @Produce     json
// @Param       id path string true "Fact check ID (UUID)" format(uuid)
// @Success     200 {object} handlers.CommentListResponse
// @Failure     400 {object} handlers.ErrorResponse "Invalid fact check ID"
// @Router      /fact-checks/{id}/comments [get]
func (h *Handlers) ListComments(c *gin.Context) {
	factCheckID := c.Param("id")
	cms, err := h.comments.ListByFactCheck(c.Request.Context(), factCheckID)
	if err != nil {
		h.failComment(c, err)
		return
	}
	if cms == nil {
		cms = []domain.Comment{}
	}
	ok(c, http.StatusOK, CommentListResponse{FactCheckID: factCheckID, Comments: cms})
}

// DeleteComment godoc
// @ID          deleteComment
// @Summary     Delete a comment
// @Description Tombstones the comment. Authors delete their own; moderators may delete anyone's with an optional reason, which notifies the author.
// @Tags        Comments
// @Param       X-User-ID   header string false "User ID (demo header)" example(user123)
// @Param       X-Moderator header string false "Moderator shim" example(true)
// @Param       id          path   string true  "Comment ID (UUID)" format(uuid)
// @Param       reason      query  string false "Moderator reason"
// @Success     204 "Deleted"
// @Failure     403 {object} handlers.ErrorResponse "Not the author"
// @Failure     404 {object} handlers.ErrorResponse "Comment not found"
// @Router      /comments/{id} [delete]
func (h *Handlers) DeleteComment(c *gin.Context) {
	err := h.comments.Delete(c.Request.Context(), c.Param("id"), userID(c), isModerator(c), c.Query("reason"))
	if err != nil {
		h.failComment(c, err)
		return
	}
	noContent(c)
}

// failComment translates comment-service errors into HTTP results.
func (h *Handlers) failComment(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommentNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "comment not found")
	case errors.Is(err, services.ErrFactCheckNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "fact check not found")
	case errors.Is(err, services.ErrPermissionDenied):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "caller may not delete this comment")
	case errors.Is(err, services.ErrInvalidArgument):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
