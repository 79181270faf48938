// Engagement HTTP handlers.
//
// This file exposes likes, ratings and comments on saved readings:
//   - GET    /readings/{kind}/{id}/like               (caller's like state)
//   - POST   /readings/{kind}/{id}/like
//   - POST   /readings/{kind}/{id}/ratings
//   - GET    /readings/{kind}/{id}/comments            (paginated)
//   - POST   /readings/{kind}/{id}/comments
//   - DELETE /readings/{kind}/{id}/comments/{commentId}
//
// Every operation requires the reading to be readable by the caller.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
	"github.com/dossbaby/dream-storybook-sub001/internal/http/middleware"
)

// LikeResponse is the like state after a toggle.
type LikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count" example:"12"`
}

// RateRequest is the JSON payload for rating a reading.
type RateRequest struct {
	Score int `json:"score" example:"5" minimum:"1" maximum:"5"`
}

// RateResponse is the rating aggregate after a new score.
type RateResponse struct {
	RatingCount int64   `json:"rating_count" example:"4"`
	RatingAvg   float64 `json:"rating_avg"   example:"4.25"`
}

// CreateCommentRequest is the JSON payload for commenting.
type CreateCommentRequest struct {
	Body        string `json:"body"                   binding:"required" example:"The ocean is always about feelings for me too."`
	DisplayName string `json:"display_name,omitempty" example:"Jun"`
}

// ListCommentsResponse wraps a page of comments and pagination information.
type ListCommentsResponse struct {
	Comments   []domain.ReadingComment `json:"comments"`
	Pagination Pagination              `json:"pagination"`
}

// target parses kind and id and checks the engagement service is wired.
func (h *Handlers) target(c *gin.Context) (domain.Kind, string, bool) {
	kind, okKind := kindParam(c)
	if !okKind {
		return "", "", false
	}
	id, okID := uuidParam(c, "id", "reading id")
	if !okID {
		return "", "", false
	}
	if h.engage == nil {
		unavailable(c)
		return "", "", false
	}
	return kind, id, true
}

// ToggleLike godoc
// @ID          toggleLike
// @Summary     Like or unlike a reading
// @Description Flips the caller's like on the reading and returns the new state.
// @Tags        Engagement
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       kind       path    string  true  "Reading kind"  Enums(dream, tarot, fortune)
// @Param       id         path    string  true  "Reading ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.LikeResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad id"
// @Failure     401  {object} handlers.ErrorResponse "Missing user"
// @Failure     404  {object} handlers.ErrorResponse "Reading not found"
// @Router      /readings/{kind}/{id}/like [post]
func (h *Handlers) ToggleLike(c *gin.Context) {
	kind, id, okT := h.target(c)
	if !okT {
		return
	}
	liked, count, err := h.engage.ToggleLike(c.Request.Context(), middleware.UserID(c), kind, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, LikeResponse{Liked: liked, LikeCount: count})
}

// GetLike godoc
// @ID          getLike
// @Summary     Like state of a reading
// @Tags        Engagement
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Viewer user ID"  example(user123)
// @Param       kind       path    string  true  "Reading kind"    Enums(dream, tarot, fortune)
// @Param       id         path    string  true  "Reading ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.LikeResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad id"
// @Failure     404  {object} handlers.ErrorResponse "Reading not found"
// @Router      /readings/{kind}/{id}/like [get]
func (h *Handlers) GetLike(c *gin.Context) {
	kind, id, okT := h.target(c)
	if !okT {
		return
	}
	liked, count, err := h.engage.Liked(c.Request.Context(), middleware.UserID(c), kind, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, LikeResponse{Liked: liked, LikeCount: count})
}

// RateReading godoc
// @ID          rateReading
// @Summary     Rate a reading
// @Description Appends a 1–5 score to the reading's rating log and returns the new aggregate.
// @Tags        Engagement
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       kind       path    string  true  "Reading kind"  Enums(dream, tarot, fortune)
// @Param       id         path    string  true  "Reading ID (UUID)"  format(uuid)
// @Param       body       body    handlers.RateRequest  true  "Score"
//
// @Success     200  {object} handlers.RateResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid score"
// @Failure     401  {object} handlers.ErrorResponse "Missing user"
// @Failure     404  {object} handlers.ErrorResponse "Reading not found"
// @Router      /readings/{kind}/{id}/ratings [post]
func (h *Handlers) RateReading(c *gin.Context) {
	kind, id, okT := h.target(c)
	if !okT {
		return
	}
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "score required")
		return
	}
	count, avg, err := h.engage.Rate(c.Request.Context(), middleware.UserID(c), kind, id, req.Score)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, RateResponse{RatingCount: count, RatingAvg: avg})
}

// ListComments godoc
// @ID          listComments
// @Summary     List comments on a reading
// @Description Returns a page of comments, oldest first.
// @Tags        Engagement
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Viewer user ID"  example(user123)
// @Param       kind       path    string  true  "Reading kind"    Enums(dream, tarot, fortune)
// @Param       id         path    string  true  "Reading ID (UUID)"  format(uuid)
// @Param       page       query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListCommentsResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad id"
// @Failure     404  {object} handlers.ErrorResponse "Reading not found"
// @Router      /readings/{kind}/{id}/comments [get]
func (h *Handlers) ListComments(c *gin.Context) {
	kind, id, okT := h.target(c)
	if !okT {
		return
	}
	page, pageSize := clampPagination(c)
	items, total, err := h.engage.ListComments(c.Request.Context(), middleware.UserID(c), kind, id, page, pageSize)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, ListCommentsResponse{
		Comments:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// CreateComment godoc
// @ID          createComment
// @Summary     Comment on a reading
// @Tags        Engagement
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       kind       path    string  true  "Reading kind"  Enums(dream, tarot, fortune)
// @Param       id         path    string  true  "Reading ID (UUID)"  format(uuid)
// @Param       body       body    handlers.CreateCommentRequest  true  "Comment"
//
// @Success     201  {object} domain.ReadingComment
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing user"
// @Failure     404  {object} handlers.ErrorResponse "Reading not found"
// @Router      /readings/{kind}/{id}/comments [post]
func (h *Handlers) CreateComment(c *gin.Context) {
	kind, id, okT := h.target(c)
	if !okT {
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body required")
		return
	}
	cm, err := h.engage.AddComment(c.Request.Context(), middleware.UserID(c), req.DisplayName, kind, id, req.Body)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusCreated, cm)
}

// DeleteComment godoc
// @ID          deleteComment
// @Summary     Delete a comment
// @Description The comment author and the reading owner may delete a comment.
// @Tags        Engagement
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       kind       path    string  true  "Reading kind"  Enums(dream, tarot, fortune)
// @Param       id         path    string  true  "Reading ID (UUID)"  format(uuid)
// @Param       commentId  path    string  true  "Comment ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad id"
// @Failure     401  {object} handlers.ErrorResponse "Missing user"
// @Failure     403  {object} handlers.ErrorResponse "Not allowed"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /readings/{kind}/{id}/comments/{commentId} [delete]
func (h *Handlers) DeleteComment(c *gin.Context) {
	kind, id, okT := h.target(c)
	if !okT {
		return
	}
	commentID, okID := uuidParam(c, "commentId", "comment id")
	if !okID {
		return
	}
	if err := h.engage.DeleteComment(c.Request.Context(), middleware.UserID(c), kind, id, commentID); err != nil {
		serviceError(c, err)
		return
	}
	noContent(c)
}
