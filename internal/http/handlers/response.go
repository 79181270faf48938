// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all endpoints:
// the structured error envelope, the mapping from service errors to HTTP
// statuses and codes, and small helpers for success responses.
//
// Conventions:
//   - All error responses return an ErrorResponse with a stable `code`.
//   - `fail()` centralizes error logging and formatting; 5xx responses are
//     logged with the request-scoped logger.
//   - `serviceError()` is the single place where service errors become
//     statuses, so JSON and streaming responses agree.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "reading not found"
//	}
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dossbaby/dream-storybook-sub001/internal/http/middleware"
	"github.com/dossbaby/dream-storybook-sub001/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// Fields:
//   - RequestID: correlation ID echoed from X-Request-ID, used to match server
//     logs with client-side errors.
//   - Code: a stable, machine-readable string (see errors.go constants).
//   - Message: a human-readable description, safe to show to users.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"reading not found"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: middleware.GetRequestID(c),
		Code:      code,
		Message:   msg,
	}

	// Log 5xx (server-side) with request-scoped logger
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail().
//
// External packages (e.g., router setup) call Fail to return consistent
// error envelopes without depending on unexported helpers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// classify maps a service error to (status, code, message). Unknown errors
// become 500 internal_error with a generic message.
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, services.ErrConfiguration):
		return http.StatusServiceUnavailable, ErrCodeConfigurationRequired, services.MsgConfigurationRequired
	case errors.Is(err, services.ErrInvalidKind):
		return http.StatusNotFound, ErrCodeNotFound, "unknown reading kind"
	case errors.Is(err, services.ErrEmptyInput),
		errors.Is(err, services.ErrInvalidCards),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidVisibility),
		errors.Is(err, services.ErrTooLong),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrEmptyComment):
		return http.StatusBadRequest, ErrCodeBadRequest, err.Error()
	case errors.Is(err, services.ErrMalformedResponse),
		errors.Is(err, services.ErrGenerationFailed),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway, ErrCodeGenerationFailed, services.MsgGenerationFailed
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrCodeUnauthorized, "X-User-ID header required"
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden, err.Error()
	case errors.Is(err, services.ErrReadingNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrSaveTaskNotFound):
		return http.StatusNotFound, ErrCodeNotFound, err.Error()
	}
	return http.StatusInternalServerError, ErrCodeInternal, "internal error"
}

// serviceError writes the envelope for err. A canceled request is aborted
// without a body since nobody is listening.
func serviceError(c *gin.Context, err error) {
	if errors.Is(err, context.Canceled) {
		c.Abort()
		return
	}
	status, code, msg := classify(err)
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().Err(err).Msg("service error")
	}
	fail(c, status, code, msg)
}
