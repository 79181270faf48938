// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller identity. Authentication happens upstream
// (gateway or auth proxy); this service trusts the X-User-ID header it
// forwards. Requests without the header are anonymous: they can generate
// readings but nothing is saved for them.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/dossbaby/dream-storybook-sub001/internal/sysutil"
)

// HeaderUserID carries the authenticated user id.
const HeaderUserID = "X-User-ID"

// ctxKeyUserID is where the resolved user id lives in the Gin context.
// The rate limiter and access log read it from here.
const ctxKeyUserID = "userID"

// userIDPattern requires at least one character other than a dot; ids
// become blob path segments, where "." and ".." would collapse.
var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:@\-]*[A-Za-z0-9_:@\-][A-Za-z0-9._:@\-]*$`)

// Identity validates X-User-ID and stores it for downstream handlers.
// A malformed id is rejected with 400; a missing one leaves the request
// anonymous.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := sysutil.FirstNonEmpty(c.GetHeader(HeaderUserID))
		if id == "" {
			c.Next()
			return
		}
		if len(id) > 64 || !userIDPattern.MatchString(id) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_request",
				"message":    "invalid " + HeaderUserID,
			})
			return
		}
		c.Set(ctxKeyUserID, id)
		c.Next()
	}
}

// UserID returns the caller's id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
