package middleware

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIdentity(t *testing.T) {
	var seen string
	r := newEngine(RequestID(), Identity())
	r.GET("/who", func(c *gin.Context) {
		seen = UserID(c)
		c.Status(http.StatusNoContent)
	})

	cases := []struct {
		header   string
		wantCode int
		wantUser string
	}{
		{"", http.StatusNoContent, ""},
		{"  user-42  ", http.StatusNoContent, "user-42"},
		{"auth0|abc", http.StatusBadRequest, ""},
		{strings.Repeat("a", 65), http.StatusBadRequest, ""},
		{strings.Repeat("a", 64), http.StatusNoContent, strings.Repeat("a", 64)},
		{".", http.StatusBadRequest, ""},
		{"..", http.StatusBadRequest, ""},
		{"...", http.StatusBadRequest, ""},
		{"a.b", http.StatusNoContent, "a.b"},
		{"..x", http.StatusNoContent, "..x"},
	}
	for _, tc := range cases {
		seen = "unset"
		w := do(r, http.MethodGet, "/who", map[string]string{HeaderUserID: tc.header})
		if w.Code != tc.wantCode {
			t.Fatalf("%q: status %d; want %d", tc.header, w.Code, tc.wantCode)
		}
		if tc.wantCode == http.StatusNoContent && seen != tc.wantUser {
			t.Fatalf("%q: user %q; want %q", tc.header, seen, tc.wantUser)
		}
		if tc.wantCode == http.StatusBadRequest {
			if body := decodeBody(t, w); body["code"] != "bad_request" || body["request_id"] == "" {
				t.Fatalf("%q: body %v", tc.header, body)
			}
		}
	}
}

func TestUserID_WrongType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(nil)
	c.Set(ctxKeyUserID, 42)
	if got := UserID(c); got != "" {
		t.Fatalf("UserID = %q; want empty", got)
	}
}
