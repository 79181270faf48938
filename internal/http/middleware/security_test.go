package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestSecurityHeaders_Baseline(t *testing.T) {
	r := newEngine(RequestID(), SecurityHeaders(SecurityOptions{}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/x", nil)
	h := w.Header()
	want := map[string]string{
		"X-Content-Type-Options":        "nosniff",
		"X-Frame-Options":               "DENY",
		"Referrer-Policy":               "no-referrer",
		"Access-Control-Expose-Headers": "X-Request-ID",
	}
	for k, v := range want {
		if h.Get(k) != v {
			t.Fatalf("%s = %q; want %q", k, h.Get(k), v)
		}
	}
	for _, k := range []string{"Permissions-Policy", "Cache-Control", "Strict-Transport-Security", "Cross-Origin-Resource-Policy"} {
		if h.Get(k) != "" {
			t.Fatalf("%s should be unset, got %q", k, h.Get(k))
		}
	}
}

func TestSecurityHeaders_Options(t *testing.T) {
	r := newEngine(SecurityHeaders(SecurityOptions{
		EnableHSTS:     true,
		HSTSMaxAge:     time.Hour,
		NoStore:        true,
		EnablePolicy:   true,
		ResourcePolicy: "cross-origin",
	}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Plain HTTP: no HSTS.
	w := do(r, http.MethodGet, "/x", nil)
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS sent over http")
	}
	if w.Header().Get("Cache-Control") != "no-store" || w.Header().Get("Cross-Origin-Resource-Policy") != "cross-origin" {
		t.Fatalf("headers %v", w.Header())
	}
	if w.Header().Get("Permissions-Policy") == "" {
		t.Fatalf("policy header missing")
	}

	w = do(r, http.MethodGet, "/x", map[string]string{"X-Forwarded-Proto": "HTTPS"})
	if got := w.Header().Get("Strict-Transport-Security"); got != "max-age=3600; includeSubDomains; preload" {
		t.Fatalf("HSTS = %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.TLS = &tls.ConnectionState{}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Fatalf("HSTS missing on TLS request")
	}
}

func TestSecurityHeaders_DefaultMaxAgeAndExposeMerge(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		c.Header("Access-Control-Expose-Headers", "Content-Length")
		c.Header("X-Request-ID", "rid")
		c.Next()
	}, SecurityHeaders(SecurityOptions{EnableHSTS: true}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/x", map[string]string{"X-Forwarded-Proto": "https"})
	if got := w.Header().Get("Strict-Transport-Security"); got != "max-age=15552000; includeSubDomains; preload" {
		t.Fatalf("HSTS = %q", got)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); got != "Content-Length, X-Request-ID" {
		t.Fatalf("expose = %q", got)
	}
}
