package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/time/rate"
)

func TestKeyByUserOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")

	if got := KeyByUserOrIP()(c); got != "ip:203.0.113.9" {
		t.Fatalf("anonymous key = %q", got)
	}
	c.Set(ctxKeyUserID, "u123")
	if got := KeyByUserOrIP()(c); got != "user:u123" {
		t.Fatalf("user key = %q", got)
	}
}

func TestRateLimiter_BurstThen429(t *testing.T) {
	rl := NewRateLimiter("generate", 0.5, 2, KeyByUserOrIP())
	r := newEngine(RequestID(), Identity(), rl.Handler())
	r.POST("/generate", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	base := testutil.ToFloat64(httpRateLimited.WithLabelValues("generate"))
	u1 := map[string]string{HeaderUserID: "u1"}

	for i := 0; i < 2; i++ {
		if w := do(r, http.MethodPost, "/generate", u1); w.Code != http.StatusAccepted {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	w := do(r, http.MethodPost, "/generate", u1)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d", w.Code)
	}
	retry, err := strconv.Atoi(w.Header().Get("Retry-After"))
	if err != nil || retry < 1 || retry > 2 {
		t.Fatalf("Retry-After = %q", w.Header().Get("Retry-After"))
	}
	if body := decodeBody(t, w); body["code"] != "too_many_requests" || body["request_id"] == "" {
		t.Fatalf("body %v", body)
	}
	if got := testutil.ToFloat64(httpRateLimited.WithLabelValues("generate")) - base; got != 1 {
		t.Fatalf("rejections delta = %v", got)
	}

	// Another identity has its own bucket.
	if w := do(r, http.MethodPost, "/generate", map[string]string{HeaderUserID: "u2"}); w.Code != http.StatusAccepted {
		t.Fatalf("u2 status %d", w.Code)
	}
}

func TestRateLimiter_RejectionDoesNotConsume(t *testing.T) {
	rl := NewRateLimiter("api", 20, 1, func(*gin.Context) string { return "k" })
	r := newEngine(rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, http.MethodGet, "/x", nil)
	if w := do(r, http.MethodGet, "/x", nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("want 429, got %d", w.Code)
	}
	// One token refills in 50ms; a canceled reservation must not push it out.
	time.Sleep(80 * time.Millisecond)
	if w := do(r, http.MethodGet, "/x", nil); w.Code != http.StatusOK {
		t.Fatalf("after refill: %d", w.Code)
	}
}

func TestRateLimiter_ReplayBypass(t *testing.T) {
	rl := NewRateLimiter("api", 0, 1, func(*gin.Context) string { return "same" })
	r := newEngine(func(c *gin.Context) {
		if c.GetHeader("X-Replay") == "1" {
			c.Set(ctxKeyRateBypass, true)
		}
		c.Next()
	}, rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, http.MethodGet, "/x", nil)
	if w := do(r, http.MethodGet, "/x", nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("want 429, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/x", map[string]string{"X-Replay": "1"}); w.Code != http.StatusOK {
		t.Fatalf("replay should bypass, got %d", w.Code)
	}
}

func TestRateLimiter_VisitorsReusedAndEvicted(t *testing.T) {
	rl := NewRateLimiter("api", 1, 0, KeyByUserOrIP())
	if rl.burst != 1 {
		t.Fatalf("burst coercion failed: %d", rl.burst)
	}
	lim := rl.getVisitor("k1")
	if rl.getVisitor("k1") != lim {
		t.Fatalf("limiter not reused")
	}

	rl.mu.Lock()
	rl.ttl = time.Nanosecond
	rl.visitors["old"] = &visitor{limiter: rate.NewLimiter(1, 1), lastSeen: time.Now().Add(-time.Hour)}
	rl.cleanupN = 4999
	rl.mu.Unlock()

	rl.getVisitor("new")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["old"]; ok {
		t.Fatalf("idle visitor not evicted")
	}
	if _, ok := rl.visitors["new"]; !ok {
		t.Fatalf("new visitor missing")
	}
}
