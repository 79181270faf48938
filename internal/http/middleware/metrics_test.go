package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsByRoute(t *testing.T) {
	r := newEngine(Metrics())
	r.GET("/readings/:kind", func(c *gin.Context) { c.String(http.StatusOK, "feed") })

	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/readings/:kind", "200"))
	baseMiss := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "unmatched", "404"))

	do(r, http.MethodGet, "/readings/dream", nil)
	do(r, http.MethodGet, "/readings/tarot", nil)
	do(r, http.MethodGet, "/nope/1", nil)

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/readings/:kind", "200")) - baseOK; got != 2 {
		t.Fatalf("route counter delta = %v; want 2", got)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "unmatched", "404")) - baseMiss; got != 1 {
		t.Fatalf("unmatched counter delta = %v; want 1", got)
	}
	if got := testutil.ToFloat64(httpInflight); got != 0 {
		t.Fatalf("inflight = %v after requests", got)
	}
}

func TestMetrics_StreamsSkipSizeHistogram(t *testing.T) {
	r := newEngine(Metrics())
	var during float64
	r.GET("/stream", func(c *gin.Context) {
		done := TrackStream()
		defer done()
		during = testutil.ToFloat64(httpStreams)
		c.Header("Content-Type", "text/event-stream")
		c.String(http.StatusOK, "event: progress\ndata: {}\n\n")
	})

	before := testutil.CollectAndCount(httpRespSize)
	do(r, http.MethodGet, "/stream", nil)

	if during < 1 {
		t.Fatalf("stream gauge not raised: %v", during)
	}
	if got := testutil.ToFloat64(httpStreams); got != 0 {
		t.Fatalf("stream gauge = %v after close", got)
	}
	if after := testutil.CollectAndCount(httpRespSize); after != before {
		t.Fatalf("stream observed in size histogram (%d -> %d)", before, after)
	}
}
