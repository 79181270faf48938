// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, caller identity, logging/redaction, panic
// recovery, compression, metrics, idempotency, rate limiting, CORS and
// security headers.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → identity → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Long-running generation streams are never buffered or compressed
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/dossbaby/dream-storybook-sub001/docs" // swagger spec
	"github.com/dossbaby/dream-storybook-sub001/internal/config"
	"github.com/dossbaby/dream-storybook-sub001/internal/http/handlers"
	"github.com/dossbaby/dream-storybook-sub001/internal/http/middleware"
	"github.com/dossbaby/dream-storybook-sub001/internal/media"
	"github.com/dossbaby/dream-storybook-sub001/internal/services"
)

// Pipeline carries the long-lived components owned by main: they hold
// background work (saves, purges, sweeps) that must be drained on shutdown.
// Nil fields disable the endpoints that need them.
type Pipeline struct {
	Readings    *services.ReadingService
	Persistence *services.PersistenceService
	SaveTasks   *services.SaveTasks
	Idempotency *services.IdempotencyService
	Media       *media.Registry
}

var corsHeaders = []string{
	"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match", "Last-Event-ID",
	middleware.HeaderUserID, middleware.HeaderIdempotencyKey,
}

var corsExpose = []string{
	"X-Request-ID", "Content-Length", "ETag", "Retry-After", middleware.HeaderIdempotencyReplayed,
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), identity,
// idempotency and rate limiting, CORS and security headers, health and
// metrics endpoints, and then mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Identity: validate X-User-ID
//  4. RedactingLogger: structured logs with PII scrubbing
//  5. Recovery: capture panics after logger
//  6. Body size limiter
//  7. Gzip (event streams, images and blobs excluded)
//  8. Metrics
//  9. Idempotency validator (before rate limiter to allow bypass on replay)
//  10. Rate limiter (per user/IP, bypass on replay); generation has its own
//  11. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, p Pipeline, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	mediaPath := strings.TrimRight(apiBase, "/") + "/media"

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Resolve the caller
	r.Use(middleware.Identity())

	// 4) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key", "X-Goog-Api-Key"},
	}))

	// 5) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 6) Global body size limit
	r.Use(limitBody(cfg.MaxBodyBytes))

	// 7) Compression for JSON responses
	noGzip := []string{mediaPath, "/metrics"}
	if mount := blobMount(cfg); mount != "" {
		noGzip = append(noGzip, mount)
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths(noGzip),
		gzip.WithExcludedPathsRegexs([]string{`/readings/[^/]+/generate$`}),
	))

	// 8) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 9) Idempotency validation (before rate limiting)
	var lookup middleware.IdempotencyLookup
	if p.Idempotency != nil {
		lookup = p.Idempotency.Exists
	}
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, lookup))

	// 10) Token-bucket rate limiters per user/IP
	rl := middleware.NewRateLimiter("api", cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())
	genRL := middleware.NewRateLimiter("generate", cfg.GenerateRPS, cfg.GenerateBurst, middleware.KeyByUserOrIP())

	// 11) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:     cfg.Security.EnableHSTS,
		HSTSMaxAge:     cfg.Security.HSTSMaxAge,
		NoStore:        false,
		EnablePolicy:   true,
		ResourcePolicy: "cross-origin",
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Durable images, when served from local disk
	if mount := blobMount(cfg); mount != "" {
		r.Static(mount, cfg.BlobDir)
	}

	// Dependency injection: services ← db
	feed := services.NewFeedService(db)
	feed.SearchWindow = cfg.SearchWindow
	feed.SearchThreshold = cfg.SearchThreshold

	deps := handlers.Deps{
		Feed:        feed,
		Engagement:  services.NewEngagementService(db),
		MediaPath:   mediaPath,
		MediaMaxAge: cfg.Generation.MediaTTL,
	}
	if p.Readings != nil {
		deps.Generation = p.Readings
	}
	if p.Persistence != nil {
		deps.Saves = p.Persistence
	}
	if p.SaveTasks != nil {
		deps.SaveTasks = p.SaveTasks
	}
	if p.Idempotency != nil {
		deps.Idempotency = p.Idempotency
	}
	if p.Media != nil {
		deps.Media = p.Media
	}
	h := handlers.New(deps)

	// Public API
	api := groupWithPrefix(r, apiBase)
	{
		// Generation
		api.POST("/readings/:kind/generate", genRL.Handler(), h.GenerateReading)
		api.GET("/save-tasks/:id", h.GetSaveTask)
		api.GET("/media/:id", h.GetMedia)

		// Readings
		api.POST("/readings/:kind", h.SaveReading)
		api.GET("/readings/:kind", h.ListReadings)
		api.GET("/readings/:kind/mine", h.ListMyReadings)
		api.GET("/readings/:kind/search", h.SearchReadings)
		api.GET("/readings/:kind/:id", h.GetReading)
		api.PUT("/readings/:kind/:id/visibility", h.SetVisibility)

		// Engagement
		api.GET("/readings/:kind/:id/like", h.GetLike)
		api.POST("/readings/:kind/:id/like", h.ToggleLike)
		api.POST("/readings/:kind/:id/ratings", h.RateReading)
		api.GET("/readings/:kind/:id/comments", h.ListComments)
		api.POST("/readings/:kind/:id/comments", h.CreateComment)
		api.DELETE("/readings/:kind/:id/comments/:commentId", h.DeleteComment)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error. maxBytes <= 0 disables the cap.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

// blobMount returns the local path blobs are served under, or "" when blob
// URLs point elsewhere (a CDN or bucket).
func blobMount(cfg config.Config) string {
	base := strings.TrimRight(cfg.BlobBaseURL, "/")
	if !strings.HasPrefix(base, "/") || cfg.BlobDir == "" {
		return ""
	}
	return base
}
