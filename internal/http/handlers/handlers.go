// Reading HTTP handlers: service contracts, wiring and shared helpers.
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses (including
// conditional responses and event streams).
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
	"github.com/dossbaby/dream-storybook-sub001/internal/media"
	"github.com/dossbaby/dream-storybook-sub001/internal/services"
	"github.com/dossbaby/dream-storybook-sub001/internal/utils"
)

//
// Service contracts (context-aware)
//

// GenerationService runs the reading pipeline (implemented by
// *services.ReadingService).
type GenerationService interface {
	// Configured reports whether both model API keys are present.
	Configured() bool
	// Generate runs one reading and reports progress synchronously.
	Generate(ctx context.Context, userID string, req domain.ReadingRequest, progress services.ProgressFunc) (*domain.GenerationResult, *services.SaveTask, error)
}

// SaveService persists generation results (implemented by
// *services.PersistenceService).
type SaveService interface {
	Save(ctx context.Context, userID, displayName string, result *domain.GenerationResult, opt domain.VisibilityOption) (string, bool)
}

// SaveTaskLookup finds background saves (implemented by *services.SaveTasks).
type SaveTaskLookup interface {
	Get(id string) (*services.SaveTask, error)
}

// FeedService serves saved readings (implemented by *services.FeedService).
type FeedService interface {
	Get(ctx context.Context, viewerID string, kind domain.Kind, id string) (*domain.Reading, error)
	ListPublic(ctx context.Context, kind domain.Kind, page, pageSize int) ([]domain.Reading, int64, error)
	ListMine(ctx context.Context, userID string, kind domain.Kind, page, pageSize int) ([]domain.Reading, int64, error)
	PublicStats(ctx context.Context, kind domain.Kind) (int64, *time.Time, error)
	MineStats(ctx context.Context, userID string, kind domain.Kind) (int64, *time.Time, error)
	Search(ctx context.Context, kind domain.Kind, query string, k int) ([]services.SearchHit, error)
}

// EngagementService mutates likes, comments, ratings and visibility
// (implemented by *services.EngagementService).
type EngagementService interface {
	ToggleLike(ctx context.Context, userID string, kind domain.Kind, id string) (bool, int64, error)
	Liked(ctx context.Context, viewerID string, kind domain.Kind, id string) (bool, int64, error)
	AddComment(ctx context.Context, userID, displayName string, kind domain.Kind, id, body string) (*domain.ReadingComment, error)
	DeleteComment(ctx context.Context, userID string, kind domain.Kind, id, commentID string) error
	ListComments(ctx context.Context, viewerID string, kind domain.Kind, id string, page, pageSize int) ([]domain.ReadingComment, int64, error)
	Rate(ctx context.Context, userID string, kind domain.Kind, id string, score int) (int64, float64, error)
	SetVisibility(ctx context.Context, ownerID string, kind domain.Kind, id string, opt domain.VisibilityOption) (*domain.Reading, error)
}

// IdempotencyStore remembers saved ids per Idempotency-Key (implemented by
// *services.IdempotencyService).
type IdempotencyStore interface {
	Replay(ctx context.Context, userID, scope, key string) (string, bool)
	Record(ctx context.Context, userID, scope, key, readingID string) error
}

// MediaSource serves ephemeral images (implemented by *media.Registry).
type MediaSource interface {
	Get(handle string) (media.Image, bool)
}

//
// Handler wiring
//

// Deps carries the services the handlers depend on. Any nil field disables
// the endpoints that need it with a 503.
type Deps struct {
	Generation  GenerationService
	Saves       SaveService
	SaveTasks   SaveTaskLookup
	Feed        FeedService
	Engagement  EngagementService
	Idempotency IdempotencyStore
	Media       MediaSource

	// MediaPath is the public path ephemeral image handles are served
	// under, e.g. "/api/v1/media".
	MediaPath string
	// MediaMaxAge is the Cache-Control max-age for ephemeral images.
	MediaMaxAge time.Duration
}

// Handlers groups the reading endpoints. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	gen     GenerationService
	saves   SaveService
	tasks   SaveTaskLookup
	feed    FeedService
	engage  EngagementService
	idem    IdempotencyStore
	media   MediaSource
	mediaAt string
	mediaMA time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
func New(d Deps) *Handlers {
	return &Handlers{
		gen:     d.Generation,
		saves:   d.Saves,
		tasks:   d.SaveTasks,
		feed:    d.Feed,
		engage:  d.Engagement,
		idem:    d.Idempotency,
		media:   d.Media,
		mediaAt: strings.TrimRight(d.MediaPath, "/"),
		mediaMA: d.MediaMaxAge,
	}
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params,
// returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	page = utils.AtoiDefault(c.Query("page"), 1)
	pageSize = utils.AtoiDefault(c.Query("page_size"), utils.DefaultPageSize)
	return utils.ClampPage(page, pageSize)
}

// kindParam parses the :kind path segment. Unknown kinds are 404: the
// collection does not exist.
func kindParam(c *gin.Context) (domain.Kind, bool) {
	k, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "unknown reading kind")
		return "", false
	}
	return k, true
}

// uuidParam reads a UUID path parameter.
func uuidParam(c *gin.Context, name, label string) (string, bool) {
	v := c.Param(name)
	if _, err := uuid.Parse(v); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, label+" must be a UUID")
		return "", false
	}
	return v, true
}

// unavailable rejects requests whose backing service is not wired.
func unavailable(c *gin.Context) {
	fail(c, http.StatusServiceUnavailable, ErrCodeInternal, "service unavailable")
}

// present hides the owner of an anonymous reading from everyone but the
// owner.
func present(r domain.Reading, viewerID string) domain.Reading {
	if r.IsAnonymous && r.OwnerID != viewerID {
		r.OwnerID = ""
	}
	return r
}

func presentAll(rs []domain.Reading, viewerID string) []domain.Reading {
	out := make([]domain.Reading, len(rs))
	for i := range rs {
		out[i] = present(rs[i], viewerID)
	}
	return out
}
