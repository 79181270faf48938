// Reading HTTP handlers.
//
// This file exposes REST endpoints for saved readings:
//   - POST /readings/{kind}                  (save a generated reading)
//   - GET  /readings/{kind}                  (public feed, paginated, ETag support)
//   - GET  /readings/{kind}/mine             (caller's own readings)
//   - GET  /readings/{kind}/search           (keyword search over the public feed)
//   - GET  /readings/{kind}/{id}             (detail)
//   - PUT  /readings/{kind}/{id}/visibility  (re-share)
//   - GET  /save-tasks/{id}                  (background save status)
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
	"github.com/dossbaby/dream-storybook-sub001/internal/http/middleware"
	"github.com/dossbaby/dream-storybook-sub001/internal/services"
	"github.com/dossbaby/dream-storybook-sub001/internal/utils"
)

//
// DTOs
//

// SaveReadingRequest is the JSON payload for saving a generated reading.
// Visibility accepts a boolean (true = public), a visibility name, or an
// object with visibility and anonymous fields; it defaults to public.
type SaveReadingRequest struct {
	Reading     *domain.GenerationResult `json:"reading" binding:"required"`
	Visibility  domain.VisibilityOption  `json:"visibility" swaggertype:"object"`
	DisplayName string                   `json:"display_name,omitempty" example:"Mina"`
}

// SaveReadingResponse carries the id of the stored reading.
type SaveReadingResponse struct {
	ID       string `json:"id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Replayed bool   `json:"replayed,omitempty"`
}

// ListReadingsResponse wraps a page of readings and pagination information.
type ListReadingsResponse struct {
	Readings   []domain.Reading `json:"readings"`
	Pagination Pagination       `json:"pagination"`
}

// SearchResponse lists search hits, best first.
type SearchResponse struct {
	Query string               `json:"query" example:"flying ocean"`
	Hits  []services.SearchHit `json:"hits"`
}

// SaveTaskResponse reports a background save.
type SaveTaskResponse struct {
	ID        string      `json:"id"`
	Kind      domain.Kind `json:"kind"`
	Status    string      `json:"status" example:"saved" enums:"pending,saved,failed"`
	ReadingID string      `json:"reading_id,omitempty"`
}

const (
	defaultSearchK = 20
	maxSearchK     = 50
)

//
// Handlers
//

// SaveReading godoc
// @ID          saveReading
// @Summary     Save a generated reading
// @Description Uploads the reading's images to durable storage and stores the reading.
// @Description Supports idempotency via the Idempotency-Key header (same key → same reading id).
// @Tags        Readings
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true  "Owner user ID"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       kind             path    string  true  "Reading kind"  Enums(dream, tarot, fortune)
// @Param       body             body    handlers.SaveReadingRequest  true  "Reading to save"
//
// @Success     201  {object}  handlers.SaveReadingResponse
// @Success     200  {object}  handlers.SaveReadingResponse  "Replayed"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing user"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown kind"
// @Failure     500  {object}  handlers.ErrorResponse  "Save failed"
// @Router      /readings/{kind} [post]
func (h *Handlers) SaveReading(c *gin.Context) {
	kind, okKind := kindParam(c)
	if !okKind {
		return
	}
	if h.saves == nil {
		unavailable(c)
		return
	}
	ctx := c.Request.Context()
	uid := middleware.UserID(c)
	if uid == "" {
		serviceError(c, services.ErrUnauthenticated)
		return
	}

	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && h.idem != nil {
		if prev, found := h.idem.Replay(ctx, uid, string(kind), idemKey); found {
			c.Header(middleware.HeaderIdempotencyReplayed, "true")
			ok(c, http.StatusOK, SaveReadingResponse{ID: prev, Replayed: true})
			return
		}
	}

	var req SaveReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "reading required")
		return
	}
	switch req.Reading.Kind {
	case "":
		req.Reading.Kind = kind
	case kind:
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("reading kind %q does not match %q", req.Reading.Kind, kind))
		return
	}

	id, saved := h.saves.Save(ctx, uid, strings.TrimSpace(req.DisplayName), req.Reading, req.Visibility)
	if !saved {
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, services.ErrNotSaved.Error())
		return
	}

	if idemKey != "" && h.idem != nil {
		if err := h.idem.Record(ctx, uid, string(kind), idemKey, id); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("record idempotency key")
		}
	}
	ok(c, http.StatusCreated, SaveReadingResponse{ID: id})
}

// ListReadings godoc
// @ID          listReadings
// @Summary     List public readings (paginated)
// @Description Returns a page of public readings, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Readings
// @Produce     json
//
// @Param       kind           path    string  true  "Reading kind"  Enums(dream, tarot, fortune)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListReadingsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     404  {object} handlers.ErrorResponse "Unknown kind"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /readings/{kind} [get]
func (h *Handlers) ListReadings(c *gin.Context) {
	kind, okKind := kindParam(c)
	if !okKind {
		return
	}
	if h.feed == nil {
		unavailable(c)
		return
	}
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if count, maxTS, err := h.feed.PublicStats(ctx, kind); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixMilli()
		}
		etag := fmt.Sprintf(`W/"readings:%s:%d:%d:%d:%d"`, kind, page, pageSize, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.feed.ListPublic(ctx, kind, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListReadingsResponse{
		Readings:   presentAll(items, middleware.UserID(c)),
		Pagination: newPagination(page, pageSize, total),
	})
}

// ListMyReadings godoc
// @ID          listMyReadings
// @Summary     List the caller's readings
// @Description Returns a page of the caller's own readings of any visibility, newest first.
// @Tags        Readings
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       kind       path    string  true  "Reading kind"  Enums(dream, tarot, fortune)
// @Param       page       query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListReadingsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Missing user"
// @Failure     404  {object} handlers.ErrorResponse "Unknown kind"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /readings/{kind}/mine [get]
func (h *Handlers) ListMyReadings(c *gin.Context) {
	kind, okKind := kindParam(c)
	if !okKind {
		return
	}
	if h.feed == nil {
		unavailable(c)
		return
	}
	ctx := c.Request.Context()
	uid := middleware.UserID(c)
	page, pageSize := clampPagination(c)

	if count, maxTS, err := h.feed.MineStats(ctx, uid, kind); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixMilli()
		}
		etag := fmt.Sprintf(`W/"mine:%s:%d:%d:%d:%d"`, kind, page, pageSize, count, ts)
		c.Header("ETag", etag)
		c.Header("Vary", middleware.HeaderUserID)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.feed.ListMine(ctx, uid, kind, page, pageSize)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, ListReadingsResponse{
		Readings:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// SearchReadings godoc
// @ID          searchReadings
// @Summary     Search public readings
// @Description Ranks recent public readings by keyword overlap with q.
// @Tags        Readings
// @Produce     json
//
// @Param       kind  path   string  true  "Reading kind"  Enums(dream, tarot, fortune)
// @Param       q     query  string  true  "Search text"   example(flying ocean)
// @Param       k     query  int     false "Max hits"      minimum(1) maximum(50) default(20)
//
// @Success     200  {object} handlers.SearchResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing query"
// @Failure     404  {object} handlers.ErrorResponse "Unknown kind"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /readings/{kind}/search [get]
func (h *Handlers) SearchReadings(c *gin.Context) {
	kind, okKind := kindParam(c)
	if !okKind {
		return
	}
	if h.feed == nil {
		unavailable(c)
		return
	}
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q required")
		return
	}
	k := utils.AtoiDefault(c.Query("k"), defaultSearchK)
	if k < 1 {
		k = 1
	}
	if k > maxSearchK {
		k = maxSearchK
	}

	hits, err := h.feed.Search(c.Request.Context(), kind, q, k)
	if err != nil {
		serviceError(c, err)
		return
	}
	viewer := middleware.UserID(c)
	for i := range hits {
		hits[i].Reading = present(hits[i].Reading, viewer)
	}
	ok(c, http.StatusOK, SearchResponse{Query: q, Hits: hits})
}

// GetReading godoc
// @ID          getReading
// @Summary     Get a reading
// @Description Returns a saved reading. Public and unlisted readings are readable by anyone; private ones only by the owner.
// @Tags        Readings
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Viewer user ID"  example(user123)
// @Param       kind       path    string  true  "Reading kind"    Enums(dream, tarot, fortune)
// @Param       id         path    string  true  "Reading ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Reading
// @Failure     400  {object} handlers.ErrorResponse "Bad id"
// @Failure     404  {object} handlers.ErrorResponse "Reading not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /readings/{kind}/{id} [get]
func (h *Handlers) GetReading(c *gin.Context) {
	kind, okKind := kindParam(c)
	if !okKind {
		return
	}
	id, okID := uuidParam(c, "id", "reading id")
	if !okID {
		return
	}
	if h.feed == nil {
		unavailable(c)
		return
	}
	viewer := middleware.UserID(c)
	r, err := h.feed.Get(c.Request.Context(), viewer, kind, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, present(*r, viewer))
}

// SetVisibility godoc
// @ID          setReadingVisibility
// @Summary     Change who can see a reading
// @Description Sets visibility (private, unlisted, public) and anonymity. Anonymity only applies to public readings.
// @Description The body may also be a bare boolean (true = public) or a visibility name.
// @Tags        Readings
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Owner user ID"  example(user123)
// @Param       kind       path    string  true  "Reading kind"   Enums(dream, tarot, fortune)
// @Param       id         path    string  true  "Reading ID (UUID)"  format(uuid)
// @Param       body       body    domain.VisibilityOption  true  "Visibility option"
//
// @Success     200  {object} domain.Reading
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing user"
// @Failure     403  {object} handlers.ErrorResponse "Not the owner"
// @Failure     404  {object} handlers.ErrorResponse "Reading not found"
// @Router      /readings/{kind}/{id}/visibility [put]
func (h *Handlers) SetVisibility(c *gin.Context) {
	kind, okKind := kindParam(c)
	if !okKind {
		return
	}
	id, okID := uuidParam(c, "id", "reading id")
	if !okID {
		return
	}
	if h.engage == nil {
		unavailable(c)
		return
	}
	var opt domain.VisibilityOption
	if err := c.ShouldBindJSON(&opt); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, domain.ErrInvalidVisibility.Error())
		return
	}
	uid := middleware.UserID(c)
	r, err := h.engage.SetVisibility(c.Request.Context(), uid, kind, id, opt)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, present(*r, uid))
}

// GetSaveTask godoc
// @ID          getSaveTask
// @Summary     Background save status
// @Description Reports whether an auto-save started by a generation finished and which reading it produced.
// @Tags        Readings
// @Produce     json
//
// @Param       id  path  string  true  "Save task ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.SaveTaskResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad id"
// @Failure     404  {object} handlers.ErrorResponse "Unknown or expired task"
// @Router      /save-tasks/{id} [get]
func (h *Handlers) GetSaveTask(c *gin.Context) {
	id, okID := uuidParam(c, "id", "save task id")
	if !okID {
		return
	}
	if h.tasks == nil {
		unavailable(c)
		return
	}
	t, err := h.tasks.Get(id)
	if err != nil {
		serviceError(c, err)
		return
	}
	resp := SaveTaskResponse{ID: t.ID, Kind: t.Kind, Status: "pending"}
	if t.Finished() {
		readingID, saved := t.Result()
		if saved {
			resp.Status, resp.ReadingID = "saved", readingID
		} else {
			resp.Status = "failed"
		}
	}
	ok(c, http.StatusOK, resp)
}
