// Generation HTTP handler.
//
// POST /readings/{kind}/generate runs the reading pipeline. By default the
// finished reading is returned as JSON. With ?stream=true (or an
// Accept: text/event-stream header) progress is streamed as server-sent
// events:
//
//	event: progress   services.Event, once per stage change
//	event: result     GenerateResponse
//	event: saved      SavedEvent, when a background save was started
//	event: error      ErrorResponse, on a fatal failure after the stream opened
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
	"github.com/dossbaby/dream-storybook-sub001/internal/http/middleware"
	"github.com/dossbaby/dream-storybook-sub001/internal/media"
	"github.com/dossbaby/dream-storybook-sub001/internal/services"
	"github.com/dossbaby/dream-storybook-sub001/internal/sysutil"
)

// CardSelection is one card picked by the user.
type CardSelection struct {
	ID string `json:"id" example:"major_17"`
}

// GenerateRequest is the JSON payload for generating a reading. Which
// fields are required depends on the kind:
//   - dream:   text
//   - tarot:   text (the question) and exactly 3 distinct cards
//   - fortune: category
type GenerateRequest struct {
	Text     string              `json:"text,omitempty"     example:"I was flying over a dark ocean"`
	Cards    []CardSelection     `json:"cards,omitempty"`
	Category string              `json:"category,omitempty" example:"love"`
	Profile  *domain.UserProfile `json:"profile,omitempty"`
}

func (r GenerateRequest) toDomain(kind domain.Kind) domain.ReadingRequest {
	req := domain.ReadingRequest{
		Kind:     kind,
		FreeText: r.Text,
		Category: domain.FortuneCategory(r.Category),
		Profile:  r.Profile,
	}
	if len(r.Cards) > 0 {
		req.Cards = make([]domain.CardRef, len(r.Cards))
		for i, c := range r.Cards {
			req.Cards[i] = domain.CardRef{ID: strings.TrimSpace(c.ID)}
		}
	}
	return req
}

// GenerateResponse is the finished reading.
type GenerateResponse struct {
	Reading *domain.GenerationResult `json:"reading"`
	// ImageURLs maps each slot holding an ephemeral handle to the URL it is
	// served from. Handles expire after MEDIA_TTL, or a grace window after the
	// background save succeeds; durable URLs come from the saved reading.
	ImageURLs map[domain.Slot]string `json:"image_urls,omitempty"`
	// SaveTaskID is set when the reading is being saved in the background.
	SaveTaskID string `json:"save_task_id,omitempty" example:"3f1c9a4e-7d1b-4a51-9b0e-2d8b1f6c7a90"`
}

// SavedEvent reports the outcome of the background save on a stream.
type SavedEvent struct {
	TaskID    string `json:"task_id"`
	ReadingID string `json:"reading_id,omitempty"`
	Saved     bool   `json:"saved"`
}

func (h *Handlers) response(result *domain.GenerationResult, task *services.SaveTask) GenerateResponse {
	resp := GenerateResponse{Reading: result}
	if task != nil {
		resp.SaveTaskID = task.ID
	}
	if h.mediaAt == "" {
		return resp
	}
	for slot, ref := range result.Images {
		if ref == nil || !media.IsHandle(*ref) {
			continue
		}
		if resp.ImageURLs == nil {
			resp.ImageURLs = make(map[domain.Slot]string)
		}
		resp.ImageURLs[slot] = h.mediaAt + "/" + media.ID(*ref)
	}
	return resp
}

func wantsStream(c *gin.Context) bool {
	if sysutil.IsTruthy(c.Query("stream")) {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

// GenerateReading godoc
// @ID          generateReading
// @Summary     Generate a reading
// @Description Runs prompt building, text generation, image generation and assembly for one reading.
// @Description With stream=true the response is a server-sent event stream (progress, result, saved, error).
// @Description Authenticated results are saved in the background with public visibility.
// @Tags        Generation
// @Accept      json
// @Produce     json
// @Produce     text/event-stream
//
// @Param       X-User-ID  header  string  false "User ID (anonymous when absent)"  example(user123)
// @Param       kind       path    string  true  "Reading kind"  Enums(dream, tarot, fortune)
// @Param       stream     query   bool    false "Stream progress as server-sent events"
// @Param       body       body    handlers.GenerateRequest  true  "Reading input"
//
// @Success     200  {object}  handlers.GenerateResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid input"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown kind"
// @Failure     429  {object}  handlers.ErrorResponse  "Too many requests"
// @Failure     502  {object}  handlers.ErrorResponse  "Generation failed"
// @Failure     503  {object}  handlers.ErrorResponse  "Configuration required"
// @Router      /readings/{kind}/generate [post]
func (h *Handlers) GenerateReading(c *gin.Context) {
	kind, okKind := kindParam(c)
	if !okKind {
		return
	}
	if h.gen == nil {
		unavailable(c)
		return
	}
	var body GenerateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	req := body.toDomain(kind)
	uid := middleware.UserID(c)

	if wantsStream(c) {
		h.generateStream(c, uid, req)
		return
	}

	result, task, err := h.gen.Generate(c.Request.Context(), uid, req, nil)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, h.response(result, task))
}

// generateStream writes the run as server-sent events. The stream opens on
// the first event, so input errors detected before any progress are still
// plain JSON responses.
func (h *Handlers) generateStream(c *gin.Context, uid string, req domain.ReadingRequest) {
	if !h.gen.Configured() {
		serviceError(c, services.ErrConfiguration)
		return
	}
	ctx := c.Request.Context()

	opened := false
	send := func(event string, data any) {
		if !opened {
			opened = true
			hdr := c.Writer.Header()
			hdr.Set("Content-Type", "text/event-stream")
			hdr.Set("Cache-Control", "no-cache")
			hdr.Set("Connection", "keep-alive")
			hdr.Set("X-Accel-Buffering", "no")
			c.Status(http.StatusOK)
		}
		c.SSEvent(event, data)
		c.Writer.Flush()
	}

	done := middleware.TrackStream()
	defer done()

	result, task, err := h.gen.Generate(ctx, uid, req, func(e services.Event) {
		send("progress", e)
	})
	if err != nil {
		if !opened {
			serviceError(c, err)
			return
		}
		if errors.Is(err, context.Canceled) {
			return
		}
		status, code, msg := classify(err)
		if status >= http.StatusInternalServerError {
			middleware.LoggerFrom(c).Error().Err(err).Str("code", code).Msg("generation stream failed")
		}
		send("error", ErrorResponse{RequestID: middleware.GetRequestID(c), Code: code, Message: msg})
		return
	}

	send("result", h.response(result, task))
	if task == nil {
		return
	}
	select {
	case <-task.Done():
		id, saved := task.Result()
		send("saved", SavedEvent{TaskID: task.ID, ReadingID: id, Saved: saved})
	case <-ctx.Done():
	}
}
