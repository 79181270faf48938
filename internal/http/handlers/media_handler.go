package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetMedia godoc
// @ID          getMedia
// @Summary     Fetch an ephemeral image
// @Description Serves a freshly generated image by its handle id until it is saved or expires.
// @Tags        Media
// @Produce     image/png
// @Produce     image/jpeg
//
// @Param       id  path  string  true  "Image handle ID (UUID)"  format(uuid)
//
// @Success     200  {file}   binary
// @Failure     400  {object} handlers.ErrorResponse "Bad id"
// @Failure     404  {object} handlers.ErrorResponse "Unknown or expired image"
// @Router      /media/{id} [get]
func (h *Handlers) GetMedia(c *gin.Context) {
	id, okID := uuidParam(c, "id", "media id")
	if !okID {
		return
	}
	if h.media == nil {
		unavailable(c)
		return
	}
	img, found := h.media.Get(id)
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "image not found")
		return
	}
	if h.mediaMA > 0 {
		c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", int(h.mediaMA.Seconds())))
	} else {
		c.Header("Cache-Control", "no-store")
	}
	c.Data(http.StatusOK, img.MIME, img.Data)
}
