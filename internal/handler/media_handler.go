package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juntape/junta/internal/media"
	"github.com/juntape/junta/pkg/logger"
	"github.com/juntape/junta/pkg/response"
	"go.uber.org/zap"
)

// MediaHandler uploads wizard images
type MediaHandler struct {
	store media.Store
	log   *logger.Logger
}

// NewMediaHandler creates a new MediaHandler; a nil store disables uploads
func NewMediaHandler(store media.Store, log *logger.Logger) *MediaHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &MediaHandler{store: store, log: log}
}

// Upload handles POST /media with a multipart "file"
func (h *MediaHandler) Upload(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, response.Unavailable("Image uploads are not configured"))
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxImageBytes+1<<20)
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("A file field is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Could not read the uploaded file"))
		return
	}
	defer file.Close()

	asset, err := h.store.Upload(c.Request.Context(), media.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		switch {
		case errors.Is(err, media.ErrUnsupportedType):
			c.JSON(http.StatusUnsupportedMediaType, response.BadRequest(err.Error()))
		case errors.Is(err, media.ErrTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, response.BadRequest(err.Error()))
		default:
			h.log.WithContext(c.Request.Context()).Error("Image upload failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, response.Error(response.ErrCodeUnavailable, "Image upload failed"))
		}
		return
	}

	c.JSON(http.StatusCreated, response.Success(asset))
}
