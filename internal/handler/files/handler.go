package files

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinicware/clinic-api/internal/handler"
	"github.com/clinicware/clinic-api/internal/storage"
)

// Handler serves stored blobs through their signed read links. The routes
// are public; the signature in the URL is the access control.
type Handler struct {
	blobs storage.BlobStore
}

func NewHandler(blobs storage.BlobStore) *Handler {
	return &Handler{blobs: blobs}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/files/*key", h.Serve)
}

func (h *Handler) Serve(c *gin.Context) {
	if h.blobs == nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("file storage not configured"))
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	expires := c.Query("expires")
	sig := c.Query("sig")

	if err := h.blobs.Verify(key, expires, sig); err != nil {
		status := http.StatusForbidden
		if errors.Is(err, storage.ErrLinkExpired) {
			status = http.StatusGone
		}
		c.JSON(status, handler.NewErrorResponse(err.Error()))
		return
	}

	data, err := h.blobs.Open(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("file not found"))
		return
	}

	contentType := "application/octet-stream"
	if strings.HasSuffix(key, ".pdf") {
		contentType = "application/pdf"
	}
	c.Data(http.StatusOK, contentType, data)
}
