package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "zoo-server/services/media-api/internal/domain/media"
	"zoo-server/services/media-api/internal/infrastructure/storage"
)

// FileOpener is implemented by backends that can stream stored files.
type FileOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// FileHandler serves images written by the disk backend.
type FileHandler struct {
	opener FileOpener
	log    zerolog.Logger
}

// NewFileHandler returns nil when store cannot serve files.
func NewFileHandler(store domain.Storage, log zerolog.Logger) *FileHandler {
	opener, ok := store.(FileOpener)
	if !ok {
		return nil
	}
	return &FileHandler{opener: opener, log: log.With().Str("component", "file-handler").Logger()}
}

// Serve godoc
// @Summary      Download a stored image
// @Description  Available with the local storage backend only.
// @Tags         files
// @Produce      octet-stream
// @Param        path  path  string  true  "Folder and filename, e.g. animals/animal-1-2.png"
// @Success      200   "binary data"
// @Failure      404   {object}  map[string]string
// @Router       /v1/files/{path} [get]
func (h *FileHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("path"), "/")
	reader, contentType, err := h.opener.Open(c.Request.Context(), key)
	if err != nil {
		if storage.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		h.log.Error().Err(err).Str("key", key).Msg("open failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer reader.Close()

	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.DataFromReader(http.StatusOK, -1, contentType, reader, nil)
}
