package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "zoo-server/services/media-api/internal/domain/media"
	"zoo-server/services/media-api/internal/interfaces/httpserver/requests"
	"zoo-server/services/media-api/internal/interfaces/httpserver/responses"
	"zoo-server/services/media-api/internal/utils/platformerrors"
)

// ImageService is the slice of the media service the handlers call.
type ImageService interface {
	UploadCeiling() int64
	Ready(ctx context.Context) error
	Upload(ctx context.Context, candidate domain.UploadCandidate, kind domain.EntityKind) (*domain.UploadResult, error)
	DeleteImage(ctx context.Context, urlOrKey string) domain.CleanupResult
	GetEntityImage(ctx context.Context, kind domain.EntityKind, entityID int64) (string, error)
	ReplaceEntityImage(ctx context.Context, kind domain.EntityKind, entityID int64, candidate domain.UploadCandidate) (*domain.ReplaceOutcome, error)
	RemoveEntityImage(ctx context.Context, kind domain.EntityKind, entityID int64) (*domain.ReplaceOutcome, error)
	GetReplacement(ctx context.Context, id string) (*domain.ReplacementRecord, error)
	ListReplacements(ctx context.Context, state domain.ReplaceState, limit int) ([]*domain.ReplacementRecord, error)
}

const (
	errUUIDBodyTooLarge = "b1c2d3e4-f5a6-47b8-9c0d-1e2f3a4b5c6d"
	errUUIDReadUpload   = "c2d3e4f5-a6b7-48c9-8d0e-2f3a4b5c6d7e"
	errUUIDBadRequest   = "d3e4f5a6-b7c8-49d0-9e1f-3a4b5c6d7e8f"
)

// MediaHandler serves the upload and delete-by-url endpoints.
type MediaHandler struct {
	service ImageService
	log     zerolog.Logger
}

func NewMediaHandler(service ImageService, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		service: service,
		log:     log.With().Str("component", "media-handler").Logger(),
	}
}

// Upload godoc
// @Summary      Upload an image
// @Description  Validates, optimizes and stores an image for an animal or exhibit. Returns the public URL.
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Param        kind   path      string  true  "Entity kind (animals or exhibits)"
// @Param        image  formData  file    true  "Image file (jpeg, png, gif, webp)"
// @Success      200    {object}  responses.UploadResponse
// @Failure      400    {object}  responses.ErrorResponse
// @Failure      500    {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/images/{kind} [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	kind := kindFromRequest(c)

	candidate, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.service.Upload(c.Request.Context(), candidate, kind)
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to upload image")
		return
	}
	c.JSON(http.StatusOK, responses.BuildUploadResponse(result))
}

// DeleteByURL godoc
// @Summary      Delete a stored image
// @Description  Best-effort delete by public URL or object key. Always succeeds; the body reports what happened.
// @Tags         images
// @Produce      json
// @Param        url  query     string  true  "Public URL or object key"
// @Success      200  {object}  responses.CleanupResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/images [delete]
func (h *MediaHandler) DeleteByURL(c *gin.Context) {
	var query requests.DeleteImageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Missing image url", err.Error(), errUUIDBadRequest)
		return
	}

	result := h.service.DeleteImage(c.Request.Context(), query.URL)
	c.JSON(http.StatusOK, responses.BuildCleanupResponse(result))
}

// readUpload parses the multipart body. It writes the error response itself
// and returns false when the request cannot proceed.
func (h *MediaHandler) readUpload(c *gin.Context) (domain.UploadCandidate, bool) {
	return readUploadOrAbort(c, h.log, h.service.UploadCeiling())
}

func readUploadOrAbort(c *gin.Context, log zerolog.Logger, ceiling int64) (domain.UploadCandidate, bool) {
	candidate, err := readCandidate(c, ceiling)
	if err == nil {
		return candidate, true
	}

	ctx := c.Request.Context()
	if errors.Is(err, errBodyTooLarge) {
		rejection := domain.FileTooLarge(ceiling)
		responses.HandleError(c, log, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerHandler,
			platformerrors.ErrorTypeValidation, rejection.Title, rejection, errUUIDBodyTooLarge,
			map[string]any{"reason": string(rejection.Reason)}), "File too large")
		return domain.UploadCandidate{}, false
	}
	responses.HandleError(c, log, platformerrors.NewError(ctx, platformerrors.LayerHandler,
		platformerrors.ErrorTypeValidation, "Failed to read upload", err, errUUIDReadUpload), "Failed to read upload")
	return domain.UploadCandidate{}, false
}

// kindFromRequest resolves the entity kind from the :kind parameter, falling
// back to the path rule (anything mentioning exhibits is an exhibit).
func kindFromRequest(c *gin.Context) domain.EntityKind {
	if kind, err := domain.ParseEntityKind(c.Param("kind")); err == nil {
		return kind
	}
	return domain.KindFromPath(c.Request.URL.Path)
}
