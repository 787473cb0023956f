package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "zoo-server/services/media-api/internal/domain/media"
	"zoo-server/services/media-api/internal/interfaces/httpserver/requests"
	"zoo-server/services/media-api/internal/interfaces/httpserver/responses"
	"zoo-server/services/media-api/internal/utils/platformerrors"
)

// EntityImageHandler manages the image attached to one animal or exhibit.
// One handler is registered per kind.
type EntityImageHandler struct {
	kind    domain.EntityKind
	service ImageService
	log     zerolog.Logger
}

func NewEntityImageHandler(kind domain.EntityKind, service ImageService, log zerolog.Logger) *EntityImageHandler {
	return &EntityImageHandler{
		kind:    kind,
		service: service,
		log:     log.With().Str("component", "entity-image-handler").Str("kind", string(kind)).Logger(),
	}
}

// Get godoc
// @Summary      Get an entity image
// @Tags         entity-images
// @Produce      json
// @Param        kind  path      string  true  "animals or exhibits"
// @Param        id    path      int     true  "Entity ID"
// @Success      200   {object}  responses.EntityImageResponse
// @Failure      404   {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/{kind}/{id}/image [get]
func (h *EntityImageHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	url, err := h.service.GetEntityImage(c.Request.Context(), h.kind, id)
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to load image")
		return
	}
	c.JSON(http.StatusOK, responses.BuildEntityImageResponse(h.kind, id, url))
}

// Replace godoc
// @Summary      Replace an entity image
// @Description  Uploads a new image, stores its URL on the entity and deletes the previous image best-effort.
// @Tags         entity-images
// @Accept       multipart/form-data
// @Produce      json
// @Param        kind   path      string  true  "animals or exhibits"
// @Param        id     path      int     true  "Entity ID"
// @Param        image  formData  file    true  "Image file"
// @Success      200    {object}  responses.ReplaceResponse
// @Failure      400    {object}  responses.ErrorResponse
// @Failure      404    {object}  responses.ErrorResponse
// @Failure      500    {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/{kind}/{id}/image [put]
func (h *EntityImageHandler) Replace(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	candidate, ok := readUploadOrAbort(c, h.log, h.service.UploadCeiling())
	if !ok {
		return
	}

	outcome, err := h.service.ReplaceEntityImage(c.Request.Context(), h.kind, id, candidate)
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to replace image")
		return
	}
	c.JSON(http.StatusOK, responses.BuildReplaceResponse(outcome))
}

// Remove godoc
// @Summary      Remove an entity image
// @Description  Clears the entity's image URL and deletes the stored image best-effort.
// @Tags         entity-images
// @Produce      json
// @Param        kind  path      string  true  "animals or exhibits"
// @Param        id    path      int     true  "Entity ID"
// @Success      200   {object}  responses.ReplaceResponse
// @Failure      404   {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/{kind}/{id}/image [delete]
func (h *EntityImageHandler) Remove(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	outcome, err := h.service.RemoveEntityImage(c.Request.Context(), h.kind, id)
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to remove image")
		return
	}
	c.JSON(http.StatusOK, responses.BuildReplaceResponse(outcome))
}

func (h *EntityImageHandler) bindID(c *gin.Context) (int64, bool) {
	var path requests.EntityImagePath
	if err := c.ShouldBindUri(&path); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid "+string(h.kind)+" id", err.Error(), errUUIDBadRequest)
		return 0, false
	}
	return path.ID, true
}
