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

// ReplacementHandler exposes the replacement ledger so orphaned images can be found.
type ReplacementHandler struct {
	service ImageService
	log     zerolog.Logger
}

func NewReplacementHandler(service ImageService, log zerolog.Logger) *ReplacementHandler {
	return &ReplacementHandler{
		service: service,
		log:     log.With().Str("component", "replacement-handler").Logger(),
	}
}

// List godoc
// @Summary      List image replacements
// @Tags         image-replacements
// @Produce      json
// @Param        state  query     string  false  "Filter by state (e.g. old_orphaned)"
// @Param        limit  query     int     false  "Max rows (1-200, default 50)"
// @Success      200    {object}  responses.ReplacementListResponse
// @Failure      400    {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/image-replacements [get]
func (h *ReplacementHandler) List(c *gin.Context) {
	var query requests.ListReplacementsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid query", err.Error(), errUUIDBadRequest)
		return
	}

	records, err := h.service.ListReplacements(c.Request.Context(), domain.ReplaceState(query.State), query.Limit)
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to list replacements")
		return
	}
	c.JSON(http.StatusOK, responses.BuildReplacementListResponse(records))
}

// Get godoc
// @Summary      Get an image replacement
// @Tags         image-replacements
// @Produce      json
// @Param        id   path      string  true  "Replacement ID (rpl_...)"
// @Success      200  {object}  responses.ReplacementResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/image-replacements/{id} [get]
func (h *ReplacementHandler) Get(c *gin.Context) {
	record, err := h.service.GetReplacement(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to load replacement")
		return
	}
	c.JSON(http.StatusOK, responses.BuildReplacementResponse(record))
}
