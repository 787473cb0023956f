package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "zoo-server/services/media-api/internal/domain/media"
	"zoo-server/services/media-api/internal/utils/platformerrors"
)

const notConfiguredDetails = "Image storage is not set up on the server. Please contact the administrator."

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error            string `json:"error"`
	Details          string `json:"details,omitempty"`
	TechnicalDetails string `json:"technicalDetails,omitempty"`
	Reason           string `json:"reason,omitempty"`
	Code             string `json:"code,omitempty"` // UUID from PlatformError
	RequestID        string `json:"request_id,omitempty"`
}

// BuildErrorResponse maps err onto a status code and body.
func BuildErrorResponse(err error, fallback string) (int, ErrorResponse) {
	var platformErr *platformerrors.PlatformError
	if !errors.As(err, &platformErr) {
		resp := ErrorResponse{Error: fallback}
		if err != nil {
			resp.Details = err.Error()
		}
		return http.StatusInternalServerError, resp
	}

	resp := ErrorResponse{
		Error:     platformErr.Message,
		Code:      platformErr.GetUUID(),
		RequestID: platformErr.GetRequestID(),
	}
	if resp.Error == "" {
		resp.Error = fallback
	}

	var rejection *domain.RejectionError
	var cfgErr *domain.ConfigurationError
	var processing *domain.ProcessingError
	switch {
	case errors.As(err, &rejection):
		resp.Error = rejection.Title
		resp.Details = rejection.Details
		resp.Reason = string(rejection.Reason)
	case errors.As(err, &cfgErr):
		resp.Details = notConfiguredDetails
		resp.TechnicalDetails = cfgErr.Error()
	case errors.Is(err, domain.ErrNotConfigured):
		resp.Details = notConfiguredDetails
		resp.TechnicalDetails = domain.ErrNotConfigured.Error()
	case errors.As(err, &processing):
		resp.Details = processing.Err.Error()
	case platformErr.Err != nil && platformErr.Type != platformerrors.ErrorTypeDatabaseError:
		resp.Details = platformErr.Err.Error()
	}

	return platformerrors.ErrorTypeToHTTPStatus(platformErr.GetErrorType()), resp
}

// HandleError logs err and aborts the request with the mapped response.
func HandleError(reqCtx *gin.Context, log zerolog.Logger, err error, fallback string) {
	if platformErr := platformerrors.GetPlatformError(err); platformErr != nil {
		platformerrors.LogError(log, platformErr)
	} else {
		log.Error().Err(err).Msg(fallback)
	}
	status, resp := BuildErrorResponse(err, fallback)
	reqCtx.AbortWithStatusJSON(status, resp)
}

// HandleNewError creates a typed error at the route layer and aborts with it.
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message, details, uuid string) {
	err := platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, errorType, message, nil, uuid)
	reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(err.GetErrorType()), ErrorResponse{
		Error:     message,
		Details:   details,
		Code:      err.GetUUID(),
		RequestID: err.GetRequestID(),
	})
}
