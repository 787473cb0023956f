package v1

import (
	"github.com/gin-gonic/gin"

	"zoo-server/services/media-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches the authenticated v1 routes under /v1.
func (r *Routes) Register(router gin.IRouter, authMiddleware gin.HandlerFunc) {
	group := router.Group("/v1")
	r.RegisterFiles(group)

	api := group.Group("", authMiddleware)
	api.POST("/images/:kind", r.handlers.Media.Upload)
	api.DELETE("/images", r.handlers.Media.DeleteByURL)

	registerEntity(api.Group("/animals/:id/image"), r.handlers.Animals)
	registerEntity(api.Group("/exhibits/:id/image"), r.handlers.Exhibits)

	api.GET("/image-replacements", r.handlers.Replacements.List)
	api.GET("/image-replacements/:id", r.handlers.Replacements.Get)
}

// RegisterFiles exposes stored files publicly. Only the disk backend serves them.
func (r *Routes) RegisterFiles(group gin.IRouter) {
	if r.handlers.Files == nil {
		return
	}
	group.GET("/files/*path", r.handlers.Files.Serve)
}

func registerEntity(group gin.IRouter, handler *handlers.EntityImageHandler) {
	group.GET("", handler.Get)
	group.PUT("", handler.Replace)
	group.POST("", handler.Replace)
	group.DELETE("", handler.Remove)
}
