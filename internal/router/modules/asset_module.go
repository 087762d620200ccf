package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/danisatya/asset-management-api/internal/application"
	"github.com/danisatya/asset-management-api/internal/container"
	handlers "github.com/danisatya/asset-management-api/internal/interface/http"
	"github.com/danisatya/asset-management-api/internal/interface/middleware"
	"github.com/danisatya/asset-management-api/pkg/helpers"
)

// AssetModule wires asset CRUD, search and image captioning into routes.
// Everything here requires a valid bearer token.

type AssetModule struct {
	Handler *handlers.AssetHandler
	Users   *application.UserService
	JWT     *helpers.JWTManager
}

func NewAssetModule(h *handlers.AssetHandler, users *application.UserService, jwt *helpers.JWTManager) *AssetModule {
	return &AssetModule{Handler: h, Users: users, JWT: jwt}
}

func (m *AssetModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/assets", m.Handler.Create)
		auth.GET("/assets", m.Handler.List)
		auth.GET("/assets/search", m.Handler.Search)
		auth.GET("/assets/:id", m.Handler.Get)
		auth.PUT("/assets/:id", m.Handler.Update)
		auth.DELETE("/assets/:id", m.Handler.Delete)
		auth.POST("/assets/:id/upload-image", m.Handler.UploadImage)
	}
}
