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

type EmailModule struct {
	Handler *handlers.EmailHandler
	Users   *application.UserService
	JWT     *helpers.JWTManager
}

func NewEmailModule(h *handlers.EmailHandler, users *application.UserService, jwt *helpers.JWTManager) *EmailModule {
	return &EmailModule{Handler: h, Users: users, JWT: jwt}
}

func (m *EmailModule) Register(rg *gin.RouterGroup) {
	// Protected email endpoints
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/email/test", m.Handler.TestSend)
	}
}
