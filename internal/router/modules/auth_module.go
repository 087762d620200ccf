package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/danisatya/asset-management-api/internal/container"
	handlers "github.com/danisatya/asset-management-api/internal/interface/http"
	"github.com/danisatya/asset-management-api/internal/interface/middleware"
)

// AuthModule exposes the public registration and login endpoints.
// Public: POST /api/auth/register, POST /api/auth/login

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
}
