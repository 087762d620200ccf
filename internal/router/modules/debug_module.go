package modules

import (
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/danisatya/asset-management-api/internal/container"
	"github.com/danisatya/asset-management-api/internal/interface/middleware"
	"github.com/danisatya/asset-management-api/pkg/response"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Probes from inside the network bypass the limiter.
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/health", rl, func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "healthy", nil)
	})

	if cfg := container.GetConfig(); cfg != nil && cfg.DebugMetricsEnabled {
		// Public metrics endpoint (expvar), rate-limited per IP
		rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	}
}
