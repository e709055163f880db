package modules

import (
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vestira/account-service/internal/container"
	"github.com/vestira/account-service/internal/interface/middleware"
)

// SystemModule exposes liveness and, when enabled, expvar metrics.
type SystemModule struct{}

func NewSystemModule() *SystemModule { return &SystemModule{} }

func (m *SystemModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg := container.GetConfig(); cfg != nil && cfg.DebugMetricsEnabled {
		rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
		rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	}
}
