package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vestira/account-service/internal/container"
	handlers "github.com/vestira/account-service/internal/interface/http"
	"github.com/vestira/account-service/internal/interface/middleware"
	"github.com/vestira/account-service/pkg/helpers"
)

// ProfileModule wires the authenticated profile endpoints.
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	JWT     *helpers.JWTManager
}

func NewProfileModule(h *handlers.ProfileHandler, jwt *helpers.JWTManager) *ProfileModule {
	return &ProfileModule{Handler: h, JWT: jwt}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/profile", m.Handler.Get)
		auth.PUT("/profile", m.Handler.Update)
	}
}
