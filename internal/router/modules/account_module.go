package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vestira/account-service/internal/container"
	handlers "github.com/vestira/account-service/internal/interface/http"
	"github.com/vestira/account-service/internal/interface/middleware"
	"github.com/vestira/account-service/pkg/helpers"
)

// AccountModule wires the signup/verify/login endpoints.
// Public: POST /api/signup, POST /api/login, GET /api/verify,
// POST /api/verify/resend. Protected: POST /api/logout.
type AccountModule struct {
	Handler *handlers.AccountHandler
	JWT     *helpers.JWTManager
}

func NewAccountModule(h *handlers.AccountHandler, jwt *helpers.JWTManager) *AccountModule {
	return &AccountModule{Handler: h, JWT: jwt}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	signupLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	verifyLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	resendLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.GET("/verify", verifyLimiter, m.Handler.Verify)
	rg.POST("/verify/resend", resendLimiter, m.Handler.ResendVerification)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
