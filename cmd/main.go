package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vestira/account-service/config"
	"github.com/vestira/account-service/internal/container"
	"github.com/vestira/account-service/internal/infrastructure/memstore"
	"github.com/vestira/account-service/internal/interface/middleware"
	"github.com/vestira/account-service/internal/router"
	"github.com/vestira/account-service/pkg/helpers"
	"github.com/vestira/account-service/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	if cfg.JWTSecret == "dev-only-insecure-secret" && !cfg.IsDevelopment() {
		logger.Fatal("JWT_SECRET must be set outside development")
	}

	// In-memory credential store: created once here, injected everywhere.
	// Records do not survive a restart.
	repo := memstore.NewUserRepository()

	// Redis backs the rate limiter only; the limiter fails open if the
	// connection is down.
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	jwtManager := helpers.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL, cfg.VerificationTTL)
	hasher := helpers.NewHasher(cfg.BcryptCost)

	// Email queue publisher; optional in development.
	var pub *helpers.RabbitPublisher
	if cfg.MailSendEnabled {
		p, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			if cfg.IsDevelopment() {
				logger.WithError(err).Warn("rabbitmq unavailable, verification emails will not be sent")
			} else {
				logger.WithError(err).Fatal("failed to connect to rabbitmq")
			}
		} else {
			pub = p
			defer pub.Close()
		}
	}

	// Provide singletons to the container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetUserRepo(repo)
	container.SetJWT(jwtManager)
	container.SetHasher(hasher)
	container.SetRabbitPub(pub)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	// Demo fixtures go through the regular signup path.
	if cfg.SeedDemoAccounts && cfg.IsDevelopment() {
		container.GetAccountService().SeedDemoAccounts(context.Background(), logger)
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
