package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/vestira/account-service/config"
	"github.com/vestira/account-service/internal/application"
	"github.com/vestira/account-service/internal/domain/repository"
	"github.com/vestira/account-service/pkg/helpers"
)

// app-level container to share constructed components across packages.
// The router auto-wires modules from these singletons. The user store in
// particular is initialized exactly once at process start and injected
// everywhere from here, never reached as ambient package state.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client
	userRepo    repository.UserRepository

	jwtManager *helpers.JWTManager
	hasher     *helpers.Hasher
	rabbitPub  *helpers.RabbitPublisher

	accountSvc *application.Service
)

func SetConfig(c *config.Config)               { cfg = c }
func GetConfig() *config.Config                { return cfg }
func SetLogger(l *logrus.Logger)               { logger = l }
func GetLogger() *logrus.Logger                { return logger }
func SetRedis(r *redis.Client)                 { redisClient = r }
func GetRedis() *redis.Client                  { return redisClient }
func SetUserRepo(r repository.UserRepository)  { userRepo = r }
func GetUserRepo() repository.UserRepository   { return userRepo }
func SetJWT(m *helpers.JWTManager)             { jwtManager = m }
func GetJWT() *helpers.JWTManager              { return jwtManager }
func SetHasher(h *helpers.Hasher)              { hasher = h }
func GetHasher() *helpers.Hasher               { return hasher }
func SetRabbitPub(p *helpers.RabbitPublisher)  { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher   { return rabbitPub }
func SetAccountService(s *application.Service) { accountSvc = s }
func GetAccountService() *application.Service  { return accountSvc }
