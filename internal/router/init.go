package router

import (
	"github.com/vestira/account-service/internal/application"
	"github.com/vestira/account-service/internal/container"
	handlers "github.com/vestira/account-service/internal/interface/http"
	"github.com/vestira/account-service/internal/router/modules"
)

func buildService() *application.Service {
	cfg := container.GetConfig()

	// A nil *RabbitPublisher must stay a nil interface value, otherwise
	// the service's nil check never fires.
	var pub application.EmailPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	return application.NewService(
		container.GetUserRepo(),
		container.GetHasher(),
		container.GetJWT(),
		pub,
		container.GetLogger(),
		cfg.VerifyLink,
		cfg.LoginURL,
		cfg.MailSendEnabled,
	)
}

// InitModules initializes all application modules and registers them with
// the router registry. Called once during startup after the container is
// populated.
func InitModules(r *Registry) {
	svc := buildService()
	container.SetAccountService(svc)
	cfg := container.GetConfig()
	logger := container.GetLogger()

	accountHandler := handlers.NewAccountHandler(svc, logger, cfg)
	profileHandler := handlers.NewProfileHandler(svc, logger)

	r.Add(modules.NewAccountModule(accountHandler, container.GetJWT()))
	r.Add(modules.NewProfileModule(profileHandler, container.GetJWT()))
	r.Add(modules.NewSystemModule())
}
