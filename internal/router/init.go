package router

import (
	"github.com/harmonia-music/account-service/internal/application"
	"github.com/harmonia-music/account-service/internal/container"
	pginfra "github.com/harmonia-music/account-service/internal/infrastructure/postgres"
	handlers "github.com/harmonia-music/account-service/internal/interface/http"
	"github.com/harmonia-music/account-service/internal/router/modules"
)

// InitModules builds the account module from container singletons and
// registers it. Called once during startup.
func InitModules(r *Registry) {
	repo := pginfra.NewIdentityRepository(container.GetPGPool())

	svc := application.NewService(
		repo,
		container.GetSessions(),
		container.GetPhotos(),
		container.GetNotifier(),
		container.GetLogger(),
	)

	handler := handlers.NewAccountHandler(
		svc,
		container.GetLogger(),
		container.GetConfig().CookieDomain,
		container.GetConfig().CookieSecure,
	)

	r.Add(modules.NewAccountModule(handler, container.GetSessions()))
}
