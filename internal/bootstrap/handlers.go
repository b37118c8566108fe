package bootstrap

import (
	"github.com/go-authgate/idgate/internal/config"
	"github.com/go-authgate/idgate/internal/handlers"
	"github.com/go-authgate/idgate/internal/services"
)

// handlerSet holds all HTTP handlers and required services
type handlerSet struct {
	login        *handlers.LoginHandler
	dashboard    *handlers.DashboardHandler
	identityAPI  *handlers.IdentityAPIHandler
	eventAPI     *handlers.EventAPIHandler
	audit        *handlers.AuditHandler
	loginService *services.LoginService
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	cfg *config.Config,
	loginService *services.LoginService,
	eventService *services.EventService,
	auditService *services.AuditService,
) handlerSet {
	var resumeCookie string
	if cfg.IdentityMode == config.IdentityModeKratos {
		resumeCookie = cfg.KratosSessionCookie
	}

	return handlerSet{
		login:        handlers.NewLoginHandler(loginService, resumeCookie),
		dashboard:    handlers.NewDashboardHandler(loginService, eventService),
		identityAPI:  handlers.NewIdentityAPIHandler(loginService),
		eventAPI:     handlers.NewEventAPIHandler(eventService),
		audit:        handlers.NewAuditHandler(auditService),
		loginService: loginService,
	}
}
