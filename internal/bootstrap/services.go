package bootstrap

import (
	"context"
	"log"

	"github.com/go-authgate/idgate/internal/config"
	"github.com/go-authgate/idgate/internal/core"
	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/kit"
	"github.com/go-authgate/idgate/internal/metrics"
	"github.com/go-authgate/idgate/internal/services"
	"github.com/go-authgate/idgate/internal/store"
)

// sessionTokenIssuer is the iss claim of session tokens.
const sessionTokenIssuer = "idgate"

// initializeServices creates all business logic services
func initializeServices(
	ctx context.Context,
	cfg *config.Config,
	db *store.Store,
	sessionCache core.Cache[identity.Session],
	auditService *services.AuditService,
	prometheusMetrics metrics.Recorder,
) (*services.LoginService, *services.EventService, *kit.Kit, error) {
	provider, err := initializeIdentityProvider(ctx, cfg, db)
	if err != nil {
		return nil, nil, nil, err
	}

	loginService := services.NewLoginService(
		db,
		provider,
		identity.NewTokenIssuer(cfg.JWTSecret, sessionTokenIssuer, cfg.SessionTTL),
		sessionCache,
		cfg.SessionCacheTTL,
		prometheusMetrics,
		auditService,
	)

	engageKit, err := initializeKit(ctx, cfg, db, prometheusMetrics)
	if err != nil {
		return nil, nil, nil, err
	}

	var kits []services.EventKit
	if engageKit != nil {
		loginService.AddListener(engageKit)
		kits = append(kits, engageKit)
	}
	eventService := services.NewEventService(auditService, kits...)
	log.Printf("Event service: %d kit(s) registered %v", len(kits), eventService.Kits())

	return loginService, eventService, engageKit, nil
}
