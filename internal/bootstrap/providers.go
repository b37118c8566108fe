package bootstrap

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"github.com/go-authgate/idgate/internal/client"
	"github.com/go-authgate/idgate/internal/config"
	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/kit"
	"github.com/go-authgate/idgate/internal/metrics"
	"github.com/go-authgate/idgate/internal/store"

	httpclient "github.com/appleboy/go-httpclient"
)

// kitAuthHeader carries the platform API key as HTTP basic credentials.
const kitAuthHeader = "Authorization"

// initializeIdentityProvider creates the provider selected by IDENTITY_MODE
func initializeIdentityProvider(
	ctx context.Context,
	cfg *config.Config,
	db *store.Store,
) (identity.Provider, error) {
	switch cfg.IdentityMode {
	case config.IdentityModeHTTPAPI:
		retryClient, err := client.CreateRetryClient(ctx, client.RetryClientConfig{
			AuthMode:           cfg.IdentityAPIAuthMode,
			AuthSecret:         cfg.IdentityAPIAuthSecret,
			AuthHeader:         cfg.IdentityAPIAuthHeader,
			Timeout:            cfg.IdentityAPITimeout,
			InsecureSkipVerify: cfg.IdentityAPIInsecureSkipVerify,
			MaxRetries:         cfg.IdentityAPIMaxRetries,
			RetryDelay:         cfg.IdentityAPIRetryDelay,
			MaxRetryDelay:      cfg.IdentityAPIMaxRetryDelay,
			ClientCredentials: client.NewClientCredentials(
				cfg.IdentityAPITokenURL,
				cfg.IdentityAPIClientID,
				cfg.IdentityAPIClientSecret,
				cfg.IdentityAPIScopes,
			),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create identity API client: %w", err)
		}
		log.Printf("Identity provider: http_api (%s)", cfg.IdentityAPIURL)
		return identity.NewHTTPAPIProvider(cfg.IdentityAPIURL, retryClient, db), nil

	case config.IdentityModeKratos:
		log.Printf(
			"Identity provider: kratos (public=%s, admin=%s)",
			cfg.KratosPublicURL,
			cfg.KratosAdminURL,
		)
		return identity.NewKratosProvider(
			cfg.KratosPublicURL,
			cfg.KratosAdminURL,
			cfg.IdentityAPITimeout,
			db,
		), nil

	default:
		log.Printf("Identity provider: local (auto_register=%t)", cfg.IdentityAutoRegister)
		return identity.NewLocalProvider(db, cfg.IdentityAutoRegister), nil
	}
}

// kitBasicAuth encodes the platform API key as basic credentials with an
// empty password.
func kitBasicAuth(apiKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey+":"))
}

// initializeKit loads the kit settings file and creates the kit. It returns
// nil when the kit is disabled.
func initializeKit(
	ctx context.Context,
	cfg *config.Config,
	db *store.Store,
	m metrics.Recorder,
) (*kit.Kit, error) {
	if !cfg.KitEnabled {
		log.Println("Engagement kit disabled")
		return nil, nil //nolint:nilnil // kit not needed in this configuration
	}

	raw, err := config.LoadKitSettings(cfg.KitSettingsFile)
	if err != nil {
		return nil, err
	}
	settings, err := kit.ParseSettings(raw)
	if err != nil {
		return nil, err
	}

	retryClient, err := client.CreateRetryClient(ctx, client.RetryClientConfig{
		AuthMode:      httpclient.AuthModeSimple,
		AuthSecret:    kitBasicAuth(settings.EventAPIKey),
		AuthHeader:    kitAuthHeader,
		Timeout:       cfg.KitTimeout,
		MaxRetries:    cfg.KitMaxRetries,
		RetryDelay:    cfg.IdentityAPIRetryDelay,
		MaxRetryDelay: cfg.IdentityAPIMaxRetryDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kit API client: %w", err)
	}

	k, err := kit.New(raw, kit.NewClient(cfg.KitAPIURL, retryClient), db, m)
	if err != nil {
		return nil, err
	}
	log.Printf(
		"Engagement kit %q enabled (url=%s, batch_interval=%dms)",
		k.Name(),
		cfg.KitAPIURL,
		settings.BatchInterval,
	)
	return k, nil
}
