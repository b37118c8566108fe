package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/go-authgate/idgate/internal/config"
)

// validateAllConfiguration validates all configuration settings
func validateAllConfiguration(cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := validateIdentityConfig(cfg); err != nil {
		log.Fatalf("Invalid identity configuration: %v", err)
	}
}

// validateIdentityConfig checks the settings the selected identity mode needs
// beyond what Config.Validate covers.
func validateIdentityConfig(cfg *config.Config) error {
	switch cfg.IdentityMode {
	case config.IdentityModeHTTPAPI:
		if err := validateURL("IDENTITY_API_URL", cfg.IdentityAPIURL); err != nil {
			return err
		}
		if cfg.IdentityAPITokenURL != "" && cfg.IdentityAPIClientID == "" {
			return errors.New("IDENTITY_API_TOKEN_URL requires IDENTITY_API_CLIENT_ID")
		}
	case config.IdentityModeKratos:
		if err := validateURL("KRATOS_PUBLIC_URL", cfg.KratosPublicURL); err != nil {
			return err
		}
		if err := validateURL("KRATOS_ADMIN_URL", cfg.KratosAdminURL); err != nil {
			return err
		}
	}
	return nil
}

func validateURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
	}
	return nil
}
