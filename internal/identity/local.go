package identity

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-authgate/idgate/internal/models"
	"github.com/go-authgate/idgate/internal/store"
)

// LocalProvider resolves accounts from the local database.
type LocalProvider struct {
	store        UserStore
	autoRegister bool
}

// NewLocalProvider creates a new local identity provider. With autoRegister
// set, unknown emails get a fresh account on first login.
func NewLocalProvider(s UserStore, autoRegister bool) *LocalProvider {
	return &LocalProvider{store: s, autoRegister: autoRegister}
}

// Resolve looks the request's email up in the local database
func (p *LocalProvider) Resolve(ctx context.Context, req Request) (*Account, error) {
	if req.Email == "" {
		return nil, ErrUnknownAccount
	}

	user, err := p.store.GetUserByEmail(req.Email)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrRecordNotFound) && p.autoRegister:
		user = &models.User{
			Email:      req.Email,
			CustomerID: req.CustomerID,
			FacebookID: req.FacebookID,
			Provider:   models.ProviderLocal,
			IsActive:   true,
		}
		if err := p.store.CreateUser(user); err != nil {
			return nil, fmt.Errorf("register %s: %w", req.Email, err)
		}
		log.Printf("[Identity] Registered new local account for %s", req.Email)
	case errors.Is(err, store.ErrRecordNotFound):
		return nil, ErrUnknownAccount
	default:
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return accountFromUser(user, p.Name()), nil
}

// Name returns provider name for logging
func (p *LocalProvider) Name() string {
	return models.ProviderLocal
}
