package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-authgate/idgate/internal/models"

	retry "github.com/appleboy/go-httpretry"
)

// HTTPAPIProvider resolves accounts through an external identity API.
type HTTPAPIProvider struct {
	url    string
	client *retry.Client
	store  UserStore
}

// NewHTTPAPIProvider creates a provider that POSTs login requests to url.
func NewHTTPAPIProvider(url string, client *retry.Client, s UserStore) *HTTPAPIProvider {
	return &HTTPAPIProvider{url: url, client: client, store: s}
}

// APIIdentityRequest is the request payload sent to the external API
type APIIdentityRequest struct {
	Email      string `json:"email"`
	CustomerID string `json:"customer_id,omitempty"`
}

// APIIdentityResponse is the expected response from the external API
type APIIdentityResponse struct {
	Success    bool   `json:"success"`
	UserID     string `json:"user_id,omitempty"`
	Email      string `json:"email,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
	FullName   string `json:"full_name,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Resolve asks the external API who the request's email belongs to
func (p *HTTPAPIProvider) Resolve(ctx context.Context, req Request) (*Account, error) {
	jsonData, err := json.Marshal(APIIdentityRequest{
		Email:      req.Email,
		CustomerID: req.CustomerID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := p.client.Post(
		ctx,
		p.url,
		retry.WithBody("application/json", bytes.NewBuffer(jsonData)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityAPIConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response", ErrIdentityAPIInvalidResp)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiResp APIIdentityResponse
		if err := json.Unmarshal(body, &apiResp); err == nil && apiResp.Message != "" {
			return nil, fmt.Errorf(
				"%w: HTTP %d - %s",
				ErrIdentityAPIRejected,
				resp.StatusCode,
				apiResp.Message,
			)
		}
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		return nil, fmt.Errorf(
			"%w: HTTP %d - %s",
			ErrIdentityAPIInvalidResp,
			resp.StatusCode,
			bodyPreview,
		)
	}

	var apiResp APIIdentityResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityAPIInvalidResp, err)
	}

	if !apiResp.Success {
		if apiResp.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrIdentityAPIRejected, apiResp.Message)
		}
		return nil, ErrIdentityAPIRejected
	}

	if apiResp.UserID == "" {
		return nil, fmt.Errorf(
			"%w: external API returned success=true but missing user_id",
			ErrIdentityAPIInvalidResp,
		)
	}

	email := apiResp.Email
	if email == "" {
		email = req.Email
	}
	customerID := apiResp.CustomerID
	if customerID == "" {
		customerID = req.CustomerID
	}

	user, err := p.store.UpsertExternalUser(p.Name(), apiResp.UserID, email, customerID)
	if err != nil {
		return nil, fmt.Errorf("sync external user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	account := accountFromUser(user, p.Name())
	if apiResp.FullName != "" {
		account.FullName = apiResp.FullName
	}
	return account, nil
}

// Name returns provider name for logging
func (p *HTTPAPIProvider) Name() string {
	return models.ProviderHTTPAPI
}
