package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-authgate/idgate/internal/models"

	kratos "github.com/ory/kratos-client-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const kratosTimeout = 3 * time.Second

// KratosProvider resolves accounts against Ory Kratos. The admin API is used
// for email lookups and the public API for adopting browser sessions.
type KratosProvider struct {
	admin  *kratos.APIClient
	public *kratos.APIClient
	store  UserStore
}

// NewKratosProvider creates a Kratos-backed provider.
func NewKratosProvider(publicURL, adminURL string, timeout time.Duration, s UserStore) *KratosProvider {
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return &KratosProvider{
		admin:  newKratosClient(adminURL, httpClient),
		public: newKratosClient(publicURL, httpClient),
		store:  s,
	}
}

func newKratosClient(baseURL string, httpClient *http.Client) *kratos.APIClient {
	configuration := kratos.NewConfiguration()
	configuration.Servers = []kratos.ServerConfiguration{
		{URL: baseURL},
	}
	configuration.HTTPClient = httpClient
	return kratos.NewAPIClient(configuration)
}

// Resolve finds the Kratos identity whose credentials identifier is the email.
func (p *KratosProvider) Resolve(ctx context.Context, req Request) (*Account, error) {
	if req.Email == "" {
		return nil, ErrUnknownAccount
	}

	ctx, cancel := context.WithTimeout(ctx, kratosTimeout)
	defer cancel()

	identities, resp, err := p.admin.IdentityAPI.ListIdentities(ctx).
		CredentialsIdentifier(req.Email).
		Execute()
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: kratos returned status %d", ErrKratosUnavailable, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %w", ErrKratosUnavailable, err)
	}
	if len(identities) == 0 {
		return nil, ErrUnknownAccount
	}

	return p.syncIdentity(&identities[0], req.CustomerID)
}

// ResolveSession validates a Kratos session cookie and returns its account.
func (p *KratosProvider) ResolveSession(ctx context.Context, cookie string) (*Account, error) {
	if cookie == "" {
		return nil, ErrSessionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, kratosTimeout)
	defer cancel()

	session, resp, err := p.public.FrontendAPI.ToSession(ctx).Cookie(cookie).Execute()
	if err != nil {
		if resp != nil {
			if resp.StatusCode == http.StatusUnauthorized {
				return nil, ErrSessionNotFound
			}
			return nil, fmt.Errorf("%w: kratos returned status %d", ErrKratosUnavailable, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %w", ErrKratosUnavailable, err)
	}

	if session.Active != nil && !*session.Active {
		return nil, ErrSessionExpired
	}
	if session.Identity == nil {
		return nil, ErrUnknownAccount
	}

	return p.syncIdentity(session.Identity, "")
}

func (p *KratosProvider) syncIdentity(identity *kratos.Identity, customerID string) (*Account, error) {
	if identity.State != nil && *identity.State == "inactive" {
		return nil, ErrAccountInactive
	}

	email := traitString(identity.Traits, "email")
	user, err := p.store.UpsertExternalUser(p.Name(), identity.Id, email, customerID)
	if err != nil {
		return nil, fmt.Errorf("sync kratos identity: %w", err)
	}

	account := accountFromUser(user, p.Name())
	if name := traitString(identity.Traits, "name"); name != "" {
		account.FullName = name
	}
	return account, nil
}

func traitString(traits any, key string) string {
	m, ok := traits.(map[string]any)
	if !ok {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Name returns provider name for logging
func (p *KratosProvider) Name() string {
	return models.ProviderKratos
}
