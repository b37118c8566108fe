package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	httpclient "github.com/appleboy/go-httpclient"
	retry "github.com/appleboy/go-httpretry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// RetryClientConfig configures an outbound client for a service-to-service API.
type RetryClientConfig struct {
	AuthMode           string // "none", "simple" or "hmac"
	AuthSecret         string
	AuthHeader         string
	Timeout            time.Duration
	InsecureSkipVerify bool
	MaxRetries         int
	RetryDelay         time.Duration
	MaxRetryDelay      time.Duration

	// ClientCredentials adds an OAuth2 bearer token to every request when set.
	ClientCredentials *clientcredentials.Config
}

// CreateRetryClient creates an HTTP client with retry support, request
// signing, tracing and optional OAuth2 client credentials.
func CreateRetryClient(ctx context.Context, cfg RetryClientConfig) (*retry.Client, error) {
	client, err := httpclient.NewAuthClient(
		cfg.AuthMode,
		cfg.AuthSecret,
		httpclient.WithTimeout(cfg.Timeout),
		httpclient.WithHeaderName(cfg.AuthHeader),
		httpclient.WithInsecureSkipVerify(cfg.InsecureSkipVerify),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	client.Transport = wrapTransport(ctx, client.Transport, cfg.ClientCredentials)

	retryClient, err := retry.NewRealtimeClient(
		retry.WithHTTPClient(client),
		retry.WithMaxRetries(cfg.MaxRetries),
		retry.WithInitialRetryDelay(cfg.RetryDelay),
		retry.WithMaxRetryDelay(cfg.MaxRetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create retry client: %w", err)
	}

	return retryClient, nil
}

// NewClientCredentials returns an OAuth2 client credentials config, or nil
// when no token URL is configured.
func NewClientCredentials(tokenURL, clientID, clientSecret string, scopes []string) *clientcredentials.Config {
	if tokenURL == "" {
		return nil
	}
	return &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       scopes,
	}
}

func wrapTransport(
	ctx context.Context,
	base http.RoundTripper,
	cc *clientcredentials.Config,
) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := otelhttp.NewTransport(base)
	if cc == nil {
		return rt
	}
	// Token requests go through the traced transport as well.
	tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: rt})
	return &oauth2.Transport{
		Source: cc.TokenSource(tokenCtx),
		Base:   rt,
	}
}
