package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-authgate/idgate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIServer(t *testing.T, status int, body any) (*httptest.Server, *APIIdentityRequest) {
	t.Helper()
	var received APIIdentityRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		switch b := body.(type) {
		case string:
			_, _ = w.Write([]byte(b))
		default:
			_ = json.NewEncoder(w).Encode(b)
		}
	}))
	t.Cleanup(server.Close)
	return server, &received
}

func TestHTTPAPIProvider_Success(t *testing.T) {
	server, received := newAPIServer(t, http.StatusOK, APIIdentityResponse{
		Success:    true,
		UserID:     "ext-user-123",
		Email:      "user@example.com",
		CustomerID: "cust-1",
		FullName:   "Test User",
	})
	s := newTestStore(t)
	p := NewHTTPAPIProvider(server.URL, newTestRetryClient(t), s)

	account, err := p.Resolve(context.Background(), NewRequest("user@example.com"))
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", received.Email)
	assert.Equal(t, "ext-user-123", account.ExternalID)
	assert.Equal(t, "cust-1", account.CustomerID)
	assert.Equal(t, "Test User", account.FullName)
	assert.Equal(t, models.ProviderHTTPAPI, account.Provider)

	user, err := s.GetUserByExternalID("ext-user-123", models.ProviderHTTPAPI)
	require.NoError(t, err)
	assert.Equal(t, account.UserID, user.ID)
}

func TestHTTPAPIProvider_EmptyEmailIsForwarded(t *testing.T) {
	server, received := newAPIServer(t, http.StatusOK, APIIdentityResponse{
		Success: false,
		Message: "email required",
	})
	p := NewHTTPAPIProvider(server.URL, newTestRetryClient(t), newTestStore(t))

	_, err := p.Resolve(context.Background(), NewRequest(""))
	assert.ErrorIs(t, err, ErrIdentityAPIRejected)
	assert.Equal(t, "", received.Email)
}

func TestHTTPAPIProvider_MissingUserID(t *testing.T) {
	server, _ := newAPIServer(t, http.StatusOK, APIIdentityResponse{
		Success: true,
		Email:   "user@example.com",
	})
	p := NewHTTPAPIProvider(server.URL, newTestRetryClient(t), newTestStore(t))

	_, err := p.Resolve(context.Background(), NewRequest("user@example.com"))
	assert.ErrorIs(t, err, ErrIdentityAPIInvalidResp)
	assert.Contains(t, err.Error(), "missing user_id")
}

func TestHTTPAPIProvider_ErrorStatusWithMessage(t *testing.T) {
	server, _ := newAPIServer(t, http.StatusNotFound, APIIdentityResponse{
		Message: "no such user",
	})
	p := NewHTTPAPIProvider(server.URL, newTestRetryClient(t), newTestStore(t))

	_, err := p.Resolve(context.Background(), NewRequest("nobody@example.com"))
	assert.ErrorIs(t, err, ErrIdentityAPIRejected)
	assert.Contains(t, err.Error(), "HTTP 404 - no such user")
}

func TestHTTPAPIProvider_ErrorStatusNonJSON(t *testing.T) {
	server, _ := newAPIServer(t, http.StatusBadRequest, "<html>bad gateway</html>")
	p := NewHTTPAPIProvider(server.URL, newTestRetryClient(t), newTestStore(t))

	_, err := p.Resolve(context.Background(), NewRequest("user@example.com"))
	assert.ErrorIs(t, err, ErrIdentityAPIInvalidResp)
	assert.Contains(t, err.Error(), "HTTP 400")
}

func TestHTTPAPIProvider_InvalidJSON(t *testing.T) {
	server, _ := newAPIServer(t, http.StatusOK, "{not json")
	p := NewHTTPAPIProvider(server.URL, newTestRetryClient(t), newTestStore(t))

	_, err := p.Resolve(context.Background(), NewRequest("user@example.com"))
	assert.ErrorIs(t, err, ErrIdentityAPIInvalidResp)
}

func TestHTTPAPIProvider_ConnectionError(t *testing.T) {
	server, _ := newAPIServer(t, http.StatusOK, APIIdentityResponse{})
	url := server.URL
	server.Close()

	p := NewHTTPAPIProvider(url, newTestRetryClient(t), newTestStore(t))
	_, err := p.Resolve(context.Background(), NewRequest("user@example.com"))
	assert.ErrorIs(t, err, ErrIdentityAPIConnection)
}
