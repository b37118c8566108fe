package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-authgate/idgate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kratosIdentity(id, email, state string) map[string]any {
	return map[string]any{
		"id":         id,
		"schema_id":  "default",
		"schema_url": "http://kratos.local/schemas/default",
		"state":      state,
		"traits":     map[string]any{"email": email, "name": "Kratos User"},
	}
}

func TestKratosProvider_Resolve(t *testing.T) {
	admin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/identities", r.URL.Path)
		assert.Equal(t, "user@example.com", r.URL.Query().Get("credentials_identifier"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]any{kratosIdentity("kratos-1", "user@example.com", "active")})
	}))
	defer admin.Close()

	s := newTestStore(t)
	p := NewKratosProvider("http://unused", admin.URL, 5*time.Second, s)

	account, err := p.Resolve(context.Background(), NewRequest("user@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "kratos-1", account.ExternalID)
	assert.Equal(t, "user@example.com", account.Email)
	assert.Equal(t, "Kratos User", account.FullName)
	assert.Equal(t, models.ProviderKratos, account.Provider)
}

func TestKratosProvider_Resolve_NoIdentity(t *testing.T) {
	admin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer admin.Close()

	p := NewKratosProvider("http://unused", admin.URL, 5*time.Second, newTestStore(t))
	_, err := p.Resolve(context.Background(), NewRequest("nobody@example.com"))
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestKratosProvider_Resolve_Inactive(t *testing.T) {
	admin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]any{kratosIdentity("kratos-2", "off@example.com", "inactive")})
	}))
	defer admin.Close()

	p := NewKratosProvider("http://unused", admin.URL, 5*time.Second, newTestStore(t))
	_, err := p.Resolve(context.Background(), NewRequest("off@example.com"))
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestKratosProvider_Resolve_EmptyEmail(t *testing.T) {
	p := NewKratosProvider("http://unused", "http://unused", time.Second, newTestStore(t))
	_, err := p.Resolve(context.Background(), NewRequest(""))
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestKratosProvider_Resolve_ServerError(t *testing.T) {
	admin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer admin.Close()

	p := NewKratosProvider("http://unused", admin.URL, 5*time.Second, newTestStore(t))
	_, err := p.Resolve(context.Background(), NewRequest("user@example.com"))
	assert.ErrorIs(t, err, ErrKratosUnavailable)
}

func TestKratosProvider_ResolveSession(t *testing.T) {
	public := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sessions/whoami", r.URL.Path)
		if r.Header.Get("Cookie") != "ory_kratos_session=valid" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":401,"message":"no session"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       "kratos-session-1",
			"active":   true,
			"identity": kratosIdentity("kratos-3", "browser@example.com", "active"),
		})
	}))
	defer public.Close()

	p := NewKratosProvider(public.URL, "http://unused", 5*time.Second, newTestStore(t))

	account, err := p.ResolveSession(context.Background(), "ory_kratos_session=valid")
	require.NoError(t, err)
	assert.Equal(t, "browser@example.com", account.Email)

	_, err = p.ResolveSession(context.Background(), "ory_kratos_session=stale")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = p.ResolveSession(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
