package identity

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-authgate/idgate/internal/client"
	"github.com/go-authgate/idgate/internal/store"

	retry "github.com/appleboy/go-httpretry"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New("sqlite", filepath.Join(t.TempDir(), "identity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestRetryClient(t *testing.T) *retry.Client {
	t.Helper()
	c, err := client.CreateRetryClient(context.Background(), client.RetryClientConfig{
		AuthMode:      "none",
		Timeout:       5 * time.Second,
		MaxRetries:    0,
		RetryDelay:    10 * time.Millisecond,
		MaxRetryDelay: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	return c
}
