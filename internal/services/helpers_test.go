package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-authgate/idgate/internal/cache"
	"github.com/go-authgate/idgate/internal/core"
	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/metrics"
	"github.com/go-authgate/idgate/internal/store"

	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New("sqlite", filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestLoginService(
	t *testing.T,
	db *store.Store,
	provider identity.Provider,
	sessionCache core.Cache[identity.Session],
	ttl time.Duration,
) *LoginService {
	t.Helper()
	if sessionCache == nil {
		sessionCache = cache.NewMemoryCache[identity.Session]()
	}
	return NewLoginService(
		db,
		provider,
		identity.NewTokenIssuer("test-secret", "idgate-test", ttl),
		sessionCache,
		time.Minute,
		metrics.NewNoopMetrics(),
		NewAuditService(db, false, 0),
	)
}

// callFetchFn is a DoAndReturn helper that invokes the cache fetch function,
// simulating a cache miss where the real DB fetch is executed.
func callFetchFn[T any](
	ctx context.Context,
	key string,
	_ time.Duration,
	fn func(context.Context, string) (T, error),
) (T, error) {
	return fn(ctx, key)
}
