package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/mocks"
	"github.com/go-authgate/idgate/internal/models"
	"github.com/go-authgate/idgate/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockProvider(ctrl *gomock.Controller) *mocks.MockProvider {
	p := mocks.NewMockProvider(ctrl)
	p.EXPECT().Name().Return(models.ProviderLocal).AnyTimes()
	return p
}

func TestLogin_LocalAccount(t *testing.T) {
	ctx := context.Background()
	db := setupTestStore(t)
	ctrl := gomock.NewController(t)
	listener := mocks.NewMockListener(ctrl)

	svc := newTestLoginService(t, db, identity.NewLocalProvider(db, false), nil, time.Hour)
	svc.AddListener(listener)

	listener.EXPECT().
		OnLoginCompleted(gomock.Any(), gomock.Any(), identity.NewRequest(store.DemoUserEmail)).
		Do(func(_ context.Context, user identity.User, _ identity.Request) {
			assert.Equal(t, store.DemoUserEmail, user.Identities[identity.TypeEmail])
			assert.NotEmpty(t, user.ID)
		}).
		Times(1)

	result, err := svc.Login(ctx, identity.NewRequest(store.DemoUserEmail))
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Empty(t, result.Reason)
	require.NotNil(t, result.Session)
	assert.True(t, result.Session.IsAuthenticated())
	assert.NotEmpty(t, result.Session.Token)

	current, err := svc.CurrentSession(ctx, result.Session.Token)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.True(t, current.IsAuthenticated())
	assert.Equal(t, result.Session.ID, current.ID)
	assert.Equal(t, store.DemoUserEmail, current.Email())
}

func TestLogin_SubmitsExactlyOneRequestVerbatim(t *testing.T) {
	for _, email := range []string{"user@example.com", "", "  Not An Email  "} {
		t.Run(fmt.Sprintf("%q", email), func(t *testing.T) {
			ctx := context.Background()
			db := setupTestStore(t)
			ctrl := gomock.NewController(t)
			provider := newMockProvider(ctrl)

			provider.EXPECT().
				Resolve(gomock.Any(), identity.Request{Email: email}).
				Return(&identity.Account{UserID: "user-1", Email: email, Provider: models.ProviderLocal}, nil).
				Times(1)

			svc := newTestLoginService(t, db, provider, nil, time.Hour)
			result, err := svc.Login(ctx, identity.NewRequest(email))
			require.NoError(t, err)
			assert.True(t, result.Success)
		})
	}
}

func TestLogin_FailureIsExplicit(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
	}{
		{"unknown account", identity.ErrUnknownAccount, identity.ReasonUnknownAccount},
		{"inactive", identity.ErrAccountInactive, identity.ReasonInactive},
		{
			"backend down",
			fmt.Errorf("%w: dial tcp: refused", identity.ErrIdentityAPIConnection),
			identity.ReasonUnavailable,
		},
		{"anything else", fmt.Errorf("boom"), identity.ReasonLoginFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db := setupTestStore(t)
			ctrl := gomock.NewController(t)
			provider := newMockProvider(ctrl)
			// No expectations: listeners must not hear about failed logins
			listener := mocks.NewMockListener(ctrl)

			provider.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nil, tt.err).Times(1)

			svc := newTestLoginService(t, db, provider, nil, time.Hour)
			svc.AddListener(listener)

			result, err := svc.Login(ctx, identity.NewRequest("user@example.com"))
			require.NoError(t, err)
			assert.False(t, result.Success)
			assert.Equal(t, tt.reason, result.Reason)
			assert.Nil(t, result.Session)

			count, err := db.CountActiveSessions()
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestLogin_EmptyEmailWithLocalProvider(t *testing.T) {
	db := setupTestStore(t)
	svc := newTestLoginService(t, db, identity.NewLocalProvider(db, true), nil, time.Hour)

	result, err := svc.Login(context.Background(), identity.NewRequest(""))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, identity.ReasonUnknownAccount, result.Reason)
}

func TestCurrentSession_NoUsableSession(t *testing.T) {
	ctx := context.Background()
	db := setupTestStore(t)
	svc := newTestLoginService(t, db, identity.NewLocalProvider(db, false), nil, time.Hour)

	for _, token := range []string{"", "not-a-jwt"} {
		session, err := svc.CurrentSession(ctx, token)
		require.NoError(t, err)
		assert.Nil(t, session)
		assert.False(t, session.IsAuthenticated())
	}

	// Token signed by another issuer secret
	other := identity.NewTokenIssuer("other-secret", "idgate-test", time.Hour)
	forged, _, err := other.Issue("session-1", "user-1", time.Now())
	require.NoError(t, err)
	session, err := svc.CurrentSession(ctx, forged)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestCurrentSession_Expired(t *testing.T) {
	ctx := context.Background()
	db := setupTestStore(t)
	svc := newTestLoginService(t, db, identity.NewLocalProvider(db, false), nil, -time.Second)

	result, err := svc.Login(ctx, identity.NewRequest(store.DemoUserEmail))
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.False(t, result.Session.IsAuthenticated())

	session, err := svc.CurrentSession(ctx, result.Session.Token)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestCurrentSession_ReadThroughCache(t *testing.T) {
	ctx := context.Background()
	db := setupTestStore(t)
	ctrl := gomock.NewController(t)
	mockCache := mocks.NewMockCache[identity.Session](ctrl)

	var token string
	mockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), time.Minute).Return(nil).Times(1)
	mockCache.EXPECT().
		GetWithFetch(gomock.Any(), gomock.Any(), time.Minute, gomock.Any()).
		DoAndReturn(func(
			ctx context.Context,
			key string,
			ttl time.Duration,
			fn func(context.Context, string) (identity.Session, error),
		) (identity.Session, error) {
			assert.Equal(t, sessionCacheKey(token), key)
			assert.NotContains(t, key, token, "raw tokens never reach the cache")
			return callFetchFn(ctx, key, ttl, fn)
		}).
		Times(1)

	svc := newTestLoginService(t, db, identity.NewLocalProvider(db, false), mockCache, time.Hour)

	result, err := svc.Login(ctx, identity.NewRequest(store.DemoUserEmail))
	require.NoError(t, err)
	token = result.Session.Token

	session, err := svc.CurrentSession(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, token, session.Token)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	db := setupTestStore(t)
	ctrl := gomock.NewController(t)
	listener := mocks.NewMockListener(ctrl)

	svc := newTestLoginService(t, db, identity.NewLocalProvider(db, false), nil, time.Hour)

	result, err := svc.Login(ctx, identity.Request{Email: store.DemoUserEmail, DeviceID: "device-1"})
	require.NoError(t, err)
	token := result.Session.Token

	svc.AddListener(listener)
	listener.EXPECT().
		OnLogoutCompleted(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, user identity.User, _ identity.Request) {
			assert.Equal(t, "device-1", user.DeviceID)
			assert.Empty(t, user.Identities, "the device is anonymous after logout")
		}).
		Times(1)

	out, err := svc.Logout(ctx, token)
	require.NoError(t, err)
	assert.True(t, out.Success)

	session, err := svc.CurrentSession(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, session, "revoked sessions are gone")

	again, err := svc.Logout(ctx, token)
	require.NoError(t, err)
	assert.False(t, again.Success)
	assert.Equal(t, identity.ReasonLogoutFailed, again.Reason)
}

func TestIdentify_AnonymousSession(t *testing.T) {
	ctx := context.Background()
	db := setupTestStore(t)
	ctrl := gomock.NewController(t)
	listener := mocks.NewMockListener(ctrl)
	listener.EXPECT().OnIdentifyCompleted(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)

	svc := newTestLoginService(t, db, identity.NewLocalProvider(db, false), nil, time.Hour)
	svc.AddListener(listener)

	result, err := svc.Identify(ctx, identity.Request{Email: store.DemoUserEmail, DeviceID: "device-9"})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.False(t, result.Session.IsAuthenticated())
	assert.Empty(t, result.Session.UserID, "registered accounts are not linked")
	assert.Equal(t, "device-9", result.Session.DeviceID)

	current, err := svc.CurrentSession(ctx, result.Session.Token)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.False(t, current.IsAuthenticated())

	out, err := svc.Logout(ctx, result.Session.Token)
	require.NoError(t, err)
	assert.False(t, out.Success, "anonymous sessions cannot log out")
}

func TestModify(t *testing.T) {
	ctx := context.Background()
	db := setupTestStore(t)
	ctrl := gomock.NewController(t)
	listener := mocks.NewMockListener(ctrl)
	listener.EXPECT().OnLoginCompleted(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	listener.EXPECT().
		OnModifyCompleted(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, user identity.User, _ identity.Request) {
			assert.Equal(t, "cust-42", user.Identities[identity.TypeCustomerID])
		}).
		Times(1)

	svc := newTestLoginService(t, db, identity.NewLocalProvider(db, false), nil, time.Hour)
	svc.AddListener(listener)

	missing, err := svc.Modify(ctx, "", identity.Request{CustomerID: "cust-42"})
	require.NoError(t, err)
	assert.False(t, missing.Success)
	assert.Equal(t, identity.ReasonNoSession, missing.Reason)

	login, err := svc.Login(ctx, identity.NewRequest(store.DemoUserEmail))
	require.NoError(t, err)

	result, err := svc.Modify(ctx, login.Session.Token, identity.Request{CustomerID: "cust-42"})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, store.DemoUserEmail, result.Session.Email(), "empty identities are not cleared")

	current, err := svc.CurrentSession(ctx, login.Session.Token)
	require.NoError(t, err)
	assert.Equal(t, "cust-42", current.Identities[identity.TypeCustomerID])

	user, err := db.GetUserByEmail(store.DemoUserEmail)
	require.NoError(t, err)
	assert.Equal(t, "cust-42", user.CustomerID)
}

type resolvingProvider struct {
	*mocks.MockProvider
	*mocks.MockSessionResolver
}

func TestResume(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported provider", func(t *testing.T) {
		db := setupTestStore(t)
		svc := newTestLoginService(t, db, identity.NewLocalProvider(db, false), nil, time.Hour)

		result, err := svc.Resume(ctx, "cookie", "device-1")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, identity.ReasonNoSession, result.Reason)
	})

	t.Run("backend session adopted", func(t *testing.T) {
		db := setupTestStore(t)
		ctrl := gomock.NewController(t)
		provider := resolvingProvider{newMockProvider(ctrl), mocks.NewMockSessionResolver(ctrl)}
		provider.MockSessionResolver.EXPECT().
			ResolveSession(gomock.Any(), "ory-cookie").
			Return(&identity.Account{UserID: "user-7", Email: "k@example.com", Provider: models.ProviderKratos}, nil)

		listener := mocks.NewMockListener(ctrl)
		listener.EXPECT().OnUserIdentified(gomock.Any(), gomock.Any()).Times(1)

		svc := newTestLoginService(t, db, provider, nil, time.Hour)
		svc.AddListener(listener)

		result, err := svc.Resume(ctx, "ory-cookie", "device-1")
		require.NoError(t, err)
		require.True(t, result.Success)
		assert.True(t, result.Session.IsAuthenticated())
		assert.Equal(t, models.ProviderKratos, result.Session.Provider)
	})

	t.Run("backend rejects", func(t *testing.T) {
		db := setupTestStore(t)
		ctrl := gomock.NewController(t)
		provider := resolvingProvider{newMockProvider(ctrl), mocks.NewMockSessionResolver(ctrl)}
		provider.MockSessionResolver.EXPECT().
			ResolveSession(gomock.Any(), gomock.Any()).
			Return(nil, identity.ErrSessionExpired)

		svc := newTestLoginService(t, db, provider, nil, time.Hour)
		result, err := svc.Resume(ctx, "stale", "")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, identity.ReasonNoSession, result.Reason)
	})
}

func TestCleanupExpiredSessions(t *testing.T) {
	db := setupTestStore(t)
	svc := newTestLoginService(t, db, identity.NewLocalProvider(db, false), nil, -time.Minute)

	_, err := svc.Login(context.Background(), identity.NewRequest(store.DemoUserEmail))
	require.NoError(t, err)

	deleted, err := svc.CleanupExpiredSessions()
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
