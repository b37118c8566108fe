package identity

import (
	"context"
	"testing"

	"github.com/go-authgate/idgate/internal/models"
	"github.com/go-authgate/idgate/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProvider_KnownAccount(t *testing.T) {
	s := newTestStore(t)
	p := NewLocalProvider(s, false)

	account, err := p.Resolve(context.Background(), NewRequest(store.DemoUserEmail))
	require.NoError(t, err)
	assert.Equal(t, store.DemoUserEmail, account.Email)
	assert.Equal(t, models.ProviderLocal, account.Provider)
	assert.NotEmpty(t, account.UserID)
}

func TestLocalProvider_EmptyEmail(t *testing.T) {
	p := NewLocalProvider(newTestStore(t), true)

	_, err := p.Resolve(context.Background(), NewRequest(""))
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestLocalProvider_UnknownWithoutAutoRegister(t *testing.T) {
	p := NewLocalProvider(newTestStore(t), false)

	_, err := p.Resolve(context.Background(), NewRequest("new@example.com"))
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestLocalProvider_AutoRegister(t *testing.T) {
	s := newTestStore(t)
	p := NewLocalProvider(s, true)

	account, err := p.Resolve(context.Background(), Request{
		Email:      "new@example.com",
		CustomerID: "cust-9",
	})
	require.NoError(t, err)
	assert.Equal(t, "cust-9", account.CustomerID)

	user, err := s.GetUserByEmail("new@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.UserID, user.ID)
}

func TestLocalProvider_InactiveAccount(t *testing.T) {
	s := newTestStore(t)
	user, err := s.GetUserByEmail(store.DemoUserEmail)
	require.NoError(t, err)
	require.NoError(t, s.DB().Model(user).Update("is_active", false).Error)

	_, err = NewLocalProvider(s, false).Resolve(context.Background(), NewRequest(store.DemoUserEmail))
	assert.ErrorIs(t, err, ErrAccountInactive)
}
