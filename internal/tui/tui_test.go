package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/kit"
	"github.com/go-authgate/idgate/internal/mocks"
	"github.com/go-authgate/idgate/internal/services"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	login  *mocks.MockIdentityService
	events *mocks.MockEventLogger
	st     *state
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		login:  mocks.NewMockIdentityService(ctrl),
		events: mocks.NewMockEventLogger(ctrl),
	}
	f.st = &state{
		ctx:      context.Background(),
		login:    f.login,
		events:   f.events,
		deviceID: "term-1",
	}
	return f
}

func authenticatedSession(email string) *identity.Session {
	return &identity.Session{
		ID:            "session-1",
		Token:         "token-1",
		UserID:        "user-1",
		DeviceID:      "term-1",
		Provider:      "local",
		Identities:    identity.Identities{identity.TypeEmail: email},
		Authenticated: true,
		ExpiresAt:     time.Now().Add(time.Hour),
	}
}

// collect runs cmd and returns the messages it produced, flattening batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if m, ok := msg.(T); ok {
			return m, true
		}
	}
	var zero T
	return zero, false
}

func typeText(t *testing.T, s *LoginScreen, text string) {
	t.Helper()
	if text == "" {
		return
	}
	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	require.Same(t, s, next)
}

// readyLoginScreen returns a login screen whose session check found no session.
func readyLoginScreen(t *testing.T, f *fixture) *LoginScreen {
	t.Helper()
	s := newLoginScreen(f.st)
	_, cmd := s.Update(sessionLoadedMsg{})
	assert.Nil(t, cmd)
	return s
}

func TestScreenStack(t *testing.T) {
	f := newFixture(t)
	var stack ScreenStack
	assert.Nil(t, stack.Top())
	assert.Nil(t, stack.Pop())

	login := newLoginScreen(f.st)
	dashboard := newDashboardScreen(f.st)

	stack.Push(nil)
	assert.Equal(t, 0, stack.Len())

	stack.Replace(login)
	assert.Equal(t, 1, stack.Len())
	assert.Same(t, login, stack.Top())

	stack.Replace(dashboard)
	assert.Equal(t, 1, stack.Len(), "replace terminates the previous screen")
	assert.Same(t, dashboard, stack.Top())

	stack.Push(login)
	assert.Equal(t, 2, stack.Len())
	assert.Same(t, login, stack.Pop())
	assert.Same(t, dashboard, stack.Top())
}

func TestLoginScreen_AuthenticatedSessionNavigates(t *testing.T) {
	f := newFixture(t)
	f.st.token = "token-1"
	session := authenticatedSession("user@example.com")
	f.login.EXPECT().CurrentSession(gomock.Any(), "token-1").Return(session, nil)

	s := newLoginScreen(f.st)
	loaded, ok := findMsg[sessionLoadedMsg](collect(s.Init()))
	require.True(t, ok)

	_, cmd := s.Update(loaded)
	nav, ok := findMsg[NavigateMsg](collect(cmd))
	require.True(t, ok)
	assert.IsType(t, &DashboardScreen{}, nav.Screen)
	assert.Same(t, session, f.st.session)
}

func TestLoginScreen_NoSessionStays(t *testing.T) {
	tests := []struct {
		name    string
		session *identity.Session
		err     error
	}{
		{name: "nil session"},
		{name: "anonymous session", session: &identity.Session{ID: "anon", ExpiresAt: time.Now().Add(time.Hour)}},
		{name: "expired session", session: &identity.Session{
			ID: "old", Authenticated: true, ExpiresAt: time.Now().Add(-time.Minute),
		}},
		{name: "lookup error", err: errors.New("cache down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.login.EXPECT().CurrentSession(gomock.Any(), "").Return(tt.session, tt.err)

			s := newLoginScreen(f.st)
			assert.Contains(t, s.View(), "Checking session")

			loaded, ok := findMsg[sessionLoadedMsg](collect(s.Init()))
			require.True(t, ok)
			next, cmd := s.Update(loaded)
			assert.Same(t, s, next)
			assert.Nil(t, cmd)
			assert.Nil(t, f.st.session)
			assert.Contains(t, s.View(), "Email:")
		})
	}
}

func TestLoginScreen_EnterIgnoredUntilSessionChecked(t *testing.T) {
	f := newFixture(t)
	s := newLoginScreen(f.st)

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestLoginScreen_SubmitsVerbatimEmail(t *testing.T) {
	for _, email := range []string{"Mixed.Case+tag@Example.COM", "not-an-email", ""} {
		t.Run(email, func(t *testing.T) {
			f := newFixture(t)
			s := readyLoginScreen(t, f)
			typeText(t, s, email)

			f.login.EXPECT().
				Login(gomock.Any(), identity.Request{Email: email, DeviceID: "term-1"}).
				Return(identity.Failed(identity.ReasonUnknownAccount), nil).
				Times(1)

			_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
			require.NotNil(t, cmd)

			// a second enter while the request is in flight is ignored
			_, again := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
			assert.Nil(t, again)
			assert.Contains(t, s.View(), "Logging in")

			result, ok := findMsg[loginResultMsg](collect(cmd))
			require.True(t, ok)
			s.Update(result)
		})
	}
}

func TestLoginScreen_FailureKeepsEmail(t *testing.T) {
	f := newFixture(t)
	s := readyLoginScreen(t, f)
	typeText(t, s, "ghost@example.com")

	f.login.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(identity.Failed(identity.ReasonUnknownAccount), nil)

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	result, ok := findMsg[loginResultMsg](collect(cmd))
	require.True(t, ok)

	next, cmd := s.Update(result)
	assert.Same(t, s, next)
	assert.Nil(t, cmd, "failed login must not navigate")
	assert.Equal(t, "ghost@example.com", s.Email())
	assert.Equal(t, identity.ReasonUnknownAccount, s.Reason())
	assert.Contains(t, s.View(), identity.ReasonUnknownAccount)
	assert.Nil(t, f.st.session)
}

func TestLoginScreen_ErrorShowsGenericReason(t *testing.T) {
	f := newFixture(t)
	s := readyLoginScreen(t, f)
	typeText(t, s, "user@example.com")

	f.login.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(identity.Result{}, errors.New("boom"))

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	result, ok := findMsg[loginResultMsg](collect(cmd))
	require.True(t, ok)

	_, cmd = s.Update(result)
	assert.Nil(t, cmd)
	assert.Equal(t, identity.ReasonLoginFailed, s.Reason())
	assert.Equal(t, "user@example.com", s.Email())
}

func TestLoginScreen_SuccessNavigatesToDashboard(t *testing.T) {
	f := newFixture(t)
	s := readyLoginScreen(t, f)
	typeText(t, s, "user@example.com")

	session := authenticatedSession("user@example.com")
	f.login.EXPECT().
		Login(gomock.Any(), identity.Request{Email: "user@example.com", DeviceID: "term-1"}).
		Return(identity.Succeeded(session), nil)

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	result, ok := findMsg[loginResultMsg](collect(cmd))
	require.True(t, ok)

	_, cmd = s.Update(result)
	nav, ok := findMsg[NavigateMsg](collect(cmd))
	require.True(t, ok)
	assert.IsType(t, &DashboardScreen{}, nav.Screen)
	assert.Same(t, session, f.st.session)
	assert.Equal(t, "token-1", f.st.token)
	assert.Empty(t, s.Reason())
}

func TestModel_NavigationReplacesScreen(t *testing.T) {
	f := newFixture(t)
	m := NewModel(context.Background(), Options{
		Login:    f.login,
		Events:   f.events,
		DeviceID: "term-1",
	})
	require.IsType(t, &LoginScreen{}, m.Current())
	assert.Contains(t, m.View(), "IDGate · Login")

	dashboard := newDashboardScreen(f.st)
	next, cmd := m.Update(NavigateMsg{Screen: dashboard})
	model := next.(Model)
	assert.Same(t, dashboard, model.Current())
	assert.Equal(t, 1, model.screens.Len())

	f.events.EXPECT().LogScreen(gomock.Any(), gomock.Any(), services.DashboardScreen, gomock.Nil())
	collect(cmd)

	next, cmd = model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Empty(t, next.View())
}

func TestDashboardScreen_LogsEvents(t *testing.T) {
	f := newFixture(t)
	f.st.session = authenticatedSession("user@example.com")
	s := newDashboardScreen(f.st)
	user := f.st.session.User()

	f.events.EXPECT().LogScreen(gomock.Any(), user, services.DashboardScreen, gomock.Nil())
	collect(s.Init())

	f.events.EXPECT().LogEvent(gomock.Any(), user, kit.Event{
		Name: services.TestEventName,
		Type: kit.EventTypeCustom,
	})
	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	logged, ok := findMsg[eventLoggedMsg](collect(cmd))
	require.True(t, ok)
	s.Update(logged)
	assert.Contains(t, s.View(), "Event logged.")

	f.events.EXPECT().LogCommerceEvent(gomock.Any(), user, services.SamplePurchase())
	_, cmd = s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	logged, ok = findMsg[eventLoggedMsg](collect(cmd))
	require.True(t, ok)
	s.Update(logged)
	assert.Contains(t, s.View(), "Purchase logged.")
	assert.Contains(t, s.View(), "user@example.com")
}

func TestDashboardScreen_Logout(t *testing.T) {
	t.Run("success returns to login", func(t *testing.T) {
		f := newFixture(t)
		f.st.session = authenticatedSession("user@example.com")
		f.st.token = "token-1"
		s := newDashboardScreen(f.st)

		f.login.EXPECT().Logout(gomock.Any(), "token-1").Return(identity.Succeeded(nil), nil)
		_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
		result, ok := findMsg[logoutResultMsg](collect(cmd))
		require.True(t, ok)

		_, cmd = s.Update(result)
		nav, ok := findMsg[NavigateMsg](collect(cmd))
		require.True(t, ok)
		assert.IsType(t, &LoginScreen{}, nav.Screen)
		assert.Nil(t, f.st.session)
		assert.Empty(t, f.st.token)
	})

	t.Run("failure stays with reason", func(t *testing.T) {
		f := newFixture(t)
		f.st.session = authenticatedSession("user@example.com")
		f.st.token = "token-1"
		s := newDashboardScreen(f.st)

		f.login.EXPECT().
			Logout(gomock.Any(), "token-1").
			Return(identity.Failed(identity.ReasonUnavailable), nil)
		_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
		result, ok := findMsg[logoutResultMsg](collect(cmd))
		require.True(t, ok)

		_, cmd = s.Update(result)
		assert.Nil(t, cmd)
		assert.NotNil(t, f.st.session)
		assert.Contains(t, s.View(), identity.ReasonUnavailable)
	})

	t.Run("error stays with generic reason", func(t *testing.T) {
		f := newFixture(t)
		f.st.session = authenticatedSession("user@example.com")
		s := newDashboardScreen(f.st)

		f.login.EXPECT().Logout(gomock.Any(), "").Return(identity.Result{}, errors.New("boom"))
		_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
		result, ok := findMsg[logoutResultMsg](collect(cmd))
		require.True(t, ok)

		_, cmd = s.Update(result)
		assert.Nil(t, cmd)
		assert.Contains(t, s.View(), identity.ReasonLogoutFailed)
	})
}
