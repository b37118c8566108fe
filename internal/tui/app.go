package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/kit"

	tea "github.com/charmbracelet/bubbletea"
)

// IdentityService is the part of the login service the screens use.
// *services.LoginService implements it.
type IdentityService interface {
	CurrentSession(ctx context.Context, token string) (*identity.Session, error)
	Login(ctx context.Context, req identity.Request) (identity.Result, error)
	Logout(ctx context.Context, token string) (identity.Result, error)
}

// EventLogger forwards screen, custom and commerce events.
// *services.EventService implements it.
type EventLogger interface {
	LogScreen(ctx context.Context, user identity.User, screenName string, attrs map[string]string)
	LogEvent(ctx context.Context, user identity.User, event kit.Event)
	LogCommerceEvent(ctx context.Context, user identity.User, event kit.CommerceEvent)
}

// Options configures the terminal app.
type Options struct {
	Login  IdentityService
	Events EventLogger
	// Identifies this terminal to the kits
	DeviceID string
	// Session token to resume, if any
	Token string
}

// state is shared by the screens of one app.
type state struct {
	ctx      context.Context
	login    IdentityService
	events   EventLogger
	deviceID string
	token    string
	session  *identity.Session
}

func (s *state) user() identity.User {
	if s.session != nil {
		return s.session.User()
	}
	return identity.User{DeviceID: s.deviceID}
}

// Model is the root bubbletea model. It owns the screen stack.
type Model struct {
	screens  ScreenStack
	quitting bool
}

// NewModel starts on the login screen.
func NewModel(ctx context.Context, opts Options) Model {
	st := &state{
		ctx:      ctx,
		login:    opts.Login,
		events:   opts.Events,
		deviceID: opts.DeviceID,
		token:    opts.Token,
	}
	var m Model
	m.screens.Push(newLoginScreen(st))
	return m
}

func (m Model) Init() tea.Cmd {
	if top := m.screens.Top(); top != nil {
		return top.Init()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case NavigateMsg:
		m.screens.Replace(msg.Screen)
		return m, msg.Screen.Init()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	top := m.screens.Top()
	if top == nil {
		return m, nil
	}
	next, cmd := top.Update(msg)
	m.screens.Replace(next)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	top := m.screens.Top()
	if top == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("IDGate · " + top.Title()))
	b.WriteString("\n")
	b.WriteString(top.View())
	return boxStyle.Render(b.String()) + "\n"
}

// Current returns the screen on top of the stack.
func (m Model) Current() Screen {
	return m.screens.Top()
}

// Run runs the terminal app until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
