package tui

import (
	"log"
	"strings"

	"github.com/go-authgate/idgate/internal/identity"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type sessionLoadedMsg struct {
	session *identity.Session
	err     error
}

type loginResultMsg struct {
	result identity.Result
	err    error
}

// LoginScreen asks for an email and logs the user in.
type LoginScreen struct {
	st      *state
	input   textinput.Model
	checked bool
	busy    bool
	reason  string
}

func newLoginScreen(st *state) *LoginScreen {
	inp := textinput.New()
	inp.Placeholder = "you@example.com"
	inp.Prompt = "Email: "
	inp.CharLimit = 254
	inp.Focus()
	return &LoginScreen{st: st, input: inp}
}

func (s *LoginScreen) Title() string { return "Login" }

// Init checks for an existing session before the form is used.
func (s *LoginScreen) Init() tea.Cmd {
	st := s.st
	token := st.token
	return tea.Batch(textinput.Blink, func() tea.Msg {
		session, err := st.login.CurrentSession(st.ctx, token)
		return sessionLoadedMsg{session: session, err: err}
	})
}

// submit sends exactly one login request carrying the typed email verbatim.
func (s *LoginScreen) submit() tea.Cmd {
	st := s.st
	req := identity.Request{Email: s.input.Value(), DeviceID: st.deviceID}
	return func() tea.Msg {
		result, err := st.login.Login(st.ctx, req)
		return loginResultMsg{result: result, err: err}
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionLoadedMsg:
		s.checked = true
		if msg.err != nil {
			log.Printf("[Login] Session lookup failed: %v", msg.err)
		}
		if msg.session.IsAuthenticated() {
			s.st.session = msg.session
			return s, navigate(newDashboardScreen(s.st))
		}
		return s, nil

	case loginResultMsg:
		s.busy = false
		if msg.err != nil {
			s.reason = identity.ReasonLoginFailed
			return s, nil
		}
		if !msg.result.Success {
			s.reason = msg.result.Reason
			return s, nil
		}
		s.reason = ""
		s.st.session = msg.result.Session
		s.st.token = msg.result.Session.Token
		return s, navigate(newDashboardScreen(s.st))

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if s.busy || !s.checked {
				return s, nil
			}
			s.busy = true
			s.reason = ""
			return s, s.submit()
		case "esc":
			return s, tea.Quit
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *LoginScreen) View() string {
	var b strings.Builder
	if !s.checked {
		b.WriteString(statusStyle.Render("Checking session..."))
		return b.String()
	}
	b.WriteString(s.input.View())
	b.WriteString("\n")
	if s.busy {
		b.WriteString(statusStyle.Render("Logging in..."))
		b.WriteString("\n")
	}
	if s.reason != "" {
		b.WriteString(errorStyle.Render(s.reason))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter: log in · esc: quit"))
	return b.String()
}

// Email returns the typed email.
func (s *LoginScreen) Email() string { return s.input.Value() }

// Reason returns the failure reason shown on the screen, if any.
func (s *LoginScreen) Reason() string { return s.reason }
