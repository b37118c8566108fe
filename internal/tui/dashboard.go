package tui

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/kit"
	"github.com/go-authgate/idgate/internal/services"

	tea "github.com/charmbracelet/bubbletea"
)

type logoutResultMsg struct {
	result identity.Result
	err    error
}

type eventLoggedMsg struct {
	status string
}

// DashboardScreen is the main screen shown after login.
type DashboardScreen struct {
	st     *state
	status string
	reason string
}

func newDashboardScreen(st *state) *DashboardScreen {
	return &DashboardScreen{st: st}
}

func (s *DashboardScreen) Title() string { return "Dashboard" }

// Init reports the screen view.
func (s *DashboardScreen) Init() tea.Cmd {
	st := s.st
	user := st.user()
	return func() tea.Msg {
		st.events.LogScreen(st.ctx, user, services.DashboardScreen, nil)
		return nil
	}
}

func (s *DashboardScreen) logEvent() tea.Cmd {
	st := s.st
	user := st.user()
	return func() tea.Msg {
		st.events.LogEvent(st.ctx, user, kit.Event{
			Name: services.TestEventName,
			Type: kit.EventTypeCustom,
		})
		return eventLoggedMsg{status: "Event logged."}
	}
}

func (s *DashboardScreen) logPurchase() tea.Cmd {
	st := s.st
	user := st.user()
	return func() tea.Msg {
		st.events.LogCommerceEvent(st.ctx, user, services.SamplePurchase())
		return eventLoggedMsg{status: "Purchase logged."}
	}
}

func (s *DashboardScreen) logout() tea.Cmd {
	st := s.st
	token := st.token
	return func() tea.Msg {
		result, err := st.login.Logout(st.ctx, token)
		return logoutResultMsg{result: result, err: err}
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case eventLoggedMsg:
		s.status = msg.status
		return s, nil

	case logoutResultMsg:
		if msg.err != nil {
			log.Printf("[Dashboard] Logout error: %v", msg.err)
			s.reason = identity.ReasonLogoutFailed
			return s, nil
		}
		if !msg.result.Success {
			s.reason = msg.result.Reason
			return s, nil
		}
		s.st.session = nil
		s.st.token = ""
		return s, navigate(newLoginScreen(s.st))

	case tea.KeyMsg:
		s.reason = ""
		switch msg.String() {
		case "e":
			return s, s.logEvent()
		case "p":
			return s, s.logPurchase()
		case "l":
			return s, s.logout()
		case "q", "esc":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *DashboardScreen) View() string {
	var b strings.Builder
	if session := s.st.session; session != nil {
		rows := [][2]string{
			{"Email", session.Email()},
			{"User", session.UserID},
			{"Device", session.DeviceID},
			{"Provider", session.Provider},
			{"Expires", session.ExpiresAt.Format("2006-01-02 15:04:05")},
		}
		for _, row := range rows {
			fmt.Fprintf(&b, "%s%s\n", labelStyle.Render(row[0]), row[1])
		}
	}
	if s.status != "" {
		b.WriteString(statusStyle.Render(s.status))
		b.WriteString("\n")
	}
	if s.reason != "" {
		b.WriteString(errorStyle.Render(s.reason))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("e: log event · p: log purchase · l: log out · q: quit"))
	return b.String()
}
