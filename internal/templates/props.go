package templates

import (
	"slices"

	"github.com/go-authgate/idgate/internal/identity"
)

// BaseProps contains common properties shared across all pages
type BaseProps struct {
	CSRFToken string
}

// ===== Page Props Structures =====

// ErrorPageProps contains properties for the error page
type ErrorPageProps struct {
	BaseProps
	Error   string
	Message string
}

// LoginPageProps contains properties for the login page. Email is echoed
// back into the form after a failed attempt.
type LoginPageProps struct {
	BaseProps
	Email    string
	Error    string
	Provider string
}

// DashboardPageProps contains properties for the main screen
type DashboardPageProps struct {
	BaseProps
	Session *identity.Session
	Kits    []string
	Flashes []string
	Error   string
}

// DetailRow is one label/value pair of the session summary.
type DetailRow struct {
	Label string
	Value string
}

// SessionRows lists the non-empty session fields followed by its
// identities sorted by type.
func (p DashboardPageProps) SessionRows() []DetailRow {
	session := p.Session
	if session == nil {
		return nil
	}

	rows := []DetailRow{
		{"Session", session.ID},
		{"User", session.UserID},
		{"Device", session.DeviceID},
		{"Provider", session.Provider},
	}
	types := make([]string, 0, len(session.Identities))
	for t := range session.Identities {
		types = append(types, string(t))
	}
	slices.Sort(types)
	for _, t := range types {
		rows = append(rows, DetailRow{t, session.Identities[identity.Type(t)]})
	}

	return slices.DeleteFunc(rows, func(r DetailRow) bool { return r.Value == "" })
}
