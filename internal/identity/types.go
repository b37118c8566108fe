package identity

import (
	"context"
	"time"
)

// Type names one kind of user identity.
type Type string

const (
	TypeEmail      Type = "email"
	TypeCustomerID Type = "customer_id"
	TypeFacebook   Type = "facebook"
)

// Identities holds the known identities of a user keyed by type.
type Identities map[Type]string

// Request is the credential submitted to the identity service. The email is
// carried verbatim; it is never validated or trimmed here.
type Request struct {
	Email      string `json:"email"`
	CustomerID string `json:"customer_id,omitempty"`
	FacebookID string `json:"facebook_id,omitempty"`
	DeviceID   string `json:"-"`
}

// NewRequest builds a login request for the given email.
func NewRequest(email string) Request {
	return Request{Email: email}
}

// Identities returns the non-empty identities carried by the request.
func (r Request) Identities() Identities {
	ids := Identities{}
	if r.Email != "" {
		ids[TypeEmail] = r.Email
	}
	if r.CustomerID != "" {
		ids[TypeCustomerID] = r.CustomerID
	}
	if r.FacebookID != "" {
		ids[TypeFacebook] = r.FacebookID
	}
	return ids
}

// Account is what a Provider returns for a resolved identity.
type Account struct {
	UserID     string
	ExternalID string
	Email      string
	CustomerID string
	FacebookID string
	FullName   string
	Provider   string
}

// Identities returns the identities known for the account.
func (a *Account) Identities() Identities {
	return Request{Email: a.Email, CustomerID: a.CustomerID, FacebookID: a.FacebookID}.Identities()
}

// Session is the identity service's view of the current user session.
type Session struct {
	ID            string     `json:"id"`
	Token         string     `json:"-"`
	UserID        string     `json:"user_id,omitempty"`
	DeviceID      string     `json:"device_id,omitempty"`
	Provider      string     `json:"provider"`
	Identities    Identities `json:"identities"`
	Authenticated bool       `json:"authenticated"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
}

// IsAuthenticated reports whether the session belongs to a logged-in user.
// A nil or expired session is not authenticated.
func (s *Session) IsAuthenticated() bool {
	if s == nil {
		return false
	}
	return s.Authenticated && time.Now().Before(s.ExpiresAt)
}

// Email returns the session's email identity, if any.
func (s *Session) Email() string {
	if s == nil {
		return ""
	}
	return s.Identities[TypeEmail]
}

// User returns the listener-facing snapshot of the session's user.
func (s *Session) User() User {
	return User{ID: s.UserID, DeviceID: s.DeviceID, Identities: s.Identities}
}

// Result is the outcome of a login, logout, identify or modify call.
// A failed result always carries a reason and never a session.
type Result struct {
	Success bool     `json:"success"`
	Reason  string   `json:"reason,omitempty"`
	Session *Session `json:"session,omitempty"`
}

func Succeeded(session *Session) Result {
	return Result{Success: true, Session: session}
}

func Failed(reason string) Result {
	if reason == "" {
		reason = ReasonLoginFailed
	}
	return Result{Success: false, Reason: reason}
}

// User is the snapshot of a user handed to listeners.
type User struct {
	ID         string
	DeviceID   string
	Identities Identities
}

// Provider resolves a login request to an account in a backing identity store.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, req Request) (*Account, error)
}

// SessionResolver is implemented by providers that can adopt a session the
// user already holds with the backend (e.g. a Kratos browser cookie).
type SessionResolver interface {
	ResolveSession(ctx context.Context, credential string) (*Account, error)
}

// Listener receives identity lifecycle notifications. Engagement kits
// implement it to keep their user profile in sync.
type Listener interface {
	OnIdentifyCompleted(ctx context.Context, user User, req Request)
	OnLoginCompleted(ctx context.Context, user User, req Request)
	OnLogoutCompleted(ctx context.Context, user User, req Request)
	OnModifyCompleted(ctx context.Context, user User, req Request)
	OnUserIdentified(ctx context.Context, user User)
}
