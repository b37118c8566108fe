package identity

import "errors"

var (
	ErrUnknownAccount  = errors.New("no account for the given identity")
	ErrAccountInactive = errors.New("account is inactive")

	// HTTP API errors
	ErrIdentityAPIConnection  = errors.New("failed to connect to identity API")
	ErrIdentityAPIRejected    = errors.New("identity API rejected the request")
	ErrIdentityAPIInvalidResp = errors.New("invalid response from identity API")

	// Kratos errors
	ErrKratosUnavailable = errors.New("kratos unavailable")

	// Session errors
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionExpired      = errors.New("session expired")
	ErrSessionRevoked      = errors.New("session revoked")
	ErrInvalidSessionToken = errors.New("invalid session token")
	ErrNotAuthenticated    = errors.New("session is not authenticated")
)

// Reasons shown to the user when an identity operation fails.
const (
	ReasonUnknownAccount = "No account found for this email."
	ReasonInactive       = "This account is disabled."
	ReasonUnavailable    = "Identity service unavailable. Please try again."
	ReasonNoSession      = "You are not logged in."
	ReasonLoginFailed    = "Login failed."
	ReasonLogoutFailed   = "Logout failed."
)

// FailureReason maps an identity error to the message shown on screen.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownAccount), errors.Is(err, ErrIdentityAPIRejected):
		return ReasonUnknownAccount
	case errors.Is(err, ErrAccountInactive):
		return ReasonInactive
	case errors.Is(err, ErrIdentityAPIConnection),
		errors.Is(err, ErrIdentityAPIInvalidResp),
		errors.Is(err, ErrKratosUnavailable):
		return ReasonUnavailable
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrSessionExpired),
		errors.Is(err, ErrSessionRevoked),
		errors.Is(err, ErrInvalidSessionToken),
		errors.Is(err, ErrNotAuthenticated):
		return ReasonNoSession
	default:
		return ReasonLoginFailed
	}
}
