package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// SessionToken is the cookie-session key holding the identity session token.
	SessionToken = "session_token"

	sessionContextKey = "identity_session"
	tokenContextKey   = "identity_token"
	userContextKey    = "user"
)

// SessionLookup resolves a session token. *services.LoginService satisfies it.
type SessionLookup interface {
	CurrentSession(ctx context.Context, token string) (*identity.Session, error)
}

// bearerToken returns the token of an "Authorization: Bearer" header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// SessionTokenFromRequest returns the bearer token when present, otherwise the
// token stored in the cookie session.
func SessionTokenFromRequest(c *gin.Context) string {
	if token := bearerToken(c); token != "" {
		return token
	}
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	if token, ok := sessions.Default(c).Get(SessionToken).(string); ok {
		return token
	}
	return ""
}

// LoadSession looks up the current identity session once per request and
// stores it on the context. Lookup errors are logged and treated as no
// session.
func LoadSession(lookup SessionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionTokenFromRequest(c)
		session, err := lookup.CurrentSession(c.Request.Context(), token)
		if err != nil {
			log.Printf("[Session] Lookup failed: %v", err)
		}

		c.Set(tokenContextKey, token)
		if session != nil {
			c.Set(sessionContextKey, session)
			if session.IsAuthenticated() {
				c.Set(userContextKey, &models.User{
					ID:         session.UserID,
					Email:      session.Email(),
					CustomerID: session.Identities[identity.TypeCustomerID],
					Provider:   session.Provider,
				})
			}
		}
		c.Next()
	}
}

// GetSession returns the session stored by LoadSession, or nil.
func GetSession(c *gin.Context) *identity.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if session, ok := v.(*identity.Session); ok {
			return session
		}
	}
	return nil
}

// GetSessionToken returns the token LoadSession looked up.
func GetSessionToken(c *gin.Context) string {
	return c.GetString(tokenContextKey)
}

// RequireSession redirects to the login screen unless the request carries an
// authenticated session. Must run after LoadSession.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).IsAuthenticated() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAPISession rejects API calls without an authenticated session.
func RequireAPISession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).IsAuthenticated() {
			c.Header("WWW-Authenticate", `Bearer realm="IDGate"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": identity.ReasonNoSession,
			})
			return
		}
		c.Next()
	}
}
