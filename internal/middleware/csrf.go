package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-authgate/idgate/internal/templates"
	"github.com/go-authgate/idgate/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	csrfTokenKey    = "csrf_token"
	csrfFormField   = "csrf_token"
	csrfHeaderField = "X-CSRF-Token"
	csrfTokenLength = 64
)

func csrfFailure(c *gin.Context, status int, message string) {
	templates.RenderTempl(c, status, templates.ErrorPage(templates.ErrorPageProps{
		Error:   "Request rejected",
		Message: message,
	}))
	c.Abort()
}

// CSRFMiddleware provides CSRF protection for state-changing operations
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		// Generate token if not exists
		token, _ := session.Get(csrfTokenKey).(string)
		if token == "" {
			generated, err := util.RandomHex(csrfTokenLength)
			if err != nil {
				csrfFailure(c, http.StatusInternalServerError, "Failed to generate CSRF token")
				return
			}
			token = generated
			session.Set(csrfTokenKey, token)
			if err := session.Save(); err != nil {
				csrfFailure(c, http.StatusInternalServerError, "Failed to save CSRF token")
				return
			}
		}

		// Make token available to templates
		c.Set(csrfTokenKey, token)

		// Validate token for state-changing methods
		if c.Request.Method == http.MethodPost ||
			c.Request.Method == http.MethodPut ||
			c.Request.Method == http.MethodDelete ||
			c.Request.Method == http.MethodPatch {
			// Get token from form or header
			submittedToken := c.PostForm(csrfFormField)
			if submittedToken == "" {
				submittedToken = c.GetHeader(csrfHeaderField)
			}

			// Validate token
			if submittedToken == "" ||
				subtle.ConstantTimeCompare([]byte(submittedToken), []byte(token)) != 1 {
				csrfFailure(c, http.StatusForbidden,
					"CSRF token validation failed. Please refresh the page and try again.")
				return
			}
		}

		c.Next()
	}
}

// GetCSRFToken retrieves the CSRF token from the context
func GetCSRFToken(c *gin.Context) string {
	if token, exists := c.Get(csrfTokenKey); exists {
		if tokenStr, ok := token.(string); ok {
			return tokenStr
		}
	}
	return ""
}
