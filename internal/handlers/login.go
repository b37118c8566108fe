package handlers

import (
	"log"
	"net/http"

	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/middleware"
	"github.com/go-authgate/idgate/internal/services"
	"github.com/go-authgate/idgate/internal/templates"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

// LoginHandler serves the login screen.
type LoginHandler struct {
	login *services.LoginService
	// Cookie holding a backend browser session that Resume can adopt
	resumeCookie string
}

func NewLoginHandler(login *services.LoginService, resumeCookie string) *LoginHandler {
	return &LoginHandler{login: login, resumeCookie: resumeCookie}
}

func (h *LoginHandler) render(c *gin.Context, status int, email, reason string) {
	templates.RenderTempl(c, status, templates.LoginPage(templates.LoginPageProps{
		BaseProps: templates.BaseProps{CSRFToken: middleware.GetCSRFToken(c)},
		Email:     email,
		Error:     reason,
		Provider:  h.login.ProviderName(),
	}))
}

// startSession stores token in the cookie session and leaves the login
// screen for the dashboard.
func (h *LoginHandler) startSession(c *gin.Context, token, email string) {
	session := sessions.Default(c)
	session.Set(middleware.SessionToken, token)
	if err := session.Save(); err != nil {
		log.Printf("[Login] Failed to save cookie session: %v", err)
		h.render(c, http.StatusInternalServerError, email, identity.ReasonLoginFailed)
		return
	}
	c.Redirect(http.StatusFound, dashboardPath)
}

// ShowLogin handles screen creation. A user who is already logged in goes
// straight to the dashboard and no form is rendered.
func (h *LoginHandler) ShowLogin(c *gin.Context) {
	if middleware.GetSession(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}

	if h.resumeCookie != "" {
		if credential, err := c.Cookie(h.resumeCookie); err == nil && credential != "" {
			result, err := h.login.Resume(c.Request.Context(), credential, middleware.GetDeviceID(c))
			if err != nil {
				log.Printf("[Login] Resume failed: %v", err)
			} else if result.Success {
				h.startSession(c, result.Session.Token, result.Session.Email())
				return
			}
		}
	}

	h.render(c, http.StatusOK, "", "")
}

// Login handles the login action. The typed email is submitted verbatim;
// the dashboard is reached only when the identity service reports success.
func (h *LoginHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	req := identity.Request{Email: email, DeviceID: middleware.GetDeviceID(c)}

	result, err := h.login.Login(c.Request.Context(), req)
	if err != nil {
		log.Printf("[Login] Login error: %v", err)
		h.render(c, http.StatusInternalServerError, email, identity.ReasonLoginFailed)
		return
	}
	if !result.Success {
		h.render(c, http.StatusUnauthorized, email, result.Reason)
		return
	}

	h.startSession(c, result.Session.Token, email)
}
