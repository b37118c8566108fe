package handlers

import (
	"log"
	"net/http"

	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/kit"
	"github.com/go-authgate/idgate/internal/middleware"
	"github.com/go-authgate/idgate/internal/services"
	"github.com/go-authgate/idgate/internal/templates"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the main screen.
type DashboardHandler struct {
	login  *services.LoginService
	events *services.EventService
}

func NewDashboardHandler(login *services.LoginService, events *services.EventService) *DashboardHandler {
	return &DashboardHandler{login: login, events: events}
}

func (h *DashboardHandler) render(c *gin.Context, status int, errMsg string) {
	var flashes []string
	cookieSession := sessions.Default(c)
	for _, f := range cookieSession.Flashes() {
		if s, ok := f.(string); ok {
			flashes = append(flashes, s)
		}
	}
	if len(flashes) > 0 {
		if err := cookieSession.Save(); err != nil {
			log.Printf("[Dashboard] Failed to clear flashes: %v", err)
		}
	}

	templates.RenderTempl(c, status, templates.DashboardPage(templates.DashboardPageProps{
		BaseProps: templates.BaseProps{CSRFToken: middleware.GetCSRFToken(c)},
		Session:   middleware.GetSession(c),
		Kits:      h.events.Kits(),
		Flashes:   flashes,
		Error:     errMsg,
	}))
}

// flashAndReturn records message for the next dashboard render and
// redirects back to it.
func (h *DashboardHandler) flashAndReturn(c *gin.Context, message string) {
	cookieSession := sessions.Default(c)
	cookieSession.AddFlash(message)
	if err := cookieSession.Save(); err != nil {
		log.Printf("[Dashboard] Failed to save flash: %v", err)
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

func currentUser(c *gin.Context) identity.User {
	if session := middleware.GetSession(c); session != nil {
		return session.User()
	}
	return identity.User{DeviceID: middleware.GetDeviceID(c)}
}

// Show renders the dashboard and reports the screen view.
func (h *DashboardHandler) Show(c *gin.Context) {
	h.events.LogScreen(c.Request.Context(), currentUser(c), services.DashboardScreen, nil)
	h.render(c, http.StatusOK, "")
}

// Logout ends the session. Only a successful logout leaves the dashboard.
func (h *DashboardHandler) Logout(c *gin.Context) {
	result, err := h.login.Logout(c.Request.Context(), middleware.GetSessionToken(c))
	if err != nil {
		log.Printf("[Dashboard] Logout error: %v", err)
		h.render(c, http.StatusInternalServerError, identity.ReasonLogoutFailed)
		return
	}
	if !result.Success {
		h.render(c, http.StatusConflict, result.Reason)
		return
	}

	cookieSession := sessions.Default(c)
	cookieSession.Delete(middleware.SessionToken)
	if err := cookieSession.Save(); err != nil {
		log.Printf("[Dashboard] Failed to clear cookie session: %v", err)
	}
	c.Redirect(http.StatusFound, loginPath)
}

// LogEvent sends the sample custom event.
func (h *DashboardHandler) LogEvent(c *gin.Context) {
	h.events.LogEvent(c.Request.Context(), currentUser(c), kit.Event{
		Name: services.TestEventName,
		Type: kit.EventTypeCustom,
	})
	h.flashAndReturn(c, "Event logged.")
}

// LogPurchase sends the sample purchase.
func (h *DashboardHandler) LogPurchase(c *gin.Context) {
	h.events.LogCommerceEvent(c.Request.Context(), currentUser(c), services.SamplePurchase())
	h.flashAndReturn(c, "Purchase logged.")
}
