package handlers

import (
	"log"
	"net/http"

	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/middleware"
	"github.com/go-authgate/idgate/internal/services"

	"github.com/gin-gonic/gin"
)

// ResultResponse is the JSON form of an identity.Result. Token is only set
// when a new session was issued.
type ResultResponse struct {
	Success bool              `json:"success"`
	Reason  string            `json:"reason,omitempty"`
	Token   string            `json:"token,omitempty"`
	Session *identity.Session `json:"session,omitempty"`
}

// CurrentSessionResponse reports the login state of the caller.
type CurrentSessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	Session       *identity.Session `json:"session,omitempty"`
}

func newResultResponse(result identity.Result, issued bool) ResultResponse {
	resp := ResultResponse{
		Success: result.Success,
		Reason:  result.Reason,
		Session: result.Session,
	}
	if issued && result.Session != nil {
		resp.Token = result.Session.Token
	}
	return resp
}

// IdentityAPIHandler exposes the identity service as JSON.
type IdentityAPIHandler struct {
	login *services.LoginService
}

func NewIdentityAPIHandler(login *services.LoginService) *IdentityAPIHandler {
	return &IdentityAPIHandler{login: login}
}

func (h *IdentityAPIHandler) bindRequest(c *gin.Context) (identity.Request, bool) {
	var req identity.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Request body must be a JSON object",
		})
		return req, false
	}
	req.DeviceID = middleware.GetDeviceID(c)
	return req, true
}

func (h *IdentityAPIHandler) respond(c *gin.Context, result identity.Result, err error, issued bool) {
	switch {
	case err != nil:
		log.Printf("[Identity] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, ResultResponse{Reason: identity.ReasonLoginFailed})
	case !result.Success:
		status := http.StatusUnauthorized
		if result.Reason == identity.ReasonUnavailable {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, newResultResponse(result, false))
	default:
		c.JSON(http.StatusOK, newResultResponse(result, issued))
	}
}

// Current godoc
//
//	@Summary		Current session
//	@Description	Reports whether the caller holds an authenticated session
//	@Tags			Identity
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	CurrentSessionResponse
//	@Router			/api/v1/identity/current [get]
func (h *IdentityAPIHandler) Current(c *gin.Context) {
	session := middleware.GetSession(c)
	c.JSON(http.StatusOK, CurrentSessionResponse{
		Authenticated: session.IsAuthenticated(),
		Session:       session,
	})
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Resolves the email with the identity provider and issues a session token. The email is used verbatim and may be empty.
//	@Tags			Identity
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identity.Request	true	"Login request"
//	@Success		200		{object}	ResultResponse
//	@Failure		400		{object}	object{error=string,message=string}
//	@Failure		401		{object}	ResultResponse	"Login rejected; reason explains why"
//	@Failure		503		{object}	ResultResponse	"Identity backend unavailable"
//	@Router			/api/v1/identity/login [post]
func (h *IdentityAPIHandler) Login(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	result, err := h.login.Login(c.Request.Context(), req)
	h.respond(c, result, err, true)
}

// Identify godoc
//
//	@Summary		Identify anonymously
//	@Description	Issues an unauthenticated session carrying the given identities
//	@Tags			Identity
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identity.Request	true	"Identities"
//	@Success		200		{object}	ResultResponse
//	@Failure		400		{object}	object{error=string,message=string}
//	@Router			/api/v1/identity/identify [post]
func (h *IdentityAPIHandler) Identify(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	result, err := h.login.Identify(c.Request.Context(), req)
	h.respond(c, result, err, true)
}

// Logout godoc
//
//	@Summary		Log out
//	@Description	Revokes the caller's authenticated session
//	@Tags			Identity
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ResultResponse
//	@Failure		401	{object}	ResultResponse
//	@Router			/api/v1/identity/logout [post]
func (h *IdentityAPIHandler) Logout(c *gin.Context) {
	result, err := h.login.Logout(c.Request.Context(), middleware.GetSessionToken(c))
	h.respond(c, result, err, false)
}

// Modify godoc
//
//	@Summary		Modify identities
//	@Description	Adds or replaces identities on the caller's session; empty fields are left unchanged
//	@Tags			Identity
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		identity.Request	true	"Identities to set"
//	@Success		200		{object}	ResultResponse
//	@Failure		401		{object}	ResultResponse
//	@Router			/api/v1/identity/modify [post]
func (h *IdentityAPIHandler) Modify(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	result, err := h.login.Modify(c.Request.Context(), middleware.GetSessionToken(c), req)
	h.respond(c, result, err, false)
}
