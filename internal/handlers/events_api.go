package handlers

import (
	"net/http"

	"github.com/go-authgate/idgate/internal/kit"
	"github.com/go-authgate/idgate/internal/services"

	"github.com/gin-gonic/gin"
)

// UserAttributeRequest sets one attribute on the caller's profile.
type UserAttributeRequest struct {
	Key   string `json:"key"   binding:"required"`
	Value any    `json:"value"`
}

// PushRegistrationRequest carries a device push token.
type PushRegistrationRequest struct {
	Token string `json:"token" binding:"required"`
}

// EventAPIHandler forwards client events to the registered kits. Callers
// without a session are tracked by device.
type EventAPIHandler struct {
	events *services.EventService
}

func NewEventAPIHandler(events *services.EventService) *EventAPIHandler {
	return &EventAPIHandler{events: events}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_request",
		"message": message,
	})
}

func (h *EventAPIHandler) accepted(c *gin.Context) {
	c.JSON(http.StatusAccepted, gin.H{"accepted": true, "kits": h.events.Kits()})
}

// LogEvent godoc
//
//	@Summary		Log event
//	@Description	Forwards a custom or screen event to every kit
//	@Tags			Events
//	@Accept			json
//	@Produce		json
//	@Param			event	body		kit.Event	true	"Event"
//	@Success		202		{object}	object{accepted=bool,kits=[]string}
//	@Failure		400		{object}	object{error=string,message=string}
//	@Router			/api/v1/events [post]
func (h *EventAPIHandler) LogEvent(c *gin.Context) {
	var event kit.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		badRequest(c, "Event name is required")
		return
	}
	if event.Type == "" {
		event.Type = kit.EventTypeCustom
	}
	h.events.LogEvent(c.Request.Context(), currentUser(c), event)
	h.accepted(c)
}

// LogCommerceEvent godoc
//
//	@Summary		Log commerce event
//	@Description	Forwards a commerce event such as a purchase to every kit
//	@Tags			Events
//	@Accept			json
//	@Produce		json
//	@Param			event	body		kit.CommerceEvent	true	"Commerce event"
//	@Success		202		{object}	object{accepted=bool,kits=[]string}
//	@Failure		400		{object}	object{error=string,message=string}
//	@Router			/api/v1/events/commerce [post]
func (h *EventAPIHandler) LogCommerceEvent(c *gin.Context) {
	var event kit.CommerceEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		badRequest(c, "Request body must be a commerce event")
		return
	}
	if event.Name == "" {
		event.Name = event.Action
	}
	if event.Name == "" {
		badRequest(c, "Commerce event name or action is required")
		return
	}
	h.events.LogCommerceEvent(c.Request.Context(), currentUser(c), event)
	h.accepted(c)
}

// SetUserAttribute godoc
//
//	@Summary		Set user attribute
//	@Tags			Events
//	@Accept			json
//	@Produce		json
//	@Param			attribute	body		UserAttributeRequest	true	"Attribute"
//	@Success		202			{object}	object{accepted=bool,kits=[]string}
//	@Failure		400			{object}	object{error=string,message=string}
//	@Router			/api/v1/events/attributes [post]
func (h *EventAPIHandler) SetUserAttribute(c *gin.Context) {
	var req UserAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Attribute key is required")
		return
	}
	h.events.SetUserAttribute(c.Request.Context(), currentUser(c), req.Key, req.Value)
	h.accepted(c)
}

// RegisterPush godoc
//
//	@Summary		Register push token
//	@Tags			Push
//	@Accept			json
//	@Produce		json
//	@Param			registration	body		PushRegistrationRequest	true	"Push token"
//	@Success		200				{object}	object{claimed=bool}
//	@Failure		400				{object}	object{error=string,message=string}
//	@Router			/api/v1/push/registration [post]
func (h *EventAPIHandler) RegisterPush(c *gin.Context) {
	var req PushRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Push token is required")
		return
	}
	claimed := h.events.RegisterPush(c.Request.Context(), currentUser(c), req.Token)
	c.JSON(http.StatusOK, gin.H{"claimed": claimed})
}

// PushMessage godoc
//
//	@Summary		Deliver push message
//	@Description	Hands a received push payload to the kit that sent it
//	@Tags			Push
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		map[string]string	true	"Push payload"
//	@Success		200		{object}	object{handled=bool}
//	@Failure		400		{object}	object{error=string,message=string}
//	@Router			/api/v1/push/message [post]
func (h *EventAPIHandler) PushMessage(c *gin.Context) {
	var payload map[string]string
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "Push payload must be a JSON object of strings")
		return
	}
	handled := h.events.HandlePushMessage(c.Request.Context(), currentUser(c), payload)
	c.JSON(http.StatusOK, gin.H{"handled": handled})
}
