package handlers

import (
	"net/http"
	"testing"

	"github.com/go-authgate/idgate/internal/kit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventAPI_LogEvent(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	b := newBrowser(t, env.router)

	w := b.do(jsonRequest(http.MethodPost, "/api/v1/events",
		`{"name":"search","attributes":{"query":"hotel"}}`, ""))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "recording")
	require.Len(t, env.kit.events, 1)
	assert.Equal(t, kit.EventTypeCustom, env.kit.events[0].Type, "type defaults to custom")
	assert.Equal(t, "hotel", env.kit.events[0].Attributes["query"])

	w = b.do(jsonRequest(http.MethodPost, "/api/v1/events", `{"name":"Home","type":"screen"}`, ""))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"Home"}, env.kit.screens)

	w = b.do(jsonRequest(http.MethodPost, "/api/v1/events", `{"type":"custom"}`, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventAPI_LogCommerceEvent(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	b := newBrowser(t, env.router)

	w := b.do(jsonRequest(http.MethodPost, "/api/v1/events/commerce",
		`{"action":"purchase","transaction":{"id":"tx-9","revenue":12.5}}`, ""))
	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, env.kit.commerce, 1)
	assert.Equal(t, "purchase", env.kit.commerce[0].Name)

	w = b.do(jsonRequest(http.MethodPost, "/api/v1/events/commerce", `{}`, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventAPI_UserAttribute(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	b := newBrowser(t, env.router)

	w := b.do(jsonRequest(http.MethodPost, "/api/v1/events/attributes",
		`{"key":"$FirstName","value":"Ada"}`, ""))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "Ada", env.kit.attrs[kit.UserAttrFirstName])

	w = b.do(jsonRequest(http.MethodPost, "/api/v1/events/attributes", `{"value":"x"}`, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventAPI_Push(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	b := newBrowser(t, env.router)

	w := b.do(jsonRequest(http.MethodPost, "/api/v1/push/message", `{"bsft_message_uuid":"m-1"}`, ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"handled":true}`, w.Body.String())

	w = b.do(jsonRequest(http.MethodPost, "/api/v1/push/message", `{"other":"x"}`, ""))
	assert.JSONEq(t, `{"handled":false}`, w.Body.String())

	w = b.do(jsonRequest(http.MethodPost, "/api/v1/push/registration", `{"token":"fcm-token"}`, ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"claimed":false}`, w.Body.String())

	w = b.do(jsonRequest(http.MethodPost, "/api/v1/push/registration", `{}`, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
