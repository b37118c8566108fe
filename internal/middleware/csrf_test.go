package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFMiddleware(t *testing.T) {
	r := setupTestRouter()
	r.Use(CSRFMiddleware())
	r.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, GetCSRFToken(c))
	})
	r.POST("/form", func(c *gin.Context) {
		c.String(http.StatusOK, "accepted")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
	token := w.Body.String()
	require.Len(t, token, csrfTokenLength)
	cookies := w.Result().Cookies()

	post := func(form url.Values, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header != "" {
			req.Header.Set("X-CSRF-Token", header)
		}
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	missing := post(url.Values{}, "")
	assert.Equal(t, http.StatusForbidden, missing.Code)
	assert.Contains(t, missing.Body.String(), "CSRF token validation failed")

	assert.Equal(t, http.StatusForbidden, post(url.Values{"csrf_token": {"forged"}}, "").Code)
	assert.Equal(t, http.StatusOK, post(url.Values{"csrf_token": {token}}, "").Code)
	assert.Equal(t, http.StatusOK, post(url.Values{}, token).Code)
}
