package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-authgate/idgate/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIPContext(t *testing.T) {
	tests := []struct {
		name string
		ip   string
	}{
		{"ipv4", "192.168.1.1"},
		{"ipv6", "2001:db8::8a2e:370:7334"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := SetIPContext(context.Background(), tt.ip)
			assert.Equal(t, tt.ip, GetIPFromContext(ctx))
		})
	}
}

func TestIPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got string
	r := gin.New()
	r.Use(IPMiddleware())
	r.GET("/login", func(c *gin.Context) {
		got = GetIPFromContext(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.7", got)
}

func TestDeviceIDContext(t *testing.T) {
	type otherKey struct{}
	ctx := context.WithValue(context.Background(), otherKey{}, "kept")
	ctx = SetIPContext(ctx, "192.0.2.1")
	ctx = SetDeviceIDContext(ctx, "device-abc")

	assert.Equal(t, "device-abc", GetDeviceIDFromContext(ctx))
	assert.Equal(t, "192.0.2.1", GetIPFromContext(ctx))
	assert.Equal(t, "kept", ctx.Value(otherKey{}))

	assert.Empty(t, GetDeviceIDFromContext(SetDeviceIDContext(context.Background(), "")))
}

func TestGetEmailFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetEmailFromContext(c))

	c.Set("user", &models.User{Email: "user@example.com"})
	assert.Equal(t, "user@example.com", GetEmailFromContext(c))

	assert.Empty(t, GetEmailFromContext(context.Background()))
}
