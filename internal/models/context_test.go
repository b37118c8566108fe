package models

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestGetEmailFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		setup    func(c *gin.Context)
		expected string
	}{
		{
			name: "user stored by middleware",
			setup: func(c *gin.Context) {
				c.Set("user", &User{ID: "user-123", Email: "user@example.com"})
			},
			expected: "user@example.com",
		},
		{
			name:     "no user",
			setup:    func(*gin.Context) {},
			expected: "",
		},
		{
			name: "wrong type",
			setup: func(c *gin.Context) {
				c.Set("user", "user@example.com")
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			tt.setup(c)
			if got := GetEmailFromContext(c); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}

	t.Run("plain context", func(t *testing.T) {
		if got := GetEmailFromContext(context.Background()); got != "" {
			t.Errorf("expected empty email, got %q", got)
		}
	})
}
