package util

import (
	"context"

	"github.com/go-authgate/idgate/internal/models"

	"github.com/gin-gonic/gin"
)

type contextKey int

const (
	ipContextKey contextKey = iota
	deviceIDContextKey
)

// IPMiddleware copies the client IP onto the request context so services
// that only see a context.Context can still record it.
func IPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(SetIPContext(c.Request.Context(), c.ClientIP()))
		c.Next()
	}
}

// SetIPContext returns a context carrying ip. Empty values are not stored.
func SetIPContext(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, ipContextKey, ip)
}

// GetIPFromContext extracts the client IP address from the context
func GetIPFromContext(ctx context.Context) string {
	if ginCtx, ok := ctx.(*gin.Context); ok {
		return ginCtx.ClientIP()
	}
	if ip, ok := ctx.Value(ipContextKey).(string); ok {
		return ip
	}
	return ""
}

// SetDeviceIDContext returns a context carrying the device identifier.
func SetDeviceIDContext(ctx context.Context, deviceID string) context.Context {
	if deviceID == "" {
		return ctx
	}
	return context.WithValue(ctx, deviceIDContextKey, deviceID)
}

func GetDeviceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(deviceIDContextKey).(string); ok {
		return id
	}
	return ""
}

// GetEmailFromContext extracts the email of the signed-in user from the context
func GetEmailFromContext(ctx context.Context) string {
	return models.GetEmailFromContext(ctx)
}
