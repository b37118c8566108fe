package middleware

import (
	"log"

	"github.com/go-authgate/idgate/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	deviceIDSessionKey = "device_id"
	deviceIDHeader     = "X-Device-ID"
	deviceIDMaxLength  = 64
)

// DeviceMiddleware assigns every browser a stable device identifier kept in
// the cookie session. API clients may send their own in X-Device-ID. The ID
// is copied onto the request context for services.
func DeviceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader(deviceIDHeader)
		if len(deviceID) > deviceIDMaxLength {
			deviceID = ""
		}

		if deviceID == "" {
			session := sessions.Default(c)
			if stored, ok := session.Get(deviceIDSessionKey).(string); ok && stored != "" {
				deviceID = stored
			} else {
				deviceID = uuid.New().String()
				session.Set(deviceIDSessionKey, deviceID)
				if err := session.Save(); err != nil {
					log.Printf("[Session] Failed to save device id: %v", err)
				}
			}
		}

		c.Set(deviceIDSessionKey, deviceID)
		c.Request = c.Request.WithContext(util.SetDeviceIDContext(c.Request.Context(), deviceID))
		c.Next()
	}
}

// GetDeviceID returns the device identifier assigned by DeviceMiddleware.
func GetDeviceID(c *gin.Context) string {
	return c.GetString(deviceIDSessionKey)
}
