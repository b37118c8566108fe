package models

import (
	"context"

	"github.com/gin-gonic/gin"
)

// GetEmailFromContext extracts the email of the user stored in the Gin
// context under "user" by the session middleware.
// Returns empty string if the user cannot be determined.
func GetEmailFromContext(ctx context.Context) string {
	if ginCtx, ok := ctx.(*gin.Context); ok {
		if userVal, exists := ginCtx.Get("user"); exists {
			if user, ok := userVal.(*User); ok {
				return user.Email
			}
		}
	}

	return ""
}
