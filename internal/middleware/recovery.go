package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/fyyur-backend/internal/errors"
)

// RecoveryMiddleware turns a panic into the 500 page and logs the value
// with the request id.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		GetLoggerFromContext(c).Error("Recovered from panic", fmt.Errorf("%v", recovered), map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		apperrors.InternalError(c, "")
		c.Abort()
	})
}
