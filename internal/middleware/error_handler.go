package middleware

import (
	"nestquest/internal/errors"
	"nestquest/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler catches errors attached to the gin context and renders
// the standard response envelope. Sync warnings keep a 200 status so a
// partially failed sign-in still lands the user on the dashboard.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			appErr := errors.MapError(err)

			logger.GlobalLogger.Errorf("Request failed: path=%s, method=%s, client_ip=%s, error=%s",
				c.Request.URL.Path,
				c.Request.Method,
				c.ClientIP(),
				appErr.TechnicalMessage)

			c.JSON(appErr.HTTPStatus, gin.H{
				"error": gin.H{
					"message": appErr.UserMessage,
					"code":    appErr.Code,
				},
			})
			return
		}
	}
}
