// Package middleware provides HTTP middleware components.
package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"inventory/internal/core/apperror"
	"inventory/pkg/logger"
)

// Recovery middleware recovers from panics and returns 500 error.
// Logs stack trace but never exposes internal details to client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				// ErrorHandler has already returned by now, so the response is written here.
				if c.Writer.Written() {
					c.Abort()
					return
				}
				body := gin.H{
					"code":    apperror.CodeInternal,
					"message": "internal server error",
					"details": map[string]any{"request_id": c.GetString(KeyRequestID)},
				}
				FailIdempotency(c, http.StatusInternalServerError, body)
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()
		c.Next()
	}
}
