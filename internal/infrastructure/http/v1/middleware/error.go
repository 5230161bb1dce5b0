package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory/internal/core/apperror"
	"inventory/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}

			body := gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
				"details": appErr.Details,
			}
			if appErr.Code == apperror.CodeInternal {
				body["details"] = map[string]any{"request_id": c.GetString(KeyRequestID)}
			}

			// Conflicts on the key itself must not overwrite the stored response.
			if appErr.Code != apperror.CodeIdempotencyConflict && appErr.Code != apperror.CodeIdempotencyMismatch {
				FailIdempotency(c, appErr.HTTPStatus, body)
			}

			c.JSON(appErr.HTTPStatus, body)
			return
		}

		logger.Error(c.Request.Context(), "unhandled error",
			"error", err,
		)

		body := gin.H{
			"code":    apperror.CodeInternal,
			"message": "internal server error",
			"details": map[string]any{
				"request_id": c.GetString(KeyRequestID),
			},
		}

		FailIdempotency(c, http.StatusInternalServerError, body)

		c.JSON(http.StatusInternalServerError, body)
	}
}
