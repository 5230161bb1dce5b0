package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory/internal/core/apperror"
	appctx "inventory/internal/core/context"
	"inventory/internal/core/idempotency"
	"inventory/pkg/logger"
)

const HeaderIdempotencyKey = "X-Idempotency-Key"

const (
	maxIdempotencyBodyBytes = 1 << 20 // 1 MiB
	maxIdempotencyKeyLength = 128

	keyIdempotencyKey   = "idempotency_key"
	keyIdempotencyUser  = "idempotency_user"
	keyIdempotencyStore = "idempotency_store"
)

// Idempotency middleware protects against duplicate requests carrying X-Idempotency-Key.
// Requests without the header pass through untouched.
func Idempotency(store idempotency.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			_ = c.Error(apperror.NewValidation("idempotency key is too long").
				WithDetail("max_length", maxIdempotencyKeyLength))
			c.Abort()
			return
		}

		userID := appctx.GetUserID(c.Request.Context())

		limited := io.LimitReader(c.Request.Body, maxIdempotencyBodyBytes+1)
		body, err := io.ReadAll(limited)
		if err != nil {
			_ = c.Error(apperror.NewValidation("cannot read request body"))
			c.Abort()
			return
		}
		if len(body) > maxIdempotencyBodyBytes {
			appErr := apperror.NewValidation("request body too large for idempotency")
			appErr.HTTPStatus = http.StatusRequestEntityTooLarge
			_ = c.Error(appErr.WithDetail("max_bytes", maxIdempotencyBodyBytes))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		hash := sha256.Sum256(body)
		requestHash := hex.EncodeToString(hash[:])

		operation := c.Request.Method + " " + c.FullPath()

		replay, err := store.AcquireKey(c.Request.Context(), key, userID, operation, requestHash)
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				_ = c.Error(appErr)
			} else {
				_ = c.Error(apperror.NewInternal(err).WithDetail("component", "idempotency"))
			}
			c.Abort()
			return
		}

		if replay != nil {
			c.Header("Idempotent-Replayed", "true")
			c.Data(replay.StatusCode, replay.ContentType, replay.Body)
			c.Abort()
			return
		}

		c.Set(keyIdempotencyKey, key)
		c.Set(keyIdempotencyUser, userID)
		c.Set(keyIdempotencyStore, store)

		c.Next()
	}
}

type idempotencyScope struct {
	key    string
	userID string
	store  idempotency.Store
}

func idempotencyFrom(c *gin.Context) (idempotencyScope, bool) {
	key := c.GetString(keyIdempotencyKey)
	if key == "" {
		return idempotencyScope{}, false
	}
	store, ok := c.Get(keyIdempotencyStore)
	if !ok {
		return idempotencyScope{}, false
	}
	s, ok := store.(idempotency.Store)
	if !ok || s == nil {
		return idempotencyScope{}, false
	}
	return idempotencyScope{key: key, userID: c.GetString(keyIdempotencyUser), store: s}, true
}

// CompleteIdempotency stores a successful response for the request's key, if it has one.
func CompleteIdempotency(c *gin.Context, statusCode int, contentType string, response any) {
	scope, ok := idempotencyFrom(c)
	if !ok {
		return
	}
	if err := scope.store.CompleteKey(c.Request.Context(), scope.key, scope.userID, statusCode, contentType, response); err != nil {
		logger.Warn(c.Request.Context(), "failed to complete idempotency key", "key", scope.key, "error", err)
	}
}

// FailIdempotency stores an error response for the request's key, if it has one.
func FailIdempotency(c *gin.Context, statusCode int, response any) {
	scope, ok := idempotencyFrom(c)
	if !ok {
		return
	}
	if err := scope.store.FailKey(c.Request.Context(), scope.key, scope.userID, statusCode, "application/json", response); err != nil {
		logger.Warn(c.Request.Context(), "failed to fail idempotency key", "key", scope.key, "error", err)
	}
}
