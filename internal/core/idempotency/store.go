// Package idempotency defines the contract between the HTTP idempotency middleware and its storage.
package idempotency

import (
	"context"
	"net/http"
	"time"
)

// Status represents the state of an idempotent operation.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// DefaultTTL is how long a completed key replays its response.
const DefaultTTL = 24 * time.Hour

// StaleAfter is how long a pending key may sit untouched before another request reclaims it.
const StaleAfter = time.Minute

// Replay is the cached HTTP response for a completed key.
type Replay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Store manages idempotency keys. A key is scoped to the user that sent it,
// so two users may reuse the same key independently.
//
// AcquireKey returns:
//   - (nil, nil) if the key was acquired and the request should run
//   - (replay, nil) if the operation already finished
//   - (nil, IDEMPOTENCY_CONFLICT) if another request holds the key
//   - (nil, IDEMPOTENCY_KEY_MISMATCH) if the key was used for a different request
type Store interface {
	AcquireKey(ctx context.Context, key, userID, operation, requestHash string) (*Replay, error)
	CompleteKey(ctx context.Context, key, userID string, statusCode int, contentType string, response any) error
	FailKey(ctx context.Context, key, userID string, statusCode int, contentType string, response any) error
}

// NewReplay fills defaults for records stored without status or content type.
func NewReplay(status int, contentType string, body []byte) *Replay {
	if status == 0 {
		status = http.StatusOK
	}
	if contentType == "" {
		contentType = "application/json"
	}
	return &Replay{StatusCode: status, ContentType: contentType, Body: body}
}
