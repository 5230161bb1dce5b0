package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"inventory/internal/core/apperror"
	"inventory/internal/core/idempotency"
)

var _ idempotency.Store = (*IdempotencyStore)(nil)

type recordKey struct {
	userID string
	key    string
}

type idempotencyRecord struct {
	operation   string
	requestHash string
	status      idempotency.Status
	statusCode  int
	contentType string
	body        []byte
	updatedAt   time.Time
	expiresAt   time.Time
}

// IdempotencyStore keeps idempotency keys in process memory.
// Keys live outside Store transactions, like the sys_idempotency table.
type IdempotencyStore struct {
	mu      sync.Mutex
	records map[recordKey]*idempotencyRecord
	ttl     time.Duration
	now     func() time.Time
}

// NewIdempotencyStore creates an idempotency store with the given replay ttl.
func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = idempotency.DefaultTTL
	}
	return &IdempotencyStore{
		records: make(map[recordKey]*idempotencyRecord),
		ttl:     ttl,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *IdempotencyStore) AcquireKey(ctx context.Context, key, userID, operation, requestHash string) (*idempotency.Replay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	k := recordKey{userID: userID, key: key}
	rec, ok := s.records[k]
	if !ok || now.After(rec.expiresAt) {
		s.records[k] = &idempotencyRecord{
			operation:   operation,
			requestHash: requestHash,
			status:      idempotency.StatusPending,
			updatedAt:   now,
			expiresAt:   now.Add(s.ttl),
		}
		return nil, nil
	}

	if rec.operation != operation || rec.requestHash != requestHash {
		return nil, apperror.NewIdempotencyMismatch(key).
			WithDetail("stored_operation", rec.operation).
			WithDetail("request_operation", operation)
	}

	switch rec.status {
	case idempotency.StatusSuccess, idempotency.StatusFailed:
		return idempotency.NewReplay(rec.statusCode, rec.contentType, rec.body), nil
	}

	if now.Sub(rec.updatedAt) <= idempotency.StaleAfter {
		return nil, apperror.NewIdempotencyConflict(key)
	}
	rec.updatedAt = now
	return nil, nil
}

func (s *IdempotencyStore) CompleteKey(ctx context.Context, key, userID string, statusCode int, contentType string, response any) error {
	body, err := json.Marshal(response)
	if err != nil {
		return err
	}
	s.finish(recordKey{userID: userID, key: key}, idempotency.StatusSuccess, statusCode, contentType, body)
	return nil
}

func (s *IdempotencyStore) FailKey(ctx context.Context, key, userID string, statusCode int, contentType string, response any) error {
	body, err := json.Marshal(response)
	if err != nil {
		body, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	s.finish(recordKey{userID: userID, key: key}, idempotency.StatusFailed, statusCode, contentType, body)
	return nil
}

func (s *IdempotencyStore) finish(key recordKey, status idempotency.Status, statusCode int, contentType string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return
	}
	rec.status = status
	rec.statusCode = statusCode
	rec.contentType = contentType
	rec.body = body
	rec.updatedAt = s.now()
}
