package numerator

import (
	"context"
	"time"
)

// Generator generates sequential document numbers.
// Implementations live in the infrastructure layer.
type Generator interface {
	// GetNextNumber generates the next document number for period.
	// Pattern: PREFIX-YEAR-XXXXX (e.g., SL-2026-00001)
	// Called inside the document's transaction the sequence is gapless:
	// a rollback returns the number.
	GetNextNumber(ctx context.Context, cfg Config, period time.Time) (string, error)
}
