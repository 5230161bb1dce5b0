package memory

import (
	"context"
	"time"

	corenumerator "inventory/internal/core/numerator"
	"inventory/pkg/numerator"
)

// Numerator implements numerator.Generator on the store's sequence map.
// Counters live in the transaction snapshot, so a rolled back document returns its number.
type Numerator struct{ store *Store }

// NewNumerator creates a document number generator.
func NewNumerator(store *Store) *Numerator { return &Numerator{store: store} }

func (n *Numerator) GetNextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time) (string, error) {
	defer n.store.lock(ctx)()
	key := numerator.BuildKey(cfg, period)
	n.store.data.sequences[key]++
	return numerator.FormatNumber(cfg, period, n.store.data.sequences[key]), nil
}
