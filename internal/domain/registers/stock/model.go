// Package stock provides the stock ledger: per-product current stock plus the
// append-only movement log that is its audit trail.
package stock

import (
	"time"

	"inventory/internal/core/id"
)

// MovementType tells which workflow produced a movement.
type MovementType string

const (
	// MovementSale consumes stock (negative change)
	MovementSale MovementType = "sale"
	// MovementPurchase replenishes stock (positive change)
	MovementPurchase MovementType = "purchase"
)

// IsValid reports whether t is a known movement type.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementSale, MovementPurchase:
		return true
	}
	return false
}

// Movement is one row of the ledger. Movements are never updated or deleted.
type Movement struct {
	ID        id.ID `db:"id" json:"id"`
	ProductID id.ID `db:"product_id" json:"productId"`

	// QuantityChange is signed: negative = consumption, positive = replenishment
	QuantityChange int64 `db:"quantity_change" json:"quantityChange"`

	Type MovementType `db:"movement_type" json:"movementType"`

	// ReferenceID is the originating sale or purchase order
	ReferenceID id.ID `db:"reference_id" json:"referenceId"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovement creates a movement with generated id and timestamp.
func NewMovement(productID id.ID, change int64, mtype MovementType, referenceID id.ID) *Movement {
	return &Movement{
		ID:             id.New(),
		ProductID:      productID,
		QuantityChange: change,
		Type:           mtype,
		ReferenceID:    referenceID,
		CreatedAt:      time.Now().UTC(),
	}
}

// MovementFilter narrows ledger reads.
type MovementFilter struct {
	ProductID   *id.ID
	ReferenceID *id.ID
	Type        *MovementType
	Limit       int
	Offset      int
}

// Reconciliation compares a product's stored stock with its movement history.
type Reconciliation struct {
	ProductID     id.ID `json:"productId"`
	CurrentStock  int64 `json:"currentStock"`
	LedgerSum     int64 `json:"ledgerSum"`
	MovementCount int64 `json:"movementCount"`
	Consistent    bool  `json:"consistent"`
}
