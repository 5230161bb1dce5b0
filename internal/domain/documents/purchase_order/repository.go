package purchase_order

import (
	"context"

	"inventory/internal/core/id"
	"inventory/internal/domain/registers/stock"
)

// ListFilter narrows purchase order listing.
type ListFilter struct {
	Status   *Status
	VendorID *id.ID
	Limit    int
	Offset   int
}

// ListResult is a page of orders (headers only).
type ListResult struct {
	Items      []*PurchaseOrder `json:"items"`
	TotalCount int64            `json:"totalCount"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}

// Repository defines storage operations for purchase orders.
type Repository interface {
	// Create inserts the header and all items.
	Create(ctx context.Context, po *PurchaseOrder) error

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, orderID id.ID) (*PurchaseOrder, error)

	// GetForUpdate retrieves an order with its items and locks the header row.
	GetForUpdate(ctx context.Context, orderID id.ID) (*PurchaseOrder, error)

	// UpdateStatus stores status, approved_at and received_at.
	UpdateStatus(ctx context.Context, po *PurchaseOrder) error

	// List retrieves order headers newest first.
	List(ctx context.Context, filter ListFilter) (ListResult, error)
}

// VendorChecker verifies vendor references.
type VendorChecker interface {
	Exists(ctx context.Context, vendorID id.ID) (bool, error)
}

// ProductChecker verifies product references.
type ProductChecker interface {
	Exists(ctx context.Context, productID id.ID) (bool, error)
}

// Ledger is the stock ledger operation receiving needs.
type Ledger interface {
	ApplyMovement(ctx context.Context, productID id.ID, change int64, mtype stock.MovementType, referenceID id.ID) (*stock.Movement, error)
}
