package sale

import (
	"context"

	"inventory/internal/core/id"
	"inventory/internal/domain"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/registers/stock"
)

// Repository defines storage operations for sales.
type Repository interface {
	// Create inserts the sale header.
	Create(ctx context.Context, s *Sale) error

	// InsertItem inserts one sale line.
	InsertItem(ctx context.Context, item *Item) error

	// UpdateTotal stores the derived total.
	UpdateTotal(ctx context.Context, s *Sale) error

	// GetByID retrieves a sale with its items.
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	// List retrieves sale headers newest first.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Sale], error)
}

// ProductLocker loads a product and locks it for the rest of the transaction.
type ProductLocker interface {
	GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error)
}

// Ledger is the stock ledger operation a sale needs.
type Ledger interface {
	ApplyMovement(ctx context.Context, productID id.ID, change int64, mtype stock.MovementType, referenceID id.ID) (*stock.Movement, error)
}
