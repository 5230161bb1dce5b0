package stock

import (
	"context"

	"inventory/internal/core/id"
)

// Repository defines ledger storage. Implementations must run every call on the
// transaction carried by ctx, if any.
type Repository interface {
	// AdjustStock adds change to the product's current_stock in a single statement.
	// A negative change only applies while the result stays >= 0.
	// applied is false when no row matched (missing product or not enough stock).
	AdjustStock(ctx context.Context, productID id.ID, change int64) (newStock int64, applied bool, err error)

	// GetStock returns the product's current_stock, NotFound if the product does not exist.
	GetStock(ctx context.Context, productID id.ID) (int64, error)

	// InsertMovement appends a movement row.
	InsertMovement(ctx context.Context, m *Movement) error

	// ListMovements returns movements newest first and the total matching count.
	ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, int64, error)

	// SumMovements returns the sum of quantity_change and the number of movements of a product.
	SumMovements(ctx context.Context, productID id.ID) (sum int64, count int64, err error)
}
