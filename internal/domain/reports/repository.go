package reports

import (
	"context"
	"time"
)

// Repository defines report data access interface.
type Repository interface {
	CountProducts(ctx context.Context) (int64, error)
	CountVendors(ctx context.Context) (int64, error)
	SumSalesAmount(ctx context.Context) (string, error)
	CountLowStock(ctx context.Context) (int64, error)
	RecentMovements(ctx context.Context, limit int) ([]RecentMovement, error)

	// StockRows returns every product with its category name, ordered by SKU.
	StockRows(ctx context.Context) ([]StockRow, error)
}

// DashboardCache stores the rendered dashboard. A miss returns (nil, nil).
type DashboardCache interface {
	Get(ctx context.Context) (*Dashboard, error)
	Set(ctx context.Context, d *Dashboard, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
