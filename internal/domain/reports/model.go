// Package reports provides the dashboard summary and the stock sheet export.
package reports

import (
	"time"

	"inventory/internal/core/id"
	"inventory/internal/core/types"
	"inventory/internal/domain/registers/stock"
)

// RecentMovementsLimit is how many movements the dashboard shows.
const RecentMovementsLimit = 5

// Dashboard is the admin summary.
type Dashboard struct {
	TotalProducts    int64            `json:"totalProducts"`
	TotalVendors     int64            `json:"totalVendors"`
	TotalSalesAmount types.Money      `json:"totalSalesAmount"`
	LowStockCount    int64            `json:"lowStockCount"`
	RecentMovements  []RecentMovement `json:"recentMovements"`
	GeneratedAt      time.Time        `json:"generatedAt"`
}

// RecentMovement is a ledger row joined with its product name.
type RecentMovement struct {
	ID             id.ID              `db:"id" json:"id"`
	ProductID      id.ID              `db:"product_id" json:"productId"`
	ProductName    string             `db:"product_name" json:"productName"`
	QuantityChange int64              `db:"quantity_change" json:"quantityChange"`
	Type           stock.MovementType `db:"movement_type" json:"movementType"`
	ReferenceID    id.ID              `db:"reference_id" json:"referenceId"`
	CreatedAt      time.Time          `db:"created_at" json:"createdAt"`
}

// StockRow is one line of the stock export.
type StockRow struct {
	ProductID    id.ID       `db:"id"`
	SKU          string      `db:"sku"`
	Name         string      `db:"name"`
	CategoryName string      `db:"category_name"`
	Price        types.Money `db:"price"`
	CostPrice    types.Money `db:"cost_price"`
	CurrentStock int64       `db:"current_stock"`
	ReorderLevel int64       `db:"reorder_level"`
}

// IsLowStock reports whether the row is at or below its reorder level.
func (r StockRow) IsLowStock() bool {
	return r.CurrentStock <= r.ReorderLevel
}

// StockValue returns current stock valued at cost.
func (r StockRow) StockValue() types.Money {
	return types.LineTotal(r.CurrentStock, r.CostPrice)
}
