// Package product provides the Product catalog.
// current_stock is owned by the stock ledger: nothing in this package changes it.
package product

import (
	"context"
	"strings"

	"inventory/internal/core/apperror"
	"inventory/internal/core/entity"
	"inventory/internal/core/id"
	"inventory/internal/core/types"
)

// Product is a stocked item.
type Product struct {
	entity.BaseEntity
	entity.Versioned

	Name       string `db:"name" json:"name"`
	SKU        string `db:"sku" json:"sku"`
	CategoryID id.ID  `db:"category_id" json:"categoryId"`

	// Price is the unit sale price, snapshotted onto sale items
	Price types.Money `db:"price" json:"price"`

	// CostPrice is the unit cost
	CostPrice types.Money `db:"cost_price" json:"costPrice"`

	// CurrentStock is never negative
	CurrentStock int64 `db:"current_stock" json:"currentStock"`

	// ReorderLevel is the low-stock threshold (stock <= level is low)
	ReorderLevel int64 `db:"reorder_level" json:"reorderLevel"`
}

// NewProduct creates a product with zero stock.
func NewProduct(name, sku string, categoryID id.ID, price, costPrice types.Money, reorderLevel int64) *Product {
	p := &Product{
		BaseEntity:   entity.NewBaseEntity(),
		Name:         strings.TrimSpace(name),
		SKU:          strings.TrimSpace(sku),
		CategoryID:   categoryID,
		Price:        types.RoundMoney(price),
		CostPrice:    types.RoundMoney(costPrice),
		ReorderLevel: reorderLevel,
	}
	p.Version = 1
	p.UpdatedAt = p.CreatedAt
	return p
}

// Validate checks product invariants.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if p.SKU == "" {
		return apperror.NewValidation("sku is required").WithDetail("field", "sku")
	}
	if id.IsNil(p.CategoryID) {
		return apperror.NewValidation("category is required").WithDetail("field", "categoryId")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("price must not be negative").WithDetail("field", "price")
	}
	if p.CostPrice.IsNegative() {
		return apperror.NewValidation("cost price must not be negative").WithDetail("field", "costPrice")
	}
	if types.ExceedsMaxAmount(p.Price) || types.ExceedsMaxAmount(p.CostPrice) {
		return apperror.NewValidation("price is too large").WithDetail("max", types.MaxAmount.StringFixed(2))
	}
	if p.ReorderLevel < 0 {
		return apperror.NewValidation("reorder level must not be negative").WithDetail("field", "reorderLevel")
	}
	if p.CurrentStock < 0 {
		return apperror.NewValidation("current stock must not be negative").WithDetail("field", "currentStock")
	}
	return nil
}

// IsLowStock reports whether stock is at or below the reorder level.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.ReorderLevel
}

// Patch holds the mutable fields of a product. Nil fields are left unchanged.
type Patch struct {
	Name         *string
	Price        *types.Money
	CostPrice    *types.Money
	ReorderLevel *int64
	CategoryID   *id.ID

	// Version must match the stored version when set
	Version *int
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.CostPrice == nil && p.ReorderLevel == nil && p.CategoryID == nil
}

// Apply copies the set fields onto the product.
func (p Patch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = strings.TrimSpace(*p.Name)
	}
	if p.Price != nil {
		prod.Price = types.RoundMoney(*p.Price)
	}
	if p.CostPrice != nil {
		prod.CostPrice = types.RoundMoney(*p.CostPrice)
	}
	if p.ReorderLevel != nil {
		prod.ReorderLevel = *p.ReorderLevel
	}
	if p.CategoryID != nil {
		prod.CategoryID = *p.CategoryID
	}
}
