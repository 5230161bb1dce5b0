package dto

import (
	"github.com/shopspring/decimal"

	"inventory/internal/core/id"
	"inventory/internal/domain/catalogs/category"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/catalogs/vendor"
)

// CreateCategoryRequest for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// ToEntity converts to the domain entity.
func (r *CreateCategoryRequest) ToEntity() *category.Category {
	return category.NewCategory(r.Name)
}

// CreateVendorRequest for creating a vendor.
type CreateVendorRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	ContactInfo string `json:"contactInfo" binding:"required,max=255"`
	Address     string `json:"address" binding:"max=1000"`
}

// ToEntity converts to the domain entity.
func (r *CreateVendorRequest) ToEntity() *vendor.Vendor {
	return vendor.NewVendor(r.Name, r.ContactInfo, r.Address)
}

// CreateProductRequest for creating a product. Stock always starts at zero.
type CreateProductRequest struct {
	Name         string           `json:"name" binding:"required,max=255"`
	SKU          string           `json:"sku" binding:"required,max=64"`
	CategoryID   string           `json:"categoryId" binding:"required,uuid"`
	Price        *decimal.Decimal `json:"price" binding:"required,gte=0,lte=999999999999.99"`
	CostPrice    *decimal.Decimal `json:"costPrice" binding:"required,gte=0,lte=999999999999.99"`
	ReorderLevel int64            `json:"reorderLevel" binding:"min=0"`
}

// ToEntity converts to the domain entity.
func (r *CreateProductRequest) ToEntity() (*product.Product, error) {
	categoryID, err := id.Parse(r.CategoryID)
	if err != nil {
		return nil, err
	}
	return product.NewProduct(r.Name, r.SKU, categoryID, *r.Price, *r.CostPrice, r.ReorderLevel), nil
}

// UpdateProductRequest patches a product. Omitted fields stay unchanged.
type UpdateProductRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=255"`
	CategoryID   *string          `json:"categoryId" binding:"omitempty,uuid"`
	Price        *decimal.Decimal `json:"price" binding:"omitempty,gte=0,lte=999999999999.99"`
	CostPrice    *decimal.Decimal `json:"costPrice" binding:"omitempty,gte=0,lte=999999999999.99"`
	ReorderLevel *int64           `json:"reorderLevel" binding:"omitempty,min=0"`
	Version      *int             `json:"version" binding:"omitempty,min=1"`
}

// ToPatch converts to the domain patch.
func (r *UpdateProductRequest) ToPatch() (product.Patch, error) {
	patch := product.Patch{
		Name:         r.Name,
		Price:        r.Price,
		CostPrice:    r.CostPrice,
		ReorderLevel: r.ReorderLevel,
		Version:      r.Version,
	}
	if r.CategoryID != nil {
		categoryID, err := id.Parse(*r.CategoryID)
		if err != nil {
			return product.Patch{}, err
		}
		patch.CategoryID = &categoryID
	}
	return patch, nil
}

// MovementListRequest pages a product's ledger.
type MovementListRequest struct {
	Limit  int `form:"limit" binding:"min=0,max=500"`
	Offset int `form:"offset" binding:"min=0"`
}
