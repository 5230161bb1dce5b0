package dto

import (
	"github.com/shopspring/decimal"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/domain/documents/purchase_order"
	"inventory/internal/domain/documents/sale"
)

// --- Sale ---

// SaleItemRequest is one requested sale line.
type SaleItemRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0,max=1000000000"`
}

// CreateSaleRequest for creating a sale.
type CreateSaleRequest struct {
	Items []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToLines converts to domain sale lines.
func (r *CreateSaleRequest) ToLines() ([]sale.Line, error) {
	lines := make([]sale.Line, 0, len(r.Items))
	for i, item := range r.Items {
		productID, err := parseLineID(item.ProductID, i)
		if err != nil {
			return nil, err
		}
		lines = append(lines, sale.Line{ProductID: productID, Quantity: item.Quantity})
	}
	return lines, nil
}

// --- Purchase Order ---

// PurchaseOrderItemRequest is one requested order line.
type PurchaseOrderItemRequest struct {
	ProductID string           `json:"productId" binding:"required,uuid"`
	Quantity  int64            `json:"quantity" binding:"required,gt=0,max=1000000000"`
	UnitPrice *decimal.Decimal `json:"unitPrice" binding:"required,gte=0,lte=999999999999.99"`
}

// CreatePurchaseOrderRequest for creating a purchase order.
type CreatePurchaseOrderRequest struct {
	VendorID string                     `json:"vendorId" binding:"required,uuid"`
	Items    []PurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToLines converts to domain order lines.
func (r *CreatePurchaseOrderRequest) ToLines() (id.ID, []purchase_order.Line, error) {
	vendorID, err := id.Parse(r.VendorID)
	if err != nil {
		return id.ID{}, nil, apperror.NewValidation("invalid vendorId").WithDetail("field", "vendorId")
	}
	lines := make([]purchase_order.Line, 0, len(r.Items))
	for i, item := range r.Items {
		productID, err := parseLineID(item.ProductID, i)
		if err != nil {
			return id.ID{}, nil, err
		}
		lines = append(lines, purchase_order.Line{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitPrice: *item.UnitPrice,
		})
	}
	return vendorID, lines, nil
}

// PurchaseOrderListRequest filters the order list.
type PurchaseOrderListRequest struct {
	Limit    int    `form:"limit" binding:"min=0,max=500"`
	Offset   int    `form:"offset" binding:"min=0"`
	Status   string `form:"status" binding:"omitempty,oneof=Pending Approved Completed"`
	VendorID string `form:"vendorId" binding:"omitempty,uuid"`
}

// ToFilter converts to the domain filter.
func (r PurchaseOrderListRequest) ToFilter() (purchase_order.ListFilter, error) {
	f := purchase_order.ListFilter{Limit: r.Limit, Offset: r.Offset}
	if r.Status != "" {
		status := purchase_order.Status(r.Status)
		f.Status = &status
	}
	if r.VendorID != "" {
		vendorID, err := id.Parse(r.VendorID)
		if err != nil {
			return purchase_order.ListFilter{}, apperror.NewValidation("invalid vendorId").WithDetail("field", "vendorId")
		}
		f.VendorID = &vendorID
	}
	return f, nil
}

func parseLineID(raw string, index int) (id.ID, error) {
	productID, err := id.Parse(raw)
	if err != nil {
		return id.ID{}, apperror.NewValidation("invalid productId").
			WithDetail("field", "productId").
			WithDetail("lineNo", index+1)
	}
	return productID, nil
}
