// Package purchase_order provides the PurchaseOrder document and its
// Pending -> Approved -> Completed workflow.
package purchase_order

import (
	"context"
	"time"

	"inventory/internal/core/apperror"
	"inventory/internal/core/entity"
	"inventory/internal/core/id"
	"inventory/internal/core/types"
)

// Status is the workflow state of a purchase order.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusCompleted Status = "Completed"
)

// transitions lists the only allowed moves. There are no backward transitions.
var transitions = map[Status]Status{
	StatusPending:  StatusApproved,
	StatusApproved: StatusCompleted,
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the order may move from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	allowed, ok := transitions[s]
	return ok && allowed == next
}

// PurchaseOrder orders products from a vendor. Stock moves only on receive.
type PurchaseOrder struct {
	entity.BaseDocument

	VendorID    id.ID       `db:"vendor_id" json:"vendorId"`
	Status      Status      `db:"status" json:"status"`
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
	ApprovedAt  *time.Time  `db:"approved_at" json:"approvedAt,omitempty"`
	ReceivedAt  *time.Time  `db:"received_at" json:"receivedAt,omitempty"`

	Items []Item `db:"-" json:"items"`
}

// Item is one ordered line. UnitPrice is the vendor's supply price.
type Item struct {
	ID              id.ID       `db:"id" json:"id"`
	PurchaseOrderID id.ID       `db:"purchase_order_id" json:"purchaseOrderId"`
	LineNo          int         `db:"line_no" json:"lineNo"`
	ProductID       id.ID       `db:"product_id" json:"productId"`
	Quantity        int64       `db:"quantity" json:"quantity"`
	UnitPrice       types.Money `db:"unit_price" json:"unitPrice"`
}

// Amount returns quantity x unit price.
func (i Item) Amount() types.Money {
	return types.LineTotal(i.Quantity, i.UnitPrice)
}

// NewPurchaseOrder creates a pending order without items.
func NewPurchaseOrder(number, createdBy string, vendorID id.ID) *PurchaseOrder {
	doc := entity.NewBaseDocument()
	doc.Number = number
	doc.CreatedBy = createdBy
	return &PurchaseOrder{
		BaseDocument: doc,
		VendorID:     vendorID,
		Status:       StatusPending,
		TotalAmount:  types.Zero(),
		Items:        make([]Item, 0),
	}
}

// AddItem appends a line and recalculates the total.
func (po *PurchaseOrder) AddItem(productID id.ID, quantity int64, unitPrice types.Money) {
	po.Items = append(po.Items, Item{
		ID:              id.New(),
		PurchaseOrderID: po.ID,
		LineNo:          len(po.Items) + 1,
		ProductID:       productID,
		Quantity:        quantity,
		UnitPrice:       types.RoundMoney(unitPrice),
	})
	po.recalculateTotal()
}

func (po *PurchaseOrder) recalculateTotal() {
	total := types.Zero()
	for _, item := range po.Items {
		total = total.Add(item.Amount())
	}
	po.TotalAmount = total
}

// Validate implements entity.Validatable.
func (po *PurchaseOrder) Validate(ctx context.Context) error {
	if id.IsNil(po.VendorID) {
		return apperror.NewValidation("vendor is required").WithDetail("field", "vendorId")
	}
	if len(po.Items) == 0 {
		return apperror.NewValidation("at least one item is required").WithDetail("field", "items")
	}
	for _, item := range po.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", item.LineNo)
		}
		if item.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", item.LineNo)
		}
		if item.Quantity > types.MaxQuantity {
			return apperror.NewValidation("quantity is too large").
				WithDetail("field", "items").
				WithDetail("lineNo", item.LineNo).
				WithDetail("max", types.MaxQuantity)
		}
		if item.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price must not be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", item.LineNo)
		}
		if types.ExceedsMaxAmount(item.UnitPrice) {
			return apperror.NewValidation("unit price is too large").
				WithDetail("field", "items").
				WithDetail("lineNo", item.LineNo)
		}
	}
	if types.ExceedsMaxAmount(po.TotalAmount) {
		return apperror.NewValidation("order total is too large").
			WithDetail("field", "items").
			WithDetail("total", po.TotalAmount.StringFixed(2))
	}
	return nil
}

// transition moves the order to next or fails with INVALID_STATE_TRANSITION.
func (po *PurchaseOrder) transition(next Status) error {
	if !po.Status.CanTransitionTo(next) {
		return apperror.NewInvalidStateTransition("purchase order", string(po.Status), string(next)).
			WithDetail("id", po.ID.String())
	}
	po.Status = next
	return nil
}

// Approve moves a pending order to Approved.
func (po *PurchaseOrder) Approve(at time.Time) error {
	if err := po.transition(StatusApproved); err != nil {
		return err
	}
	po.ApprovedAt = &at
	return nil
}

// Complete moves an approved order to Completed.
func (po *PurchaseOrder) Complete(at time.Time) error {
	if err := po.transition(StatusCompleted); err != nil {
		return err
	}
	po.ReceivedAt = &at
	return nil
}
