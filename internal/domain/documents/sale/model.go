// Package sale provides the Sale document: an all-or-nothing consumption of stock
// for a set of line items.
package sale

import (
	"context"

	"inventory/internal/core/apperror"
	"inventory/internal/core/entity"
	"inventory/internal/core/id"
	"inventory/internal/core/types"
)

// Sale is a completed sale. TotalAmount is derived from Items.
type Sale struct {
	entity.BaseDocument

	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	Items []Item `db:"-" json:"items"`
}

// Item is one sold line. Price is the product price at the moment of sale.
type Item struct {
	ID        id.ID       `db:"id" json:"id"`
	SaleID    id.ID       `db:"sale_id" json:"saleId"`
	LineNo    int         `db:"line_no" json:"lineNo"`
	ProductID id.ID       `db:"product_id" json:"productId"`
	Quantity  int64       `db:"quantity" json:"quantity"`
	Price     types.Money `db:"price" json:"price"`
}

// Amount returns quantity x price.
func (i Item) Amount() types.Money {
	return types.LineTotal(i.Quantity, i.Price)
}

// Line is a requested sale line.
type Line struct {
	ProductID id.ID
	Quantity  int64
}

// ValidateLines checks the request before any stock is touched.
func ValidateLines(ctx context.Context, lines []Line) error {
	if len(lines) == 0 {
		return apperror.NewValidation("at least one item is required").WithDetail("field", "items")
	}
	for i, line := range lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity > types.MaxQuantity {
			return apperror.NewValidation("quantity is too large").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1).
				WithDetail("max", types.MaxQuantity)
		}
	}
	return nil
}

// NewSale creates an empty sale with a zero total.
func NewSale(number, createdBy string) *Sale {
	doc := entity.NewBaseDocument()
	doc.Number = number
	doc.CreatedBy = createdBy
	return &Sale{
		BaseDocument: doc,
		TotalAmount:  types.Zero(),
		Items:        make([]Item, 0),
	}
}

// AddItem appends a line with the snapshotted price and recalculates the total.
func (s *Sale) AddItem(productID id.ID, quantity int64, price types.Money) Item {
	item := Item{
		ID:        id.New(),
		SaleID:    s.ID,
		LineNo:    len(s.Items) + 1,
		ProductID: productID,
		Quantity:  quantity,
		Price:     types.RoundMoney(price),
	}
	s.Items = append(s.Items, item)
	s.recalculateTotal()
	return item
}

// recalculateTotal derives TotalAmount from items.
func (s *Sale) recalculateTotal() {
	total := types.Zero()
	for _, item := range s.Items {
		total = total.Add(item.Amount())
	}
	s.TotalAmount = total
}
