package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/domain/documents/purchase_order"
	"inventory/internal/infrastructure/storage/postgres"
)

const (
	purchaseOrdersTable     = "purchase_orders"
	purchaseOrderItemsTable = "purchase_order_items"
)

var purchaseOrderItemColumns = []string{"id", "purchase_order_id", "line_no", "product_id", "quantity", "unit_price"}

var _ purchase_order.Repository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implements purchase_order.Repository.
type PurchaseOrderRepo struct {
	*BaseDocumentRepo[*purchase_order.PurchaseOrder]
}

// NewPurchaseOrderRepo creates a new purchase order repository.
func NewPurchaseOrderRepo(txm *postgres.TxManager) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*purchase_order.PurchaseOrder](
			txm,
			purchaseOrdersTable,
			"purchase order",
			postgres.Columns[purchase_order.PurchaseOrder](),
			func() *purchase_order.PurchaseOrder { return &purchase_order.PurchaseOrder{} },
		),
	}
}

// Create inserts the header and all items.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *purchase_order.PurchaseOrder) error {
	if err := r.BaseDocumentRepo.Create(ctx, po); err != nil {
		return err
	}
	if len(po.Items) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(purchaseOrderItemsTable).
		Columns(purchaseOrderItemColumns...)
	for _, item := range po.Items {
		q = q.Values(item.ID, po.ID, item.LineNo, item.ProductID, item.Quantity, item.UnitPrice)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert purchase order items: %w", postgres.MapError(err))
	}
	return nil
}

func (r *PurchaseOrderRepo) loadItems(ctx context.Context, po *purchase_order.PurchaseOrder) error {
	sql, args, err := r.Builder().
		Select(purchaseOrderItemColumns...).
		From(purchaseOrderItemsTable).
		Where(squirrel.Eq{"purchase_order_id": po.ID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	po.Items = make([]purchase_order.Item, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &po.Items, sql, args...); err != nil {
		return fmt.Errorf("get purchase order items: %w", err)
	}
	return nil
}

// GetByID retrieves an order with its items.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, orderID id.ID) (*purchase_order.PurchaseOrder, error) {
	po, err := r.GetHeader(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// GetForUpdate retrieves an order with its items and locks the header row.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, orderID id.ID) (*purchase_order.PurchaseOrder, error) {
	po, err := r.GetHeaderForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// UpdateStatus stores status, approved_at and received_at.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, po *purchase_order.PurchaseOrder) error {
	sql, args, err := r.Builder().
		Update(purchaseOrdersTable).
		Set("status", po.Status).
		Set("approved_at", po.ApprovedAt).
		Set("received_at", po.ReceivedAt).
		Where(squirrel.Eq{"id": po.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", postgres.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("purchase order", po.ID.String())
	}
	return nil
}

func (r *PurchaseOrderRepo) listQuery(filter purchase_order.ListFilter) squirrel.SelectBuilder {
	q := r.baseSelect()
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.VendorID != nil {
		q = q.Where(squirrel.Eq{"vendor_id": *filter.VendorID})
	}
	return q
}

// List retrieves order headers newest first.
func (r *PurchaseOrderRepo) List(ctx context.Context, filter purchase_order.ListFilter) (purchase_order.ListResult, error) {
	items, total, err := r.page(ctx, r.listQuery(filter), filter.Limit, filter.Offset)
	if err != nil {
		return purchase_order.ListResult{}, err
	}
	return purchase_order.ListResult{
		Items:      items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}
