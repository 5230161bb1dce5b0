package memory

import (
	"context"
	"slices"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/domain"
	"inventory/internal/domain/documents/purchase_order"
	"inventory/internal/domain/documents/sale"
)

// --- sales ---

// SaleRepo implements sale.Repository.
type SaleRepo struct{ store *Store }

// NewSaleRepo creates a sale repository.
func NewSaleRepo(store *Store) *SaleRepo { return &SaleRepo{store: store} }

func (r *SaleRepo) Create(ctx context.Context, s *sale.Sale) error {
	defer r.store.lock(ctx)()
	header := *s
	header.Items = nil
	r.store.data.sales[s.ID] = header
	return nil
}

func (r *SaleRepo) InsertItem(ctx context.Context, item *sale.Item) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.data.sales[item.SaleID]; !ok {
		return apperror.NewNotFound("sale", item.SaleID.String())
	}
	if _, ok := r.store.data.products[item.ProductID]; !ok {
		return apperror.NewNotFound("product", item.ProductID.String())
	}
	r.store.data.saleItems[item.SaleID] = append(r.store.data.saleItems[item.SaleID], *item)
	return nil
}

func (r *SaleRepo) UpdateTotal(ctx context.Context, s *sale.Sale) error {
	defer r.store.lock(ctx)()
	header, ok := r.store.data.sales[s.ID]
	if !ok {
		return apperror.NewNotFound("sale", s.ID.String())
	}
	header.TotalAmount = s.TotalAmount
	r.store.data.sales[s.ID] = header
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sale.Sale, error) {
	defer r.store.lock(ctx)()
	s, ok := r.store.data.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID.String())
	}
	s.Items = slices.Clone(r.store.data.saleItems[saleID])
	if s.Items == nil {
		s.Items = []sale.Item{}
	}
	return &s, nil
}

func (r *SaleRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*sale.Sale], error) {
	defer r.store.lock(ctx)()
	items := make([]*sale.Sale, 0, len(r.store.data.sales))
	for _, s := range r.store.data.sales {
		if matchesSearch(s.Number, filter.Search) {
			s.Items = []sale.Item{}
			items = append(items, &s)
		}
	}
	slices.SortFunc(items, func(a, b *sale.Sale) int { return newestFirst(a.ID, b.ID) })
	return domain.ListResult[*sale.Sale]{
		Items:      page(items, filter.Limit, filter.Offset),
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// --- purchase orders ---

// PurchaseOrderRepo implements purchase_order.Repository.
type PurchaseOrderRepo struct{ store *Store }

// NewPurchaseOrderRepo creates a purchase order repository.
func NewPurchaseOrderRepo(store *Store) *PurchaseOrderRepo { return &PurchaseOrderRepo{store: store} }

func (r *PurchaseOrderRepo) Create(ctx context.Context, po *purchase_order.PurchaseOrder) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.data.vendors[po.VendorID]; !ok {
		return apperror.NewNotFound("vendor", po.VendorID.String())
	}
	for _, item := range po.Items {
		if _, ok := r.store.data.products[item.ProductID]; !ok {
			return apperror.NewNotFound("product", item.ProductID.String())
		}
	}
	stored := *po
	stored.Items = slices.Clone(po.Items)
	r.store.data.orders[po.ID] = stored
	return nil
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, orderID id.ID) (*purchase_order.PurchaseOrder, error) {
	defer r.store.lock(ctx)()
	po, ok := r.store.data.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("purchase order", orderID.String())
	}
	po.Items = slices.Clone(po.Items)
	return &po, nil
}

// GetForUpdate is GetByID: transactions already hold the store exclusively.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, orderID id.ID) (*purchase_order.PurchaseOrder, error) {
	return r.GetByID(ctx, orderID)
}

func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, po *purchase_order.PurchaseOrder) error {
	defer r.store.lock(ctx)()
	stored, ok := r.store.data.orders[po.ID]
	if !ok {
		return apperror.NewNotFound("purchase order", po.ID.String())
	}
	stored.Status = po.Status
	stored.ApprovedAt = po.ApprovedAt
	stored.ReceivedAt = po.ReceivedAt
	r.store.data.orders[po.ID] = stored
	return nil
}

func (r *PurchaseOrderRepo) List(ctx context.Context, filter purchase_order.ListFilter) (purchase_order.ListResult, error) {
	defer r.store.lock(ctx)()
	items := make([]*purchase_order.PurchaseOrder, 0, len(r.store.data.orders))
	for _, po := range r.store.data.orders {
		if filter.Status != nil && po.Status != *filter.Status {
			continue
		}
		if filter.VendorID != nil && po.VendorID != *filter.VendorID {
			continue
		}
		po.Items = []purchase_order.Item{}
		items = append(items, &po)
	}
	slices.SortFunc(items, func(a, b *purchase_order.PurchaseOrder) int { return newestFirst(a.ID, b.ID) })
	return purchase_order.ListResult{
		Items:      page(items, filter.Limit, filter.Offset),
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}
