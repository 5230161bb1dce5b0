package memory

import (
	"context"
	"slices"
	"strings"

	"inventory/internal/core/types"
	"inventory/internal/domain/registers/stock"
	"inventory/internal/domain/reports"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct{ store *Store }

// NewReportRepo creates a report repository.
func NewReportRepo(store *Store) *ReportRepo { return &ReportRepo{store: store} }

func (r *ReportRepo) CountProducts(ctx context.Context) (int64, error) {
	defer r.store.lock(ctx)()
	return int64(len(r.store.data.products)), nil
}

func (r *ReportRepo) CountVendors(ctx context.Context) (int64, error) {
	defer r.store.lock(ctx)()
	return int64(len(r.store.data.vendors)), nil
}

func (r *ReportRepo) SumSalesAmount(ctx context.Context) (string, error) {
	defer r.store.lock(ctx)()
	total := types.Zero()
	for _, s := range r.store.data.sales {
		total = total.Add(s.TotalAmount)
	}
	return total.StringFixed(types.MoneyPlaces), nil
}

func (r *ReportRepo) CountLowStock(ctx context.Context) (int64, error) {
	defer r.store.lock(ctx)()
	var n int64
	for _, p := range r.store.data.products {
		if p.IsLowStock() {
			n++
		}
	}
	return n, nil
}

func (r *ReportRepo) RecentMovements(ctx context.Context, limit int) ([]reports.RecentMovement, error) {
	defer r.store.lock(ctx)()
	movements := slices.Clone(r.store.data.movements)
	slices.SortStableFunc(movements, func(a, b stock.Movement) int { return newestFirst(a.ID, b.ID) })

	out := make([]reports.RecentMovement, 0, limit)
	for _, m := range page(movements, limit, 0) {
		out = append(out, reports.RecentMovement{
			ID:             m.ID,
			ProductID:      m.ProductID,
			ProductName:    r.store.data.products[m.ProductID].Name,
			QuantityChange: m.QuantityChange,
			Type:           m.Type,
			ReferenceID:    m.ReferenceID,
			CreatedAt:      m.CreatedAt,
		})
	}
	return out, nil
}

func (r *ReportRepo) StockRows(ctx context.Context) ([]reports.StockRow, error) {
	defer r.store.lock(ctx)()
	rows := make([]reports.StockRow, 0, len(r.store.data.products))
	for _, p := range r.store.data.products {
		rows = append(rows, reports.StockRow{
			ProductID:    p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			CategoryName: r.store.data.categories[p.CategoryID].Name,
			Price:        p.Price,
			CostPrice:    p.CostPrice,
			CurrentStock: p.CurrentStock,
			ReorderLevel: p.ReorderLevel,
		})
	}
	slices.SortFunc(rows, func(a, b reports.StockRow) int { return strings.Compare(a.SKU, b.SKU) })
	return rows, nil
}
