package memory

import (
	"context"
	"math"
	"slices"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/domain/registers/stock"
)

// StockRepo implements stock.Repository.
type StockRepo struct{ store *Store }

// NewStockRepo creates a stock ledger repository.
func NewStockRepo(store *Store) *StockRepo { return &StockRepo{store: store} }

func (r *StockRepo) AdjustStock(ctx context.Context, productID id.ID, change int64) (int64, bool, error) {
	defer r.store.lock(ctx)()
	p, ok := r.store.data.products[productID]
	if change > 0 && ok && p.CurrentStock > math.MaxInt64-change {
		return 0, false, apperror.NewValidation("stock level would overflow").
			WithDetail("product_id", productID.String())
	}
	if !ok || p.CurrentStock+change < 0 {
		return 0, false, nil
	}
	p.CurrentStock += change
	r.store.data.products[productID] = p
	return p.CurrentStock, true, nil
}

func (r *StockRepo) GetStock(ctx context.Context, productID id.ID) (int64, error) {
	defer r.store.lock(ctx)()
	p, ok := r.store.data.products[productID]
	if !ok {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	return p.CurrentStock, nil
}

func (r *StockRepo) InsertMovement(ctx context.Context, m *stock.Movement) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.data.products[m.ProductID]; !ok {
		return apperror.NewNotFound("product", m.ProductID.String())
	}
	r.store.data.movements = append(r.store.data.movements, *m)
	return nil
}

func (r *StockRepo) ListMovements(ctx context.Context, filter stock.MovementFilter) ([]stock.Movement, int64, error) {
	defer r.store.lock(ctx)()
	matched := make([]stock.Movement, 0)
	for _, m := range r.store.data.movements {
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.ReferenceID != nil && m.ReferenceID != *filter.ReferenceID {
			continue
		}
		if filter.Type != nil && m.Type != *filter.Type {
			continue
		}
		matched = append(matched, m)
	}
	slices.SortStableFunc(matched, func(a, b stock.Movement) int { return newestFirst(a.ID, b.ID) })
	return page(matched, filter.Limit, filter.Offset), int64(len(matched)), nil
}

func (r *StockRepo) SumMovements(ctx context.Context, productID id.ID) (int64, int64, error) {
	defer r.store.lock(ctx)()
	var sum, count int64
	for _, m := range r.store.data.movements {
		if m.ProductID == productID {
			sum += m.QuantityChange
			count++
		}
	}
	return sum, count, nil
}
