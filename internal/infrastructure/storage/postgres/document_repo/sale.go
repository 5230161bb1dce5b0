package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventory/internal/core/id"
	"inventory/internal/domain"
	"inventory/internal/domain/documents/sale"
	"inventory/internal/infrastructure/storage/postgres"
)

const (
	salesTable     = "sales"
	saleItemsTable = "sale_items"
)

var saleItemColumns = []string{"id", "sale_id", "line_no", "product_id", "quantity", "price"}

var _ sale.Repository = (*SaleRepo)(nil)

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	*BaseDocumentRepo[*sale.Sale]
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*sale.Sale](
			txm,
			salesTable,
			"sale",
			postgres.Columns[sale.Sale](),
			func() *sale.Sale { return &sale.Sale{} },
		),
	}
}

// InsertItem inserts one sale line.
func (r *SaleRepo) InsertItem(ctx context.Context, item *sale.Item) error {
	sql, args, err := r.Builder().
		Insert(saleItemsTable).
		Columns(saleItemColumns...).
		Values(item.ID, item.SaleID, item.LineNo, item.ProductID, item.Quantity, item.Price).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert item: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale item: %w", postgres.MapError(err))
	}
	return nil
}

// UpdateTotal stores the derived total.
func (r *SaleRepo) UpdateTotal(ctx context.Context, s *sale.Sale) error {
	sql, args, err := r.Builder().
		Update(salesTable).
		Set("total_amount", s.TotalAmount).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update sale total: %w", err)
	}
	return nil
}

// GetByID retrieves a sale with its items.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sale.Sale, error) {
	s, err := r.GetHeader(ctx, saleID)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.Builder().
		Select(saleItemColumns...).
		From(saleItemsTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	s.Items = make([]sale.Item, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &s.Items, sql, args...); err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	return s, nil
}

// List retrieves sale headers newest first. Search matches the number.
func (r *SaleRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*sale.Sale], error) {
	filter.Normalize()

	q := r.baseSelect()
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	items, total, err := r.page(ctx, q, filter.Limit, filter.Offset)
	if err != nil {
		return domain.ListResult[*sale.Sale]{}, err
	}
	return domain.ListResult[*sale.Sale]{
		Items:      items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}
