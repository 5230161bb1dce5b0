// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventory/internal/domain/reports"
	"inventory/internal/infrastructure/storage/postgres"
)

var _ reports.Repository = (*ReportRepo)(nil)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ReportRepo) scalar(ctx context.Context, q squirrel.SelectBuilder, dest any, what string) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build %s query: %w", what, err)
	}
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(dest); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// CountProducts counts all products.
func (r *ReportRepo) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.scalar(ctx, r.builder.Select("COUNT(*)").From("products"), &n, "count products")
	return n, err
}

// CountVendors counts all vendors.
func (r *ReportRepo) CountVendors(ctx context.Context) (int64, error) {
	var n int64
	err := r.scalar(ctx, r.builder.Select("COUNT(*)").From("vendors"), &n, "count vendors")
	return n, err
}

// SumSalesAmount returns the total of all sales as a decimal string.
func (r *ReportRepo) SumSalesAmount(ctx context.Context) (string, error) {
	var total string
	err := r.scalar(ctx, r.builder.Select("COALESCE(SUM(total_amount), 0)::text").From("sales"), &total, "sum sales")
	return total, err
}

// CountLowStock counts products at or below their reorder level.
func (r *ReportRepo) CountLowStock(ctx context.Context) (int64, error) {
	var n int64
	q := r.builder.Select("COUNT(*)").From("products").Where("current_stock <= reorder_level")
	err := r.scalar(ctx, q, &n, "count low stock")
	return n, err
}

func (r *ReportRepo) recentMovementsQuery(limit int) squirrel.SelectBuilder {
	return r.builder.
		Select("m.id", "m.product_id", "p.name AS product_name", "m.quantity_change",
			"m.movement_type", "m.reference_id", "m.created_at").
		From("stock_movements m").
		Join("products p ON p.id = m.product_id").
		OrderBy("m.id DESC").
		Limit(uint64(limit))
}

// RecentMovements returns the newest ledger rows with product names.
func (r *ReportRepo) RecentMovements(ctx context.Context, limit int) ([]reports.RecentMovement, error) {
	sql, args, err := r.recentMovementsQuery(limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]reports.RecentMovement, 0, limit)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("recent movements: %w", err)
	}
	return items, nil
}

// StockRows returns every product with its category name, ordered by SKU.
func (r *ReportRepo) StockRows(ctx context.Context) ([]reports.StockRow, error) {
	sql, args, err := r.builder.
		Select("p.id", "p.sku", "p.name", "c.name AS category_name", "p.price", "p.cost_price",
			"p.current_stock", "p.reorder_level").
		From("products p").
		Join("categories c ON c.id = p.category_id").
		OrderBy("p.sku").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows := make([]reports.StockRow, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("stock rows: %w", err)
	}
	return rows, nil
}
