// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/domain/registers/stock"
	"inventory/internal/infrastructure/storage/postgres"
)

const (
	stockMovementsTable = "stock_movements"
	productsTable       = "products"
)

var movementColumns = []string{"id", "product_id", "quantity_change", "movement_type", "reference_id", "created_at"}

var _ stock.Repository = (*StockRepo)(nil)

// StockRepo implements stock.Repository.
type StockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// adjustQuery is a single guarded statement: the row only changes while the result stays >= 0.
func (r *StockRepo) adjustQuery(productID id.ID, change int64) squirrel.UpdateBuilder {
	return r.builder.Update(productsTable).
		Set("current_stock", squirrel.Expr("current_stock + ?", change)).
		Where(squirrel.Eq{"id": productID}).
		Where(squirrel.Expr("current_stock + ? >= 0", change)).
		Suffix("RETURNING current_stock")
}

// AdjustStock adds change to current_stock.
func (r *StockRepo) AdjustStock(ctx context.Context, productID id.ID, change int64) (int64, bool, error) {
	sql, args, err := r.adjustQuery(productID, change).ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build update: %w", err)
	}

	var newStock int64
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&newStock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("adjust stock: %w", postgres.MapError(err))
	}
	return newStock, true, nil
}

// GetStock returns the product's current_stock.
func (r *StockRepo) GetStock(ctx context.Context, productID id.ID) (int64, error) {
	sql, args, err := r.builder.Select("current_stock").
		From(productsTable).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var current int64
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	if err != nil {
		return 0, fmt.Errorf("get stock: %w", err)
	}
	return current, nil
}

// InsertMovement appends a movement row.
func (r *StockRepo) InsertMovement(ctx context.Context, m *stock.Movement) error {
	sql, args, err := r.builder.Insert(stockMovementsTable).
		Columns(movementColumns...).
		Values(m.ID, m.ProductID, m.QuantityChange, m.Type, m.ReferenceID, m.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", postgres.MapError(err))
	}
	return nil
}

func (r *StockRepo) applyFilter(q squirrel.SelectBuilder, filter stock.MovementFilter) squirrel.SelectBuilder {
	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.ReferenceID != nil {
		q = q.Where(squirrel.Eq{"reference_id": *filter.ReferenceID})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"movement_type": *filter.Type})
	}
	return q
}

// ListMovements returns movements newest first and the total matching count.
func (r *StockRepo) ListMovements(ctx context.Context, filter stock.MovementFilter) ([]stock.Movement, int64, error) {
	querier := r.txm.GetQuerier(ctx)

	countSQL, countArgs, err := r.applyFilter(r.builder.Select("COUNT(*)").From(stockMovementsTable), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	q := r.applyFilter(r.builder.Select(movementColumns...).From(stockMovementsTable), filter).
		OrderBy("id DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	movements := make([]stock.Movement, 0)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	return movements, total, nil
}

// SumMovements returns the ledger sum and movement count of a product.
func (r *StockRepo) SumMovements(ctx context.Context, productID id.ID) (int64, int64, error) {
	sql, args, err := r.builder.
		Select("COALESCE(SUM(quantity_change), 0)", "COUNT(*)").
		From(stockMovementsTable).
		Where(squirrel.Eq{"product_id": productID}).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("build query: %w", err)
	}

	var sum, count int64
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&sum, &count); err != nil {
		return 0, 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, count, nil
}
