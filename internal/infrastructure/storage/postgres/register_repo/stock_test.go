package register_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/id"
	"inventory/internal/domain/registers/stock"
)

func TestStockRepo_AdjustQuery_IsGuarded(t *testing.T) {
	repo := NewStockRepo(nil)
	productID := id.New()

	sql, args, err := repo.adjustQuery(productID, -4).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE products SET current_stock = current_stock + $1 WHERE id = $2 AND current_stock + $3 >= 0 RETURNING current_stock",
		sql)
	// uuid.UUID is a driver.Valuer, so squirrel binds its string form.
	assert.Equal(t, []any{int64(-4), productID.String(), int64(-4)}, args)
}

func TestStockRepo_ApplyFilter(t *testing.T) {
	repo := NewStockRepo(nil)
	productID := id.New()
	mtype := stock.MovementPurchase

	q := repo.applyFilter(repo.builder.Select("id").From(stockMovementsTable), stock.MovementFilter{
		ProductID: &productID,
		Type:      &mtype,
	})

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM stock_movements WHERE product_id = $1 AND movement_type = $2", sql)
	assert.Equal(t, []any{productID.String(), mtype}, args)
}
