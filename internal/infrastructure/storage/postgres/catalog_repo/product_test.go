package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/id"
	"inventory/internal/core/types"
	"inventory/internal/domain"
	"inventory/internal/domain/catalogs/product"
)

func TestProductRepo_UpdateQuery_NeverTouchesStock(t *testing.T) {
	repo := NewProductRepo(nil)
	p := product.NewProduct("Widget", "W-1", id.New(), types.MustMoney("9.99"), types.MustMoney("4.50"), 3)
	p.CurrentStock = 42

	sql, args, err := repo.updateQuery(p).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, sql, "current_stock =")
	assert.Contains(t, sql, "version = version + 1")
	assert.Contains(t, sql, "WHERE id = $6 AND version = $7")
	assert.Contains(t, sql, "RETURNING version, updated_at, current_stock")
	assert.Equal(t, p.Version, args[len(args)-1])
}

func TestBaseCatalogRepo_ListQuery_Search(t *testing.T) {
	repo := NewBaseCatalogRepo[any](nil, "test_table", "test", []string{"id", "name"}, func() any { return nil })

	sql, args, err := repo.listQuery(domain.ListFilter{Search: "bolt"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name FROM test_table WHERE name ILIKE $1", sql)
	assert.Equal(t, []any{"%bolt%"}, args)

	sql, _, err = repo.listQuery(domain.ListFilter{}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name FROM test_table", sql)
}

func TestProductRepo_Columns(t *testing.T) {
	repo := NewProductRepo(nil)
	assert.ElementsMatch(t, []string{
		"id", "created_at", "version", "updated_at",
		"name", "sku", "category_id", "price", "cost_price", "current_stock", "reorder_level",
	}, repo.selectCols)
}
