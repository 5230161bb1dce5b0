package memory

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/apperror"
	"inventory/internal/core/types"
	"inventory/internal/domain/catalogs/category"
	"inventory/internal/domain/catalogs/product"
)

func TestStockRepo_AdjustStockOverflow(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	cat := category.NewCategory("Bulk")
	require.NoError(t, NewCategoryRepo(store).Create(ctx, cat))

	p := product.NewProduct("Rivet", "RV-1", cat.ID, types.MustMoney("0.01"), types.MustMoney("0.01"), 0)
	p.CurrentStock = math.MaxInt64 - 5
	require.NoError(t, NewProductRepo(store).Create(ctx, p))

	repo := NewStockRepo(store)

	_, applied, err := repo.AdjustStock(ctx, p.ID, 10)
	require.Error(t, err)
	assert.False(t, applied)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	level, applied, err := repo.AdjustStock(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, int64(math.MaxInt64), level)

	level, applied, err = repo.AdjustStock(ctx, p.ID, -1)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, int64(math.MaxInt64-1), level)
}
