package product_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/core/types"
	"inventory/internal/domain/catalogs/category"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/infrastructure/storage/memory"
)

func setup(t *testing.T) (*product.Service, *category.Category) {
	t.Helper()
	store := memory.NewStore()
	txm := memory.NewTxManager(store)
	categories := memory.NewCategoryRepo(store)

	cat := category.NewCategory("Dairy")
	require.NoError(t, categories.Create(context.Background(), cat))

	return product.NewService(memory.NewProductRepo(store), categories, txm), cat
}

func newMilk(categoryID id.ID) *product.Product {
	return product.NewProduct("Milk", "MLK-1", categoryID, types.MustMoney("1.20"), types.MustMoney("0.80"), 10)
}

func TestCreate(t *testing.T) {
	svc, cat := setup(t)
	ctx := context.Background()

	p := newMilk(cat.ID)
	require.NoError(t, svc.Create(ctx, p))

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "MLK-1", got.SKU)
	assert.Equal(t, int64(0), got.CurrentStock)
	assert.Equal(t, 1, got.Version)
	assert.True(t, got.IsLowStock())
}

func TestCreate_Rules(t *testing.T) {
	svc, cat := setup(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, newMilk(cat.ID)))

	t.Run("unknown category", func(t *testing.T) {
		err := svc.Create(ctx, product.NewProduct("Cheese", "CH-1", id.New(), types.MustMoney("1"), types.Zero(), 0))
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("duplicate sku", func(t *testing.T) {
		err := svc.Create(ctx, product.NewProduct("Other", "MLK-1", cat.ID, types.MustMoney("1"), types.Zero(), 0))
		assert.True(t, apperror.IsDuplicate(err))
	})

	t.Run("duplicate name in category", func(t *testing.T) {
		err := svc.Create(ctx, product.NewProduct("Milk", "MLK-2", cat.ID, types.MustMoney("1"), types.Zero(), 0))
		assert.True(t, apperror.IsDuplicate(err))
	})

	t.Run("negative price", func(t *testing.T) {
		err := svc.Create(ctx, product.NewProduct("Cream", "CR-1", cat.ID, types.MustMoney("-1"), types.Zero(), 0))
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})

	t.Run("price above cap", func(t *testing.T) {
		err := svc.Create(ctx, product.NewProduct("Cream", "CR-2", cat.ID, types.MustMoney("1000000000000"), types.Zero(), 0))
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})

	t.Run("missing sku", func(t *testing.T) {
		err := svc.Create(ctx, product.NewProduct("Cream", "  ", cat.ID, types.MustMoney("1"), types.Zero(), 0))
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})
}

func TestUpdate(t *testing.T) {
	svc, cat := setup(t)
	ctx := context.Background()
	p := newMilk(cat.ID)
	require.NoError(t, svc.Create(ctx, p))

	price := types.MustMoney("1.499")
	updated, err := svc.Update(ctx, p.ID, product.Patch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "1.50", updated.Price.StringFixed(2))
	assert.Equal(t, 2, updated.Version)

	stale := 1
	_, err = svc.Update(ctx, p.ID, product.Patch{Price: &price, Version: &stale})
	assert.True(t, apperror.IsCode(err, apperror.CodeConcurrentModification))

	_, err = svc.Update(ctx, p.ID, product.Patch{})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = svc.Update(ctx, id.New(), product.Patch{Price: &price})
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdate_RejectsDuplicateName(t *testing.T) {
	svc, cat := setup(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, newMilk(cat.ID)))

	yogurt := product.NewProduct("Yogurt", "YG-1", cat.ID, types.MustMoney("2"), types.MustMoney("1"), 0)
	require.NoError(t, svc.Create(ctx, yogurt))

	name := "Milk"
	_, err := svc.Update(ctx, yogurt.ID, product.Patch{Name: &name})
	assert.True(t, apperror.IsDuplicate(err))

	got, err := svc.GetByID(ctx, yogurt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yogurt", got.Name)
}
