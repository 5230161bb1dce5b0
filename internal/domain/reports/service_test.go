package reports_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/id"
	"inventory/internal/core/types"
	"inventory/internal/domain/catalogs/category"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/catalogs/vendor"
	"inventory/internal/domain/documents/sale"
	"inventory/internal/domain/registers/stock"
	"inventory/internal/domain/reports"
	"inventory/internal/infrastructure/storage/memory"
)

type fakeCache struct {
	stored      *reports.Dashboard
	gets, sets  int
	invalidated int
	getErr      error
}

func (c *fakeCache) Get(context.Context) (*reports.Dashboard, error) {
	c.gets++
	return c.stored, c.getErr
}

func (c *fakeCache) Set(_ context.Context, d *reports.Dashboard, _ time.Duration) error {
	c.sets++
	c.stored = d
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.invalidated++
	c.stored = nil
	return nil
}

func seed(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	txm := memory.NewTxManager(store)

	cat := category.NewCategory("Bakery")
	require.NoError(t, memory.NewCategoryRepo(store).Create(ctx, cat))
	require.NoError(t, memory.NewVendorRepo(store).Create(ctx, vendor.NewVendor("Mill", "mill@test", "")))

	products := memory.NewProductRepo(store)
	bread := product.NewProduct("Bread", "BR-1", cat.ID, types.MustMoney("2.00"), types.MustMoney("1.00"), 3)
	cake := product.NewProduct("Cake", "CK-1", cat.ID, types.MustMoney("10.00"), types.MustMoney("6.00"), 1)
	require.NoError(t, products.Create(ctx, bread))
	require.NoError(t, products.Create(ctx, cake))

	ledger := stock.NewService(memory.NewStockRepo(store), txm)
	_, err := ledger.ApplyMovement(ctx, bread.ID, 10, stock.MovementPurchase, id.New())
	require.NoError(t, err)

	sales := sale.NewService(memory.NewSaleRepo(store), products, ledger, memory.NewNumerator(store), txm, nil)
	_, err = sales.Create(ctx, []sale.Line{{ProductID: bread.ID, Quantity: 3}})
	require.NoError(t, err)
}

func TestGetDashboard(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	svc := reports.NewService(memory.NewReportRepo(store), nil, 0)

	d, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.TotalProducts)
	assert.Equal(t, int64(1), d.TotalVendors)
	assert.Equal(t, "6.00", d.TotalSalesAmount.StringFixed(2))
	// cake has 0 <= 1, bread has 7 > 3
	assert.Equal(t, int64(1), d.LowStockCount)
	require.Len(t, d.RecentMovements, 2)
	assert.Equal(t, int64(-3), d.RecentMovements[0].QuantityChange)
	assert.Equal(t, "Bread", d.RecentMovements[0].ProductName)
}

func TestGetDashboard_Cache(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	cache := &fakeCache{}
	svc := reports.NewService(memory.NewReportRepo(store), cache, time.Minute)
	ctx := context.Background()

	first, err := svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.sets)

	svc.StockChanged(ctx)
	assert.Equal(t, 1, cache.invalidated)

	_, err = svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.sets)
}

func TestGetDashboard_CacheErrorFallsThrough(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	cache := &fakeCache{getErr: errors.New("redis down")}
	svc := reports.NewService(memory.NewReportRepo(store), cache, time.Minute)

	d, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.TotalProducts)
}

func TestStockRows(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	svc := reports.NewService(memory.NewReportRepo(store), nil, 0)

	rows, err := svc.StockRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "BR-1", rows[0].SKU)
	assert.Equal(t, "Bakery", rows[0].CategoryName)
	assert.Equal(t, int64(7), rows[0].CurrentStock)
	assert.Equal(t, "7.00", rows[0].StockValue().StringFixed(2))
	assert.True(t, rows[1].IsLowStock())
}
