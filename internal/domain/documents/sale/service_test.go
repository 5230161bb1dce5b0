package sale_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/apperror"
	appctx "inventory/internal/core/context"
	"inventory/internal/core/id"
	"inventory/internal/core/types"
	"inventory/internal/domain/catalogs/category"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/documents/sale"
	"inventory/internal/domain/registers/stock"
	"inventory/internal/infrastructure/storage/memory"
)

type countingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *countingNotifier) StockChanged(context.Context) {
	n.mu.Lock()
	n.calls++
	n.mu.Unlock()
}

type fixture struct {
	ctx      context.Context
	products *product.Service
	ledger   *stock.Service
	sales    *sale.Service
	notifier *countingNotifier
	category *category.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	txm := memory.NewTxManager(store)
	productRepo := memory.NewProductRepo(store)
	categoryRepo := memory.NewCategoryRepo(store)

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "u-1", Role: "staff"})

	cat := category.NewCategory("Beverages")
	require.NoError(t, categoryRepo.Create(ctx, cat))

	ledger := stock.NewService(memory.NewStockRepo(store), txm)
	notifier := &countingNotifier{}

	return &fixture{
		ctx:      ctx,
		products: product.NewService(productRepo, categoryRepo, txm),
		ledger:   ledger,
		sales: sale.NewService(
			memory.NewSaleRepo(store), productRepo, ledger, memory.NewNumerator(store), txm, notifier,
		),
		notifier: notifier,
		category: cat,
	}
}

func (f *fixture) addProduct(t *testing.T, sku, price string, qty int64) *product.Product {
	t.Helper()
	p := product.NewProduct("Product "+sku, sku, f.category.ID, types.MustMoney(price), types.MustMoney("1.00"), 1)
	require.NoError(t, f.products.Create(f.ctx, p))
	if qty > 0 {
		_, err := f.ledger.ApplyMovement(f.ctx, p.ID, qty, stock.MovementPurchase, id.New())
		require.NoError(t, err)
	}
	return p
}

func (f *fixture) stockOf(t *testing.T, productID id.ID) int64 {
	t.Helper()
	p, err := f.products.GetByID(f.ctx, productID)
	require.NoError(t, err)
	return p.CurrentStock
}

func (f *fixture) movementsOf(t *testing.T, ref id.ID) []stock.Movement {
	t.Helper()
	ms, _, err := f.ledger.ListMovements(f.ctx, stock.MovementFilter{ReferenceID: &ref})
	require.NoError(t, err)
	return ms
}

func TestCreate_DecrementsStockAndRecordsMovement(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "COLA", "2.50", 10)

	s, err := f.sales.Create(f.ctx, []sale.Line{{ProductID: p.ID, Quantity: 4}})
	require.NoError(t, err)

	assert.Equal(t, int64(6), f.stockOf(t, p.ID))
	require.Len(t, s.Items, 1)
	assert.True(t, types.MustMoney("2.50").Equal(s.Items[0].Price))
	assert.True(t, types.MustMoney("10.00").Equal(s.TotalAmount))
	assert.Equal(t, "u-1", s.CreatedBy)

	ms := f.movementsOf(t, s.ID)
	require.Len(t, ms, 1)
	assert.Equal(t, int64(-4), ms[0].QuantityChange)
	assert.Equal(t, stock.MovementSale, ms[0].Type)
	assert.Equal(t, p.ID, ms[0].ProductID)
	assert.Equal(t, 1, f.notifier.calls)

	// second sale larger than the remaining stock
	_, err = f.sales.Create(f.ctx, []sale.Line{{ProductID: p.ID, Quantity: 10}})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, int64(6), f.stockOf(t, p.ID))
	assert.Equal(t, 1, f.notifier.calls)
}

func TestCreate_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	a := f.addProduct(t, "A", "1.00", 5)
	b := f.addProduct(t, "B", "1.00", 1)

	_, err := f.sales.Create(f.ctx, []sale.Line{
		{ProductID: a.ID, Quantity: 3},
		{ProductID: b.ID, Quantity: 2},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 2, appErr.Details["lineNo"])
	assert.Equal(t, "B", appErr.Details["sku"])

	assert.Equal(t, int64(5), f.stockOf(t, a.ID))
	assert.Equal(t, int64(1), f.stockOf(t, b.ID))

	list, err := f.sales.List(f.ctx, listAll())
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)

	rec, err := f.ledger.Reconcile(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.MovementCount)
	assert.True(t, rec.Consistent)
}

func TestCreate_SameProductTwiceChecksCumulativeStock(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "DUP", "1.00", 5)

	_, err := f.sales.Create(f.ctx, []sale.Line{
		{ProductID: p.ID, Quantity: 3},
		{ProductID: p.ID, Quantity: 3},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, int64(5), f.stockOf(t, p.ID))
}

func TestCreate_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "REAL", "1.00", 5)

	_, err := f.sales.Create(f.ctx, []sale.Line{
		{ProductID: p.ID, Quantity: 1},
		{ProductID: id.New(), Quantity: 1},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, int64(5), f.stockOf(t, p.ID))
}

func TestCreate_InvalidLines(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "X", "1.00", 5)

	tests := []struct {
		name  string
		lines []sale.Line
	}{
		{"empty", nil},
		{"zero quantity", []sale.Line{{ProductID: p.ID, Quantity: 0}}},
		{"negative quantity", []sale.Line{{ProductID: p.ID, Quantity: -1}}},
		{"nil product", []sale.Line{{Quantity: 1}}},
		{"quantity above cap", []sale.Line{{ProductID: p.ID, Quantity: types.MaxQuantity + 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.sales.Create(f.ctx, tt.lines)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
		})
	}
	assert.Equal(t, int64(5), f.stockOf(t, p.ID))
}

func TestCreate_TotalAboveMaxAmount(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "GOLD", "999999999999.99", 2)

	_, err := f.sales.Create(f.ctx, []sale.Line{{ProductID: p.ID, Quantity: 2}})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	assert.Equal(t, int64(2), f.stockOf(t, p.ID))
	rec, err := f.ledger.Reconcile(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.MovementCount)

	s, err := f.sales.Create(f.ctx, []sale.Line{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)
	assert.True(t, types.MaxAmount.Equal(s.TotalAmount))
}

func TestCreate_ConcurrentSalesNeverOversell(t *testing.T) {
	f := newFixture(t)
	const (
		startStock = 10
		perSale    = 3
		workers    = 20
	)
	p := f.addProduct(t, "HOT", "1.00", startStock)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int64
		otherErrs []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sales.Create(f.ctx, []sale.Line{{ProductID: p.ID, Quantity: perSale}})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case !apperror.IsInsufficientStock(err):
				otherErrs = append(otherErrs, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, otherErrs)
	assert.Equal(t, int64(startStock/perSale), successes)
	assert.LessOrEqual(t, successes*perSale, int64(startStock))
	assert.Equal(t, startStock-successes*perSale, f.stockOf(t, p.ID))

	rec, err := f.ledger.Reconcile(f.ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent)
	assert.Equal(t, successes+1, rec.MovementCount)

	list, err := f.sales.List(f.ctx, listAll())
	require.NoError(t, err)
	assert.Equal(t, successes, list.TotalCount)
	assert.Equal(t, int(successes), f.notifier.calls)
}

func TestCreate_PriceIsSnapshotted(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SNAP", "3.00", 10)

	s, err := f.sales.Create(f.ctx, []sale.Line{{ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)

	newPrice := types.MustMoney("4.00")
	_, err = f.products.Update(f.ctx, p.ID, product.Patch{Price: &newPrice})
	require.NoError(t, err)

	stored, err := f.sales.GetByID(f.ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.True(t, types.MustMoney("3.00").Equal(stored.Items[0].Price))
	assert.True(t, types.MustMoney("6.00").Equal(stored.TotalAmount))
}

func TestCreate_NumbersAreSequentialAndGapless(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "NUM", "1.00", 2)
	year := time.Now().Format("2006")

	first, err := f.sales.Create(f.ctx, []sale.Line{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("SL-%s-00001", year), first.Number)

	// rolled back sale does not consume a number
	_, err = f.sales.Create(f.ctx, []sale.Line{{ProductID: p.ID, Quantity: 5}})
	require.Error(t, err)

	second, err := f.sales.Create(f.ctx, []sale.Line{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("SL-%s-00002", year), second.Number)
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.sales.GetByID(f.ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}
