// Package memory provides an in-process storage backend implementing every
// repository interface of the domain. It backs tests and the "memory" storage driver.
//
// Transactions are serialized: RunInTransaction holds the store mutex for the
// whole callback and restores a snapshot when the callback fails.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"inventory/internal/core/id"
	"inventory/internal/domain/auth"
	"inventory/internal/domain/catalogs/category"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/catalogs/vendor"
	"inventory/internal/domain/documents/purchase_order"
	"inventory/internal/domain/documents/sale"
	"inventory/internal/domain/registers/stock"
)

type state struct {
	categories map[id.ID]category.Category
	products   map[id.ID]product.Product
	vendors    map[id.ID]vendor.Vendor
	users      map[id.ID]auth.User
	movements  []stock.Movement
	sales      map[id.ID]sale.Sale
	saleItems  map[id.ID][]sale.Item
	orders     map[id.ID]purchase_order.PurchaseOrder
	sequences  map[string]int64
}

func newState() *state {
	return &state{
		categories: make(map[id.ID]category.Category),
		products:   make(map[id.ID]product.Product),
		vendors:    make(map[id.ID]vendor.Vendor),
		users:      make(map[id.ID]auth.User),
		sales:      make(map[id.ID]sale.Sale),
		saleItems:  make(map[id.ID][]sale.Item),
		orders:     make(map[id.ID]purchase_order.PurchaseOrder),
		sequences:  make(map[string]int64),
	}
}

func (s *state) clone() *state {
	c := &state{
		categories: maps.Clone(s.categories),
		products:   maps.Clone(s.products),
		vendors:    maps.Clone(s.vendors),
		users:      maps.Clone(s.users),
		movements:  slices.Clone(s.movements),
		sales:      maps.Clone(s.sales),
		saleItems:  make(map[id.ID][]sale.Item, len(s.saleItems)),
		orders:     make(map[id.ID]purchase_order.PurchaseOrder, len(s.orders)),
		sequences:  maps.Clone(s.sequences),
	}
	for k, v := range s.saleItems {
		c.saleItems[k] = slices.Clone(v)
	}
	for k, v := range s.orders {
		v.Items = slices.Clone(v.Items)
		c.orders[k] = v
	}
	return c
}

// Store holds all data behind one mutex.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// lock takes the store mutex unless ctx already runs inside a transaction.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// TxManager implements tx.Manager over a Store.
type TxManager struct {
	store *Store
}

// NewTxManager creates a transaction manager for store.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// RunInTransaction runs fn exclusively. Nested calls reuse the outer transaction.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snapshot := m.store.data.clone()
	defer func() {
		if p := recover(); p != nil {
			m.store.data = snapshot
			err = fmt.Errorf("transaction panic: %v", p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.store.data = snapshot
		return err
	}
	return nil
}

// ReadOnly runs fn exclusively and discards anything it wrote.
// Nested in a transaction it joins it, like RunInTransaction.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snapshot := m.store.data.clone()
	defer func() {
		m.store.data = snapshot
		if p := recover(); p != nil {
			err = fmt.Errorf("transaction panic: %v", p)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, true))
}

// --- helpers ---

func matchesSearch(name, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(search))
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// newestFirst orders UUIDv7 ids descending, which is creation order reversed.
func newestFirst(a, b id.ID) int {
	return -bytes.Compare(a[:], b[:])
}
