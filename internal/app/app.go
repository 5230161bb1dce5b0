// Package app wires repositories and domain services for the selected storage driver.
package app

import (
	"context"
	"time"

	"inventory/internal/core/idempotency"
	"inventory/internal/core/numerator"
	"inventory/internal/core/tx"
	"inventory/internal/domain"
	"inventory/internal/domain/auth"
	"inventory/internal/domain/catalogs/category"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/catalogs/vendor"
	"inventory/internal/domain/documents/purchase_order"
	"inventory/internal/domain/documents/sale"
	"inventory/internal/domain/registers/stock"
	"inventory/internal/domain/reports"
	"inventory/internal/infrastructure/storage/memory"
	"inventory/internal/infrastructure/storage/postgres"
	"inventory/internal/infrastructure/storage/postgres/auth_repo"
	"inventory/internal/infrastructure/storage/postgres/catalog_repo"
	"inventory/internal/infrastructure/storage/postgres/document_repo"
	"inventory/internal/infrastructure/storage/postgres/register_repo"
	"inventory/internal/infrastructure/storage/postgres/report_repo"
	pgnumerator "inventory/pkg/numerator"
)

// Repositories is one storage backend.
type Repositories struct {
	TxManager      tx.Manager
	Categories     category.Repository
	Vendors        vendor.Repository
	Products       product.Repository
	Stock          stock.Repository
	Sales          sale.Repository
	PurchaseOrders purchase_order.Repository
	Users          auth.UserRepository
	Reports        reports.Repository
	Numerator      numerator.Generator
	Idempotency    idempotency.Store
}

// PostgresRepositories builds the PostgreSQL backend on txm.
func PostgresRepositories(txm *postgres.TxManager, idempotencyTTL time.Duration) Repositories {
	return Repositories{
		TxManager:      txm,
		Categories:     catalog_repo.NewCategoryRepo(txm),
		Vendors:        catalog_repo.NewVendorRepo(txm),
		Products:       catalog_repo.NewProductRepo(txm),
		Stock:          register_repo.NewStockRepo(txm),
		Sales:          document_repo.NewSaleRepo(txm),
		PurchaseOrders: document_repo.NewPurchaseOrderRepo(txm),
		Users:          auth_repo.NewUserRepo(txm),
		Reports:        report_repo.NewReportRepo(txm),
		Numerator: pgnumerator.NewWithQuerierFunc(func(ctx context.Context) pgnumerator.Querier {
			return txm.GetQuerier(ctx)
		}),
		Idempotency: postgres.NewIdempotencyStore(txm, idempotencyTTL),
	}
}

// MemoryRepositories builds an empty in-memory backend.
func MemoryRepositories(idempotencyTTL time.Duration) Repositories {
	store := memory.NewStore()
	return Repositories{
		TxManager:      memory.NewTxManager(store),
		Categories:     memory.NewCategoryRepo(store),
		Vendors:        memory.NewVendorRepo(store),
		Products:       memory.NewProductRepo(store),
		Stock:          memory.NewStockRepo(store),
		Sales:          memory.NewSaleRepo(store),
		PurchaseOrders: memory.NewPurchaseOrderRepo(store),
		Users:          memory.NewUserRepo(store),
		Reports:        memory.NewReportRepo(store),
		Numerator:      memory.NewNumerator(store),
		Idempotency:    memory.NewIdempotencyStore(idempotencyTTL),
	}
}

// Options tunes service construction. The zero value is usable.
type Options struct {
	JWT            auth.JWTConfig
	BcryptCost     int
	DashboardCache reports.DashboardCache
	DashboardTTL   time.Duration
	StockObserver  stock.Observer
}

// Services holds every domain service.
type Services struct {
	Auth           *auth.Service
	Categories     *category.Service
	Vendors        *vendor.Service
	Products       *product.Service
	Stock          *stock.Service
	Sales          *sale.Service
	PurchaseOrders *purchase_order.Service
	Reports        *reports.Service
}

// NewServices wires the domain services on top of repos.
func NewServices(repos Repositories, opts Options) *Services {
	ledger := stock.NewService(repos.Stock, repos.TxManager, stock.WithObserver(opts.StockObserver))
	reportSvc := reports.NewService(repos.Reports, opts.DashboardCache, opts.DashboardTTL)

	authSvc := auth.NewService(repos.Users, repos.TxManager, auth.NewJWTService(opts.JWT))
	if opts.BcryptCost > 0 {
		authSvc = authSvc.WithBcryptCost(opts.BcryptCost)
	}

	vendors := vendor.NewService(repos.Vendors, repos.TxManager)
	vendors.Hooks().OnAfterCreate(invalidateDashboard[*vendor.Vendor](reportSvc))

	products := product.NewService(repos.Products, repos.Categories, repos.TxManager)
	products.Hooks().OnAfterCreate(invalidateDashboard[*product.Product](reportSvc))
	products.Hooks().OnAfterUpdate(invalidateDashboard[*product.Product](reportSvc))

	return &Services{
		Auth:       authSvc,
		Categories: category.NewService(repos.Categories, repos.TxManager),
		Vendors:    vendors,
		Products:   products,
		Stock:      ledger,
		Sales: sale.NewService(
			repos.Sales,
			repos.Products,
			ledger,
			repos.Numerator,
			repos.TxManager,
			reportSvc,
		),
		PurchaseOrders: purchase_order.NewService(purchase_order.Dependencies{
			Repo:      repos.PurchaseOrders,
			Vendors:   repos.Vendors,
			Products:  repos.Products,
			Ledger:    ledger,
			Numerator: repos.Numerator,
			TxManager: repos.TxManager,
			Notifier:  reportSvc,
		}),
		Reports: reportSvc,
	}
}

// invalidateDashboard drops the cached dashboard once a product or vendor
// change has committed; the dashboard counts both.
func invalidateDashboard[T any](r *reports.Service) domain.Hook[T] {
	return func(ctx context.Context, _ T) error {
		r.Invalidate(ctx)
		return nil
	}
}
