// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"inventory/internal/app"
	"inventory/internal/config"
	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/core/idempotency"
	"inventory/internal/core/types"
	"inventory/internal/domain"
	"inventory/internal/domain/auth"
	"inventory/internal/domain/catalogs/category"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/catalogs/vendor"
	"inventory/internal/domain/documents/purchase_order"
	"inventory/internal/infrastructure/storage/postgres"
	"inventory/pkg/logger"
)

type demoProduct struct {
	name, sku, category string
	price, cost         string
	reorder, initial    int64
}

var demoCategories = []string{"Hardware", "Electrical", "Garden"}

var demoVendors = []struct{ name, contact, address string }{
	{"Northwind Supply", "orders@northwind.example", "12 Harbour Rd"},
	{"Contoso Tools", "sales@contoso.example", "400 Industrial Way"},
}

var demoProducts = []demoProduct{
	{"Claw Hammer", "HW-0001", "Hardware", "18.50", "9.20", 10, 40},
	{"Screwdriver Set", "HW-0002", "Hardware", "24.00", "11.00", 5, 25},
	{"Extension Cord 5m", "EL-0001", "Electrical", "12.90", "6.10", 8, 30},
	{"LED Bulb E27", "EL-0002", "Electrical", "3.40", "1.20", 50, 200},
	{"Garden Hose 20m", "GD-0001", "Garden", "29.99", "15.00", 4, 6},
}

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults to $APP_CONFIG)")
	flag.Parse()

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}
	if cfg.Storage.Driver != config.DriverPostgres {
		log.Fatal("seeding needs storage.driver=postgres")
	}

	ctx := logger.WithLogger(context.Background(), log)

	if err := postgres.Migrate(ctx, cfg.Postgres.DSN, "up"); err != nil {
		log.Fatalw("failed to migrate", "error", err)
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Postgres.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txm := postgres.NewTxManager(pool)
	services := app.NewServices(app.PostgresRepositories(txm, idempotency.DefaultTTL), app.Options{
		JWT: auth.DefaultJWTConfig(cfg.JWT.Secret),
	})

	if _, err := services.Auth.EnsureAdmin(ctx, auth.BootstrapAdmin{
		Name:     cfg.Bootstrap.AdminName,
		Email:    cfg.Bootstrap.AdminEmail,
		Password: cfg.Bootstrap.AdminPassword,
	}, nil); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if err := seedDemoData(ctx, services, log); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	log.Info("seeding completed successfully")
}

func seedDemoData(ctx context.Context, svc *app.Services, log *logger.Logger) error {
	categoryIDs := make(map[string]id.ID, len(demoCategories))
	for _, name := range demoCategories {
		c := category.NewCategory(name)
		if err := svc.Categories.Create(ctx, c); err != nil {
			if apperror.IsDuplicate(err) {
				log.Infow("demo data already present, skipping", "category", name)
				return nil
			}
			return fmt.Errorf("create category %s: %w", name, err)
		}
		categoryIDs[name] = c.ID
	}

	var vendorIDs []id.ID
	for _, v := range demoVendors {
		entity := vendor.NewVendor(v.name, v.contact, v.address)
		if err := svc.Vendors.Create(ctx, entity); err != nil {
			return fmt.Errorf("create vendor %s: %w", v.name, err)
		}
		vendorIDs = append(vendorIDs, entity.ID)
	}

	var lines []purchase_order.Line
	for _, dp := range demoProducts {
		p := product.NewProduct(dp.name, dp.sku, categoryIDs[dp.category],
			types.MustMoney(dp.price), types.MustMoney(dp.cost), dp.reorder)
		if err := svc.Products.Create(ctx, p); err != nil {
			return fmt.Errorf("create product %s: %w", dp.sku, err)
		}
		lines = append(lines, purchase_order.Line{
			ProductID: p.ID,
			Quantity:  dp.initial,
			UnitPrice: types.MustMoney(dp.cost),
		})
	}

	// Opening stock goes through a received purchase order so the ledger stays consistent.
	po, err := svc.PurchaseOrders.Create(ctx, vendorIDs[0], lines)
	if err != nil {
		return fmt.Errorf("create opening purchase order: %w", err)
	}
	if _, err := svc.PurchaseOrders.Approve(ctx, po.ID); err != nil {
		return fmt.Errorf("approve opening purchase order: %w", err)
	}
	if _, err := svc.PurchaseOrders.Receive(ctx, po.ID); err != nil {
		return fmt.Errorf("receive opening purchase order: %w", err)
	}

	result, err := svc.Products.List(ctx, domain.ListFilter{Limit: domain.MaxLimit})
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	log.Infow("demo data seeded",
		"categories", len(categoryIDs),
		"vendors", len(vendorIDs),
		"products", result.TotalCount,
		"opening_order", po.Number,
	)
	return nil
}
