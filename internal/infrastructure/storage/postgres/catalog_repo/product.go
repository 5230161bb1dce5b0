package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/infrastructure/storage/postgres"
)

const productTable = "products"

var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*product.Product](
			txm,
			productTable,
			"product",
			postgres.Columns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// GetForUpdate retrieves a product and locks its row until the transaction ends.
func (r *ProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": productID}).
		Suffix("FOR UPDATE")
	return r.getOne(ctx, q, productID.String())
}

// FindByNameAndCategory retrieves the product with the given name in the category.
func (r *ProductRepo) FindByNameAndCategory(ctx context.Context, name string, categoryID id.ID) (*product.Product, error) {
	q := r.baseSelect().Where(squirrel.Eq{"name": name, "category_id": categoryID})
	return r.getOne(ctx, q, name)
}

// FindBySKU retrieves a product by its unique SKU.
func (r *ProductRepo) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	return r.GetBy(ctx, "sku", sku)
}

// updateQuery builds the optimistic-lock update. current_stock is never written here.
func (r *ProductRepo) updateQuery(p *product.Product) squirrel.UpdateBuilder {
	return r.Builder().
		Update(productTable).
		Set("name", p.Name).
		Set("category_id", p.CategoryID).
		Set("price", p.Price).
		Set("cost_price", p.CostPrice).
		Set("reorder_level", p.ReorderLevel).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}).
		Where(squirrel.Eq{"version": p.Version}).
		Suffix("RETURNING version, updated_at, current_stock")
}

// Update writes the mutable catalog fields with optimistic locking on Version.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	sql, args, err := r.updateQuery(p).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&p.Version, &p.UpdatedAt, &p.CurrentStock)
	if err != nil {
		if pgxscan.NotFound(err) {
			exists, existsErr := r.Exists(ctx, p.ID)
			if existsErr != nil {
				return existsErr
			}
			if !exists {
				return apperror.NewNotFound("product", p.ID.String())
			}
			return apperror.NewConcurrentModification("product", p.ID.String())
		}
		return fmt.Errorf("update product: %w", postgres.MapError(err))
	}
	return nil
}

// ListAll returns every product ordered by name.
func (r *ProductRepo) ListAll(ctx context.Context) ([]*product.Product, error) {
	sql, args, err := r.baseSelect().OrderBy("name", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]*product.Product, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	return items, nil
}
