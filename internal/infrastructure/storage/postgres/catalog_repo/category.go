package catalog_repo

import (
	"context"

	"inventory/internal/domain/catalogs/category"
	"inventory/internal/infrastructure/storage/postgres"
)

const categoryTable = "categories"

var _ category.Repository = (*CategoryRepo)(nil)

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	*BaseCatalogRepo[*category.Category]
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txm *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*category.Category](
			txm,
			categoryTable,
			"category",
			postgres.Columns[category.Category](),
			func() *category.Category { return &category.Category{} },
		),
	}
}

// FindByName retrieves a category by its unique name.
func (r *CategoryRepo) FindByName(ctx context.Context, name string) (*category.Category, error) {
	return r.GetBy(ctx, "name", name)
}
