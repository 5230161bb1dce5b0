package product

import (
	"context"

	"inventory/internal/core/id"
	"inventory/internal/domain"
)

// Repository defines storage operations for products.
// Stock columns are written only by the stock register repository.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetForUpdate retrieves a product and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, productID id.ID) (*Product, error)

	// FindByNameAndCategory retrieves the product with the given name in the category.
	FindByNameAndCategory(ctx context.Context, name string, categoryID id.ID) (*Product, error)

	// FindBySKU retrieves a product by its unique SKU.
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// Update writes the mutable catalog fields with optimistic locking on Version.
	Update(ctx context.Context, p *Product) error

	// Exists reports whether a product with the given id exists.
	Exists(ctx context.Context, productID id.ID) (bool, error)

	// ListAll returns every product ordered by name (used by exports).
	ListAll(ctx context.Context) ([]*Product, error)
}

// CategoryChecker is the part of the category catalog products depend on.
type CategoryChecker interface {
	Exists(ctx context.Context, categoryID id.ID) (bool, error)
}
