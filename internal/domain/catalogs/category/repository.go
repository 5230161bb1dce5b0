package category

import (
	"context"

	"inventory/internal/core/id"
	"inventory/internal/domain"
)

// Repository defines storage operations for categories.
type Repository interface {
	domain.CatalogRepository[*Category]

	// FindByName retrieves a category by its unique name (NotFound if absent).
	FindByName(ctx context.Context, name string) (*Category, error)

	// Exists reports whether a category with the given id exists.
	Exists(ctx context.Context, categoryID id.ID) (bool, error)
}
