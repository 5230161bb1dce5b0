// Package category provides the Category catalog.
package category

import (
	"context"
	"strings"
	"unicode/utf8"

	"inventory/internal/core/apperror"
	"inventory/internal/core/entity"
)

// Category groups products. Name is unique.
type Category struct {
	entity.BaseEntity

	Name string `db:"name" json:"name"`
}

// NewCategory creates a new Category.
func NewCategory(name string) *Category {
	return &Category{
		BaseEntity: entity.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
	}
}

// Validate checks category invariants.
func (c *Category) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if utf8.RuneCountInString(c.Name) > 255 {
		return apperror.NewValidation("name must be at most 255 characters").WithDetail("field", "name")
	}
	return nil
}
