package product

import (
	"context"
	"fmt"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/core/tx"
	"inventory/internal/domain"
	"inventory/pkg/logger"
)

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo       Repository
	categories CategoryChecker
}

// NewService creates a new Product service.
func NewService(repo Repository, categories CategoryChecker, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		categories:     categories,
	}
	base.Hooks().OnBeforeCreate(svc.checkReferences)

	return svc
}

// checkReferences verifies the category exists and name+category and SKU are unique.
func (s *Service) checkReferences(ctx context.Context, p *Product) error {
	ok, err := s.categories.Exists(ctx, p.CategoryID)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return apperror.NewNotFound("category", p.CategoryID.String())
	}

	existing, err := s.repo.FindByNameAndCategory(ctx, p.Name, p.CategoryID)
	if err != nil && !apperror.IsNotFound(err) {
		return err
	}
	if err == nil && existing.ID != p.ID {
		return apperror.NewDuplicate("product", "name in category", p.Name)
	}

	existing, err = s.repo.FindBySKU(ctx, p.SKU)
	if err != nil && !apperror.IsNotFound(err) {
		return err
	}
	if err == nil && existing.ID != p.ID {
		return apperror.NewDuplicate("product", "sku", p.SKU)
	}

	return nil
}

// Update applies a patch to the product's catalog fields. Stock is not patchable.
func (s *Service) Update(ctx context.Context, productID id.ID, patch Patch) (*Product, error) {
	if patch.IsEmpty() {
		return nil, apperror.NewValidation("nothing to update")
	}

	var updated *Product
	err := s.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetForUpdate(ctx, productID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("product", productID.String())
			}
			return err
		}
		if patch.Version != nil && *patch.Version != p.Version {
			return apperror.NewConcurrentModification("product", productID.String())
		}

		patch.Apply(p)
		if err := p.Validate(ctx); err != nil {
			return err
		}
		if err := s.checkReferences(ctx, p); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.Hooks().Run(ctx, domain.AfterUpdate, updated); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", "product", "error", err)
	}

	logger.Info(ctx, "product updated", "product_id", productID, "version", updated.Version)
	return updated, nil
}

// ListAll returns every product (exports).
func (s *Service) ListAll(ctx context.Context) ([]*Product, error) {
	return s.repo.ListAll(ctx)
}
