package category

import (
	"context"

	"inventory/internal/core/apperror"
	"inventory/internal/core/tx"
	"inventory/internal/domain"
)

// Service provides business logic for the Category catalog.
type Service struct {
	*domain.CatalogService[*Category]
	repo Repository
}

// NewService creates a new Category service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Category]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "category",
	})

	svc := &Service{CatalogService: base, repo: repo}
	base.Hooks().OnBeforeCreate(svc.checkNameUnique)

	return svc
}

func (s *Service) checkNameUnique(ctx context.Context, c *Category) error {
	existing, err := s.repo.FindByName(ctx, c.Name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != c.ID {
		return apperror.NewDuplicate("category", "name", c.Name)
	}
	return nil
}
