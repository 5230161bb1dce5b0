package sale

import (
	"context"
	"fmt"
	"time"

	"inventory/internal/core/apperror"
	appctx "inventory/internal/core/context"
	"inventory/internal/core/id"
	"inventory/internal/core/numerator"
	"inventory/internal/core/tx"
	"inventory/internal/core/types"
	"inventory/internal/domain"
	"inventory/internal/domain/registers/stock"
	"inventory/pkg/logger"
)

// Service runs the sale transaction.
type Service struct {
	repo      Repository
	products  ProductLocker
	ledger    Ledger
	numerator numerator.Generator
	txManager tx.Manager
	notifier  stock.ChangeNotifier
}

// NewService creates a new sale service.
func NewService(
	repo Repository,
	products ProductLocker,
	ledger Ledger,
	numerator numerator.Generator,
	txManager tx.Manager,
	notifier stock.ChangeNotifier,
) *Service {
	if notifier == nil {
		notifier = stock.NopNotifier{}
	}
	return &Service{
		repo:      repo,
		products:  products,
		ledger:    ledger,
		numerator: numerator,
		txManager: txManager,
		notifier:  notifier,
	}
}

// Create sells the given lines atomically: either every line is decremented,
// recorded in the ledger and snapshotted, or nothing is persisted.
func (s *Service) Create(ctx context.Context, lines []Line) (*Sale, error) {
	if err := ValidateLines(ctx, lines); err != nil {
		return nil, err
	}

	var created *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(numerator.PrefixSale), time.Now())
		if err != nil {
			return fmt.Errorf("generate sale number: %w", err)
		}

		sl := NewSale(number, appctx.GetUserID(ctx))
		if err := s.repo.Create(ctx, sl); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		for i, line := range lines {
			p, err := s.products.GetForUpdate(ctx, line.ProductID)
			if err != nil {
				if apperror.IsNotFound(err) {
					return apperror.NewNotFound("product", line.ProductID.String()).WithDetail("lineNo", i+1)
				}
				return fmt.Errorf("load product: %w", err)
			}
			if p.CurrentStock < line.Quantity {
				return apperror.NewInsufficientStock(p.ID.String(), line.Quantity, p.CurrentStock).
					WithDetail("lineNo", i+1).
					WithDetail("sku", p.SKU)
			}

			if _, err := s.ledger.ApplyMovement(ctx, p.ID, -line.Quantity, stock.MovementSale, sl.ID); err != nil {
				return err
			}

			item := sl.AddItem(p.ID, line.Quantity, p.Price)
			if err := s.repo.InsertItem(ctx, &item); err != nil {
				return fmt.Errorf("insert sale item: %w", err)
			}
		}

		if types.ExceedsMaxAmount(sl.TotalAmount) {
			return apperror.NewValidation("sale total is too large").
				WithDetail("total", sl.TotalAmount.StringFixed(2))
		}
		if err := s.repo.UpdateTotal(ctx, sl); err != nil {
			return fmt.Errorf("update sale total: %w", err)
		}

		created = sl
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.StockChanged(ctx)
	logger.Info(ctx, "sale created",
		"sale_id", created.ID,
		"number", created.Number,
		"items", len(created.Items),
		"total", created.TotalAmount.StringFixed(2),
	)

	return created, nil
}

// GetByID retrieves a sale with its items.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	sl, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID.String())
		}
		return nil, err
	}
	return sl, nil
}

// List retrieves sales newest first.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Sale], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}
