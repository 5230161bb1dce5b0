package stock

import (
	"context"
	"fmt"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/core/tx"
	"inventory/internal/core/types"
	"inventory/pkg/logger"
)

// Observer receives ledger events (metrics).
type Observer interface {
	MovementApplied(mtype MovementType, change int64)
	InsufficientStock(mtype MovementType)
}

type nopObserver struct{}

func (nopObserver) MovementApplied(MovementType, int64) {}
func (nopObserver) InsufficientStock(MovementType)      {}

// Service is the single mutation point of Product.current_stock.
type Service struct {
	repo      Repository
	txManager tx.Manager
	observer  Observer
}

// Option configures the Service.
type Option func(*Service)

// WithObserver registers an observer for ledger events.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewService creates a new stock ledger service.
func NewService(repo Repository, txManager tx.Manager, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		txManager: txManager,
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApplyMovement changes the product's stock by change and appends exactly one movement.
// Both writes share the caller's transaction; called outside one, they get their own.
// A decrement that would take stock below zero fails with INSUFFICIENT_STOCK and writes nothing.
func (s *Service) ApplyMovement(ctx context.Context, productID id.ID, change int64, mtype MovementType, referenceID id.ID) (*Movement, error) {
	if change == 0 {
		return nil, apperror.NewValidation("quantity change must not be zero").
			WithDetail("product_id", productID.String())
	}
	if change > types.MaxQuantity || change < -types.MaxQuantity {
		return nil, apperror.NewValidation("quantity change is too large").
			WithDetail("product_id", productID.String()).
			WithDetail("max", types.MaxQuantity)
	}
	if !mtype.IsValid() {
		return nil, apperror.NewValidation("unknown movement type").WithDetail("movement_type", string(mtype))
	}
	if id.IsNil(referenceID) {
		return nil, apperror.NewValidation("reference id is required")
	}

	var movement *Movement
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		newStock, applied, err := s.repo.AdjustStock(ctx, productID, change)
		if err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}
		if !applied {
			available, err := s.repo.GetStock(ctx, productID)
			if err != nil {
				if apperror.IsNotFound(err) {
					return apperror.NewNotFound("product", productID.String())
				}
				return fmt.Errorf("get stock: %w", err)
			}
			s.observer.InsufficientStock(mtype)
			return apperror.NewInsufficientStock(productID.String(), -change, available)
		}

		movement = NewMovement(productID, change, mtype, referenceID)
		if err := s.repo.InsertMovement(ctx, movement); err != nil {
			return fmt.Errorf("insert movement: %w", err)
		}

		logger.Debug(ctx, "stock movement applied",
			"product_id", productID,
			"change", change,
			"stock", newStock,
			"movement_type", mtype,
			"reference_id", referenceID,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.observer.MovementApplied(mtype, change)
	return movement, nil
}

// ListMovements returns ledger rows newest first.
func (s *Service) ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListMovements(ctx, filter)
}

// Reconcile checks that the product's stock equals the sum of its movements.
func (s *Service) Reconcile(ctx context.Context, productID id.ID) (*Reconciliation, error) {
	var rec *Reconciliation
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetStock(ctx, productID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("product", productID.String())
			}
			return err
		}
		sum, count, err := s.repo.SumMovements(ctx, productID)
		if err != nil {
			return fmt.Errorf("sum movements: %w", err)
		}
		rec = &Reconciliation{
			ProductID:     productID,
			CurrentStock:  current,
			LedgerSum:     sum,
			MovementCount: count,
			Consistent:    current == sum,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !rec.Consistent {
		logger.Warn(ctx, "stock ledger mismatch",
			"product_id", productID, "stock", rec.CurrentStock, "ledger_sum", rec.LedgerSum)
	}
	return rec, nil
}

// ChangeNotifier is told, after commit, that stock levels changed (cache invalidation).
type ChangeNotifier interface {
	StockChanged(ctx context.Context)
}

// NopNotifier ignores notifications.
type NopNotifier struct{}

// StockChanged does nothing.
func (NopNotifier) StockChanged(context.Context) {}
