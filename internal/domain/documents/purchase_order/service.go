package purchase_order

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
	"inventory/internal/domain/registers/stock"
	"inventory/pkg/logger"
)

// Line is a requested order line.
type Line struct {
	ProductID id.ID
	Quantity  int64
	UnitPrice types.Money
}

// Dependencies groups the collaborators of the workflow.
type Dependencies struct {
	Repo      Repository
	Vendors   VendorChecker
	Products  ProductChecker
	Ledger    Ledger
	Numerator numerator.Generator
	TxManager tx.Manager
	Notifier  stock.ChangeNotifier
}

// Service runs the purchase order workflow.
type Service struct {
	repo      Repository
	vendors   VendorChecker
	products  ProductChecker
	ledger    Ledger
	numerator numerator.Generator
	txManager tx.Manager
	notifier  stock.ChangeNotifier
	now       func() time.Time
}

// NewService creates a new purchase order service.
func NewService(deps Dependencies) *Service {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = stock.NopNotifier{}
	}
	return &Service{
		repo:      deps.Repo,
		vendors:   deps.Vendors,
		products:  deps.Products,
		ledger:    deps.Ledger,
		numerator: deps.Numerator,
		txManager: deps.TxManager,
		notifier:  notifier,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a Pending order. Ordering does not move stock.
func (s *Service) Create(ctx context.Context, vendorID id.ID, lines []Line) (*PurchaseOrder, error) {
	draft := NewPurchaseOrder("", appctx.GetUserID(ctx), vendorID)
	for _, line := range lines {
		draft.AddItem(line.ProductID, line.Quantity, line.UnitPrice)
	}
	if err := draft.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.vendors.Exists(ctx, vendorID)
		if err != nil {
			return fmt.Errorf("check vendor: %w", err)
		}
		if !ok {
			return apperror.NewNotFound("vendor", vendorID.String())
		}
		for _, item := range draft.Items {
			ok, err := s.products.Exists(ctx, item.ProductID)
			if err != nil {
				return fmt.Errorf("check product: %w", err)
			}
			if !ok {
				return apperror.NewNotFound("product", item.ProductID.String()).WithDetail("lineNo", item.LineNo)
			}
		}

		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(numerator.PrefixPurchaseOrder), s.now())
		if err != nil {
			return fmt.Errorf("generate purchase order number: %w", err)
		}
		draft.Number = number

		if err := s.repo.Create(ctx, draft); err != nil {
			return fmt.Errorf("create purchase order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase order created",
		"order_id", draft.ID,
		"number", draft.Number,
		"vendor_id", vendorID,
		"total", draft.TotalAmount.StringFixed(2),
	)
	return draft, nil
}

// Approve moves a Pending order to Approved. No stock effect.
func (s *Service) Approve(ctx context.Context, orderID id.ID) (*PurchaseOrder, error) {
	var po *PurchaseOrder
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.lockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if err := po.Approve(s.now()); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase order approved", "order_id", orderID, "number", po.Number)
	return po, nil
}

// Receive books every item of an Approved order into stock and completes it.
// Any failure leaves stock, ledger and status untouched.
func (s *Service) Receive(ctx context.Context, orderID id.ID) (*PurchaseOrder, error) {
	var po *PurchaseOrder
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.lockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !po.Status.CanTransitionTo(StatusCompleted) {
			return apperror.NewInvalidStateTransition("purchase order", string(po.Status), string(StatusCompleted)).
				WithDetail("id", orderID.String())
		}

		for _, item := range po.Items {
			if _, err := s.ledger.ApplyMovement(ctx, item.ProductID, item.Quantity, stock.MovementPurchase, po.ID); err != nil {
				return err
			}
		}

		if err := po.Complete(s.now()); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.StockChanged(ctx)
	logger.Info(ctx, "purchase order received", "order_id", orderID, "number", po.Number, "items", len(po.Items))
	return po, nil
}

// GetByID retrieves an order with its items.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*PurchaseOrder, error) {
	po, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("purchase order", orderID.String())
		}
		return nil, err
	}
	return po, nil
}

// List retrieves orders newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return ListResult{}, apperror.NewValidation("unknown status").WithDetail("status", string(*filter.Status))
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) lockOrder(ctx context.Context, orderID id.ID) (*PurchaseOrder, error) {
	po, err := s.repo.GetForUpdate(ctx, orderID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("purchase order", orderID.String())
		}
		return nil, fmt.Errorf("lock purchase order: %w", err)
	}
	return po, nil
}
