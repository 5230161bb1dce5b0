package reports

import (
	"context"
	"fmt"
	"time"

	"inventory/internal/core/types"
	"inventory/pkg/logger"
)

// DefaultDashboardTTL bounds how stale a cached dashboard may be.
const DefaultDashboardTTL = 30 * time.Second

// Service provides report generation operations.
type Service struct {
	repo  Repository
	cache DashboardCache
	ttl   time.Duration
	now   func() time.Time
}

// NewService creates a new reports service. cache may be nil.
func NewService(repo Repository, cache DashboardCache, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultDashboardTTL
	}
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// GetDashboard returns the summary, served from cache when possible.
// Cache failures are logged and fall through to the database.
func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			logger.Warn(ctx, "dashboard cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	d, err := s.buildDashboard(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, d, s.ttl); err != nil {
			logger.Warn(ctx, "dashboard cache write failed", "error", err)
		}
	}
	return d, nil
}

func (s *Service) buildDashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{GeneratedAt: s.now()}
	var err error

	if d.TotalProducts, err = s.repo.CountProducts(ctx); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if d.TotalVendors, err = s.repo.CountVendors(ctx); err != nil {
		return nil, fmt.Errorf("count vendors: %w", err)
	}
	total, err := s.repo.SumSalesAmount(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum sales: %w", err)
	}
	if d.TotalSalesAmount, err = types.NewMoneyFromString(total); err != nil {
		return nil, fmt.Errorf("parse sales total %q: %w", total, err)
	}
	if d.LowStockCount, err = s.repo.CountLowStock(ctx); err != nil {
		return nil, fmt.Errorf("count low stock: %w", err)
	}
	if d.RecentMovements, err = s.repo.RecentMovements(ctx, RecentMovementsLimit); err != nil {
		return nil, fmt.Errorf("recent movements: %w", err)
	}
	if d.RecentMovements == nil {
		d.RecentMovements = []RecentMovement{}
	}

	return d, nil
}

// StockChanged drops the cached dashboard. It implements stock.ChangeNotifier.
func (s *Service) StockChanged(ctx context.Context) {
	s.Invalidate(ctx)
}

// Invalidate drops the cached dashboard so the next read rebuilds it.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn(ctx, "dashboard cache invalidation failed", "error", err)
	}
}

// StockRows returns the rows of the stock export.
func (s *Service) StockRows(ctx context.Context) ([]StockRow, error) {
	rows, err := s.repo.StockRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("get stock rows: %w", err)
	}
	return rows, nil
}
