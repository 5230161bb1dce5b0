package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"inventory/internal/domain/reports"
)

// DashboardKey is where the rendered dashboard is stored.
const DashboardKey = KeyPrefix + "dashboard"

var _ reports.DashboardCache = (*DashboardCache)(nil)

// DashboardCache stores the dashboard as JSON in Redis.
type DashboardCache struct {
	client redis.Cmdable
}

// NewDashboardCache creates a dashboard cache on client.
func NewDashboardCache(client redis.Cmdable) *DashboardCache {
	return &DashboardCache{client: client}
}

// Get returns the cached dashboard, or nil on a miss.
func (c *DashboardCache) Get(ctx context.Context) (*reports.Dashboard, error) {
	raw, err := c.client.Get(ctx, DashboardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dashboard: %w", err)
	}
	return decodeDashboard(raw)
}

// Set stores d for ttl.
func (c *DashboardCache) Set(ctx context.Context, d *reports.Dashboard, ttl time.Duration) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}
	if err := c.client.Set(ctx, DashboardKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("set dashboard: %w", err)
	}
	return nil
}

// Invalidate drops the cached dashboard.
func (c *DashboardCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, DashboardKey).Err(); err != nil {
		return fmt.Errorf("invalidate dashboard: %w", err)
	}
	return nil
}

func decodeDashboard(raw []byte) (*reports.Dashboard, error) {
	var d reports.Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode dashboard: %w", err)
	}
	if d.RecentMovements == nil {
		d.RecentMovements = []reports.RecentMovement{}
	}
	return &d, nil
}
