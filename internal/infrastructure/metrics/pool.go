package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"inventory/internal/infrastructure/storage/postgres"
)

// PoolStatsFunc returns a snapshot of connection pool statistics.
type PoolStatsFunc func() postgres.PoolStats

// RegisterPool exposes pool gauges read on every scrape.
func (m *Metrics) RegisterPool(stats PoolStatsFunc) {
	gauge := func(name, help string, read func(postgres.PoolStats) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "inventory",
			Subsystem: "db_pool",
			Name:      name,
			Help:      help,
		}, func() float64 { return read(stats()) })
	}

	m.registry.MustRegister(
		gauge("total_conns", "Open connections.", func(s postgres.PoolStats) float64 { return float64(s.TotalConns) }),
		gauge("acquired_conns", "Connections in use.", func(s postgres.PoolStats) float64 { return float64(s.AcquiredConns) }),
		gauge("idle_conns", "Idle connections.", func(s postgres.PoolStats) float64 { return float64(s.IdleConns) }),
		gauge("max_conns", "Pool size limit.", func(s postgres.PoolStats) float64 { return float64(s.MaxConns) }),
	)
}
