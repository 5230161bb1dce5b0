package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/domain/registers/stock"
	"inventory/internal/infrastructure/storage/postgres"
)

func TestMetrics_StockObserver(t *testing.T) {
	m := New()

	m.MovementApplied(stock.MovementSale, -4)
	m.MovementApplied(stock.MovementSale, -2)
	m.MovementApplied(stock.MovementPurchase, 20)
	m.InsufficientStock(stock.MovementSale)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.movements.WithLabelValues("sale")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.units.WithLabelValues("sale")))
	assert.Equal(t, 20.0, testutil.ToFloat64(m.units.WithLabelValues("purchase")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.insufficientStock.WithLabelValues("sale")))
}

func TestMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/v1/products/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/abc", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/products/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetrics_HandlerExposesPool(t *testing.T) {
	m := New()
	m.RegisterPool(func() postgres.PoolStats {
		return postgres.PoolStats{TotalConns: 5, AcquiredConns: 2, IdleConns: 3, MaxConns: 20}
	})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "inventory_db_pool_total_conns 5"))
	assert.True(t, strings.Contains(body, "inventory_db_pool_max_conns 20"))
}
