package handlers

import (
	"github.com/gin-gonic/gin"

	"inventory/internal/domain/reports"
)

// DashboardHandler serves the admin summary.
type DashboardHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(base *BaseHandler, service *reports.Service) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base, service: service}
}

// Get handles GET /dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	d, err := h.service.GetDashboard(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, d)
}
