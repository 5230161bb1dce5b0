package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inventory/internal/core/apperror"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/registers/stock"
	"inventory/internal/domain/reports"
	"inventory/internal/infrastructure/export"
	"inventory/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the product routes beyond plain catalog CRUD.
type ProductHandler struct {
	*BaseHandler
	products *product.Service
	ledger   *stock.Service
	reports  *reports.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, products *product.Service, ledger *stock.Service, reportSvc *reports.Service) *ProductHandler {
	return &ProductHandler{
		BaseHandler: base,
		products:    products,
		ledger:      ledger,
		reports:     reportSvc,
	}
}

// Update handles PATCH /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParamID(c)
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid categoryId").WithDetail("field", "categoryId"))
		return
	}

	updated, err := h.products.Update(c.Request.Context(), productID, patch)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, updated)
}

// MovementsResponse is a page of ledger rows plus the reconciliation check.
type MovementsResponse struct {
	Items          []stock.Movement      `json:"items"`
	TotalCount     int64                 `json:"totalCount"`
	Limit          int                   `json:"limit"`
	Offset         int                   `json:"offset"`
	Reconciliation *stock.Reconciliation `json:"reconciliation"`
}

// Movements handles GET /products/:id/movements
func (h *ProductHandler) Movements(c *gin.Context) {
	productID, ok := h.ParamID(c)
	if !ok {
		return
	}

	var req dto.MovementListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	ctx := c.Request.Context()

	// Reconcile first: it reports NotFound for an unknown product.
	rec, err := h.ledger.Reconcile(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	filter := stock.MovementFilter{ProductID: &productID, Limit: req.Limit, Offset: req.Offset}
	items, total, err := h.ledger.ListMovements(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	if items == nil {
		items = []stock.Movement{}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	h.OK(c, MovementsResponse{
		Items:          items,
		TotalCount:     total,
		Limit:          limit,
		Offset:         req.Offset,
		Reconciliation: rec,
	})
}

// Export handles GET /products/export and streams the stock workbook.
func (h *ProductHandler) Export(c *gin.Context) {
	rows, err := h.reports.StockRows(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteStockSheet(&buf, rows); err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	filename := fmt.Sprintf("stock-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}
