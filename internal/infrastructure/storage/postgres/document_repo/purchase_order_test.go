package document_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/id"
	"inventory/internal/domain/documents/purchase_order"
)

func TestPurchaseOrderRepo_Columns(t *testing.T) {
	repo := NewPurchaseOrderRepo(nil)
	assert.ElementsMatch(t, []string{
		"id", "created_at", "number", "created_by",
		"vendor_id", "status", "total_amount", "approved_at", "received_at",
	}, repo.selectCols)
}

func TestPurchaseOrderRepo_ListQuery(t *testing.T) {
	repo := NewPurchaseOrderRepo(nil)
	status := purchase_order.StatusApproved
	vendorID := id.New()

	sql, args, err := repo.listQuery(purchase_order.ListFilter{Status: &status, VendorID: &vendorID}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE status = $1 AND vendor_id = $2")
	assert.Equal(t, []any{status, vendorID.String()}, args)
}

func TestSaleRepo_Columns(t *testing.T) {
	repo := NewSaleRepo(nil)
	assert.ElementsMatch(t, []string{"id", "created_at", "number", "created_by", "total_amount"}, repo.selectCols)
}
