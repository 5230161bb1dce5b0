package purchase_order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/core/types"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusApproved, StatusCompleted, true},
		{StatusPending, StatusCompleted, false},
		{StatusApproved, StatusPending, false},
		{StatusCompleted, StatusApproved, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusApproved, StatusApproved, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPurchaseOrder_TotalAndLifecycle(t *testing.T) {
	po := NewPurchaseOrder("PO-2026-00001", "u-1", id.New())
	po.AddItem(id.New(), 20, types.MustMoney("5"))
	po.AddItem(id.New(), 3, types.MustMoney("0.335"))

	require.NoError(t, po.Validate(context.Background()))
	assert.Equal(t, StatusPending, po.Status)
	// 100 + 3 x 0.34
	assert.Equal(t, "101.02", po.TotalAmount.StringFixed(2))
	assert.Equal(t, 2, po.Items[1].LineNo)

	now := time.Now()
	err := po.Complete(now)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidStateTransition(err))
	assert.Nil(t, po.ReceivedAt)

	require.NoError(t, po.Approve(now))
	assert.Equal(t, StatusApproved, po.Status)
	require.NotNil(t, po.ApprovedAt)

	err = po.Approve(now)
	assert.True(t, apperror.IsInvalidStateTransition(err))

	require.NoError(t, po.Complete(now))
	assert.Equal(t, StatusCompleted, po.Status)
	require.NotNil(t, po.ReceivedAt)
}

func TestPurchaseOrder_Validate(t *testing.T) {
	ctx := context.Background()

	noVendor := NewPurchaseOrder("", "", id.ID{})
	noVendor.AddItem(id.New(), 1, types.MustMoney("1"))
	assert.True(t, apperror.IsCode(noVendor.Validate(ctx), apperror.CodeValidation))

	noItems := NewPurchaseOrder("", "", id.New())
	assert.True(t, apperror.IsCode(noItems.Validate(ctx), apperror.CodeValidation))

	badQty := NewPurchaseOrder("", "", id.New())
	badQty.AddItem(id.New(), 0, types.MustMoney("1"))
	assert.True(t, apperror.IsCode(badQty.Validate(ctx), apperror.CodeValidation))

	negPrice := NewPurchaseOrder("", "", id.New())
	negPrice.AddItem(id.New(), 1, types.MustMoney("-1"))
	assert.True(t, apperror.IsCode(negPrice.Validate(ctx), apperror.CodeValidation))

	hugeQty := NewPurchaseOrder("", "", id.New())
	hugeQty.AddItem(id.New(), types.MaxQuantity+1, types.MustMoney("1"))
	assert.True(t, apperror.IsCode(hugeQty.Validate(ctx), apperror.CodeValidation))

	hugePrice := NewPurchaseOrder("", "", id.New())
	hugePrice.AddItem(id.New(), 1, types.MaxAmount.Add(types.MustMoney("0.01")))
	assert.True(t, apperror.IsCode(hugePrice.Validate(ctx), apperror.CodeValidation))

	hugeTotal := NewPurchaseOrder("", "", id.New())
	hugeTotal.AddItem(id.New(), 2, types.MaxAmount)
	assert.True(t, apperror.IsCode(hugeTotal.Validate(ctx), apperror.CodeValidation))

	atCap := NewPurchaseOrder("", "", id.New())
	atCap.AddItem(id.New(), 1, types.MaxAmount)
	assert.NoError(t, atCap.Validate(ctx))
}
