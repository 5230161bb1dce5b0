package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"inventory/internal/core/id"
	"inventory/internal/core/types"
	"inventory/internal/domain/reports"
)

func TestWriteStockSheet(t *testing.T) {
	rows := []reports.StockRow{
		{
			ProductID: id.New(), SKU: "BOLT-1", Name: "Bolt", CategoryName: "Hardware",
			Price: types.MustMoney("1.50"), CostPrice: types.MustMoney("0.75"),
			CurrentStock: 10, ReorderLevel: 3,
		},
		{
			ProductID: id.New(), SKU: "NUT-1", Name: "Nut", CategoryName: "Hardware",
			Price: types.MustMoney("0.40"), CostPrice: types.MustMoney("0.20"),
			CurrentStock: 2, ReorderLevel: 5,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStockSheet(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetRows(StockSheetName)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "SKU", got[0][0])
	assert.Equal(t, "Low Stock", got[0][8])
	assert.Equal(t, []string{"BOLT-1", "Bolt", "Hardware", "1.5", "0.75", "10", "3", "7.5", "no"}, got[1])
	assert.Equal(t, "yes", got[2][8])
	assert.Equal(t, "Total", got[3][0])
	assert.Equal(t, "12", got[3][5])
	assert.Equal(t, "7.9", got[3][7])
}

func TestWriteStockSheet_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStockSheet(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetRows(StockSheetName)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Total", got[1][0])
}
