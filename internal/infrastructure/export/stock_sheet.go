// Package export renders reports as spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"inventory/internal/core/types"
	"inventory/internal/domain/reports"
)

// ContentTypeXLSX is the media type of the produced workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StockSheetName is the name of the only sheet in the stock workbook.
const StockSheetName = "Stock"

var stockHeaders = []any{"SKU", "Name", "Category", "Price", "Cost Price", "Current Stock", "Reorder Level", "Stock Value", "Low Stock"}

// WriteStockSheet writes one row per product plus a totals row as an xlsx workbook.
func WriteStockSheet(w io.Writer, rows []reports.StockRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", StockSheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	lowStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FCE4D6"}},
	})
	if err != nil {
		return fmt.Errorf("low stock style: %w", err)
	}

	if err := f.SetSheetRow(StockSheetName, "A1", &stockHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(StockSheetName, "A1", "I1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	total := types.Zero()
	var units int64
	for i, r := range rows {
		rowNo := i + 2
		value := r.StockValue()
		total = total.Add(value)
		units += r.CurrentStock

		low := "no"
		if r.IsLowStock() {
			low = "yes"
		}
		cells := []any{
			r.SKU, r.Name, r.CategoryName,
			r.Price.InexactFloat64(), r.CostPrice.InexactFloat64(),
			r.CurrentStock, r.ReorderLevel,
			value.InexactFloat64(), low,
		}
		if err := f.SetSheetRow(StockSheetName, fmt.Sprintf("A%d", rowNo), &cells); err != nil {
			return fmt.Errorf("write row %d: %w", rowNo, err)
		}
		if r.IsLowStock() {
			if err := f.SetCellStyle(StockSheetName, fmt.Sprintf("A%d", rowNo), fmt.Sprintf("I%d", rowNo), lowStyle); err != nil {
				return fmt.Errorf("style row %d: %w", rowNo, err)
			}
		}
	}

	totalRow := len(rows) + 2
	totals := []any{"Total", nil, nil, nil, nil, units, nil, total.InexactFloat64()}
	if err := f.SetSheetRow(StockSheetName, fmt.Sprintf("A%d", totalRow), &totals); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}
	if err := f.SetCellStyle(StockSheetName, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("I%d", totalRow), headerStyle); err != nil {
		return fmt.Errorf("style totals: %w", err)
	}

	if err := f.SetColWidth(StockSheetName, "A", "C", 24); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	if err := f.SetPanes(StockSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
