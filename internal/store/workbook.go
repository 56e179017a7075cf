// Package store persists the product table as an xlsx workbook.
package store

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/inventory/internal/core"
)

// DefaultSheet is the worksheet the table is written to.
const DefaultSheet = "Inventory"

// ContentType is the MIME type of an xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// moneyFormat is the built-in "0.00" number format.
const moneyFormat = 2

// buildWorkbook renders t into a new single-sheet workbook with the fixed
// header row. The caller owns the returned file and must Close it.
func buildWorkbook(sheet string, t core.Table) (*excelize.File, error) {
	if strings.TrimSpace(sheet) == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	// Column styles first so the cells written below pick them up.
	style, err := f.NewStyle(&excelize.Style{NumFmt: moneyFormat})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("money style: %w", err)
	}
	if err := f.SetColStyle(sheet, "D:E", style); err != nil {
		f.Close()
		return nil, fmt.Errorf("apply money style: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 40); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]interface{}, len(core.Columns))
	for i, c := range core.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, p := range t {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []interface{}{
			p.SKU,
			p.Description,
			p.Quantity,
			p.PurchaseValue.InexactFloat64(),
			p.TotalValue.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f, nil
}

// numericCell reports whether the cell at zero-based (row, col) of the sheet
// holds a number rather than text.
type numericCell func(row, col int) bool

// rowsToTable converts sheet rows (header first) into products.
//
// Cells are coerced, never rejected: bad numbers become zero, negative
// quantities become zero and fractional quantities are truncated. TotalValue is
// always recomputed. SKU and Description text is only trimmed. Blank rows are
// dropped; rows without a SKU are returned in skipped (1-based sheet row
// numbers).
func rowsToTable(rows [][]string, numeric numericCell) (t core.Table, skipped []int) {
	t = core.Table{}
	if len(rows) == 0 {
		return t, nil
	}

	idx := core.MakeHeaderIndex(rows[0])
	if _, ok := idx.Pos(core.ColSKU); !ok {
		// No recognizable header: assume the fixed column order.
		idx = core.MakeHeaderIndex(core.Columns)
	}
	skuCol, _ := idx.Pos(core.ColSKU)

	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		sku := core.CoerceText(idx.Cell(row, core.ColSKU), numeric(i+1, skuCol))
		if sku == "" {
			skipped = append(skipped, i+2)
			continue
		}
		t = append(t, core.NewProduct(
			sku,
			strings.TrimSpace(idx.Cell(row, core.ColDescription)),
			core.CoerceQuantity(idx.Cell(row, core.ColQuantity)),
			core.CoerceMoney(idx.Cell(row, core.ColPurchaseValue)),
		))
	}
	return t, skipped
}

// sheetNumericCell reports number cells of sheet. Cells without a type
// attribute are numbers in the xlsx format.
func sheetNumericCell(f *excelize.File, sheet string) numericCell {
	return func(row, col int) bool {
		cell, err := excelize.CoordinatesToCellName(col+1, row+1)
		if err != nil {
			return false
		}
		typ, err := f.GetCellType(sheet, cell)
		if err != nil {
			return false
		}
		return typ == excelize.CellTypeNumber || typ == excelize.CellTypeUnset
	}
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
