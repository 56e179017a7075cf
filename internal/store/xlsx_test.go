package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/inventory/internal/core"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// writeRaw writes rows verbatim into a workbook at path, bypassing the store.
func writeRaw(t *testing.T, path, sheet string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestXLSX_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "inventory.xlsx")
	s := New(path, "")

	want := core.Table{
		core.NewProduct("A1", "Lamp", 3, dec("12.5")),
		core.NewProduct("007", "Agent kit", 0, dec("0")),
		core.NewProduct("B2", "", 1200, dec("0.99")),
		core.NewProduct("1.0", `Pipe 12"`, 2, dec("4")),
		core.NewProduct("=lamp", "=SUM(A1:A2)", 1, dec("1")),
		core.NewProduct("'quoted'", "'single' and \"double\"", 1, dec("1")),
	}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].SKU, got[i].SKU)
		assert.Equal(t, want[i].Description, got[i].Description)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.True(t, want[i].PurchaseValue.Equal(got[i].PurchaseValue), "purchase %s", got[i].PurchaseValue)
		assert.True(t, want[i].TotalValue.Equal(got[i].TotalValue), "total %s", got[i].TotalValue)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestXLSX_LoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.xlsx"), "")
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestXLSX_LoadCoercesCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messy.xlsx")
	writeRaw(t, path, "Stock", [][]interface{}{
		{"Description", "SKU", "Quantity", "PurchaseValue", "TotalValue"},
		{"Lamp", "A1", "3", "12.50", "999"},
		{"Broken", "B2", "n/a", "cheap", ""},
		{"Negative", "C3", -4, 2, ""},
		{"Fraction", "D4", 2.7, "$1,000.00", ""},
		{"", "", "", "", ""},
		{"Orphan", "", 5, 1, 5},
		{"Numeric SKU", 123, 1, 1, 1},
	})

	got, err := New(path, "").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.Equal(t, "A1", got[0].SKU)
	assert.True(t, dec("37.5").Equal(got[0].TotalValue), "total is recomputed, not read")

	assert.Equal(t, 0, got[1].Quantity)
	assert.True(t, got[1].PurchaseValue.IsZero())

	assert.Equal(t, 0, got[2].Quantity, "negative quantity clamps to zero")
	assert.Equal(t, 2, got[3].Quantity, "fraction truncates")
	assert.True(t, dec("1000").Equal(got[3].PurchaseValue))

	assert.Equal(t, "123", got[4].SKU)
	assert.Equal(t, "Numeric SKU", got[4].Description)
}

func TestXLSX_LoadKeepsTextCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.xlsx")
	writeRaw(t, path, DefaultSheet, [][]interface{}{
		{"SKU", "Description", "Quantity", "PurchaseValue", "TotalValue"},
		{"2.0", `  Pipe 12"  `, 1, 1, 1},
		{"=x", "'quoted'", 1, 1, 1},
	})

	got, err := New(path, "").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2.0", got[0].SKU, "text cells keep a trailing .0")
	assert.Equal(t, `Pipe 12"`, got[0].Description)
	assert.Equal(t, "=x", got[1].SKU)
	assert.Equal(t, "'quoted'", got[1].Description)
}

func TestXLSX_LoadPrefersConfiguredSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Notes"))
	_, err := f.NewSheet("Inventory")
	require.NoError(t, err)
	header := []interface{}{"SKU", "Description", "Quantity", "PurchaseValue", "TotalValue"}
	require.NoError(t, f.SetSheetRow("Inventory", "A1", &header))
	row := []interface{}{"Z9", "Zebra", 1, 1, 1}
	require.NoError(t, f.SetSheetRow("Inventory", "A2", &row))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	got, err := New(path, "Inventory").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Z9", got[0].SKU)
}

func TestXLSX_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	_, err := New(path, "").Load(context.Background())
	var pe *core.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "load", pe.Op)
}

func TestXLSX_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	// A regular file used as a directory makes every write fail, even as root.
	plain := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(plain, []byte("x"), 0o644))

	s := New(filepath.Join(plain, "inventory.xlsx"), "")
	err := s.Save(context.Background(), core.Table{core.NewProduct("A1", "", 1, dec("1"))})

	var pe *core.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "save", pe.Op)
	assert.Equal(t, s.Path(), pe.Path)
	assert.Equal(t, "FILE002", core.MapError(err).Code)
}

func TestXLSX_SaveKeepsPreviousFileOnFailure(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "inventory.xlsx")
	s := New(path, "")
	require.NoError(t, s.Save(ctx, core.Table{core.NewProduct("A1", "", 1, dec("1"))}))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, s.Save(cancelled, core.Table{}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestExporter_Export(t *testing.T) {
	e := NewExporter("", "")
	assert.Equal(t, DefaultExportName, e.FileName)
	assert.Equal(t, ContentType, e.ContentType())

	data, err := e.Export(core.Table{
		core.NewProduct("A1", "Lamp", 5, dec("2")),
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DefaultSheet}, f.GetSheetList())
	rows, err := f.GetRows(DefaultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, core.Columns, rows[0])
	assert.Equal(t, "A1", rows[1][0])
	assert.Equal(t, "10.00", rows[1][4], "money columns are formatted with two decimals")
}

func TestExporter_EmptyTable(t *testing.T) {
	data, err := NewExporter("stock.xlsx", "Stock").Export(core.Table{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Stock")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
