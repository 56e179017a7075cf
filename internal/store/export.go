package store

import (
	"fmt"

	"github.com/JonMunkholm/inventory/internal/core"
)

// DefaultExportName is the download file name offered to the browser.
const DefaultExportName = "inventory_export.xlsx"

// Exporter renders a table as a downloadable workbook without touching the
// backing file.
type Exporter struct {
	FileName string
	Sheet    string
}

// NewExporter returns an exporter; empty arguments select the defaults.
func NewExporter(fileName, sheet string) *Exporter {
	if fileName == "" {
		fileName = DefaultExportName
	}
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &Exporter{FileName: fileName, Sheet: sheet}
}

// Export returns the workbook bytes for t.
func (e *Exporter) Export(t core.Table) ([]byte, error) {
	f, err := buildWorkbook(e.Sheet, t)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType returns the MIME type of exported files.
func (e *Exporter) ContentType() string { return ContentType }
