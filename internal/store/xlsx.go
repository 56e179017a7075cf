package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/logging"
)

// XLSX is a core.Store backed by a single workbook on disk. Every Save
// rewrites the whole file.
type XLSX struct {
	path  string
	sheet string
}

// New returns a store for the workbook at path. An empty sheet selects
// DefaultSheet.
func New(path, sheet string) *XLSX {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &XLSX{path: path, sheet: sheet}
}

// Path returns the backing file location.
func (s *XLSX) Path() string { return s.path }

// Load reads the workbook. A missing file yields an empty table. The
// configured sheet is read when present, otherwise the first sheet.
func (s *XLSX) Load(ctx context.Context) (core.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.FromContext(ctx).Info("inventory file not found, starting empty", "path", s.path)
			return core.Table{}, nil
		}
		return nil, &core.PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	defer f.Close()

	sheet := s.readSheet(f)
	if sheet == "" {
		return core.Table{}, nil
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &core.PersistenceError{Op: "load", Path: s.path, Err: err}
	}

	t, skipped := rowsToTable(rows, sheetNumericCell(f, sheet))
	if len(skipped) > 0 {
		logging.WithFields(ctx, "path", s.path, "sheet", sheet).
			Warn("rows without SKU skipped", "rows", skipped)
	}
	return t, nil
}

func (s *XLSX) readSheet(f *excelize.File) string {
	sheets := f.GetSheetList()
	for _, name := range sheets {
		if name == s.sheet {
			return name
		}
	}
	if len(sheets) > 0 {
		return sheets[0]
	}
	return ""
}

// Save writes t to a temporary file next to the target and renames it into
// place, so a failed save never leaves a truncated workbook behind.
func (s *XLSX) Save(ctx context.Context, t core.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := buildWorkbook(s.sheet, t)
	if err != nil {
		return &core.PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	defer f.Close()

	if err := s.writeAtomic(f); err != nil {
		return &core.PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	logging.FromContext(ctx).Debug("inventory saved", "path", s.path, "products", len(t))
	return nil
}

func (s *XLSX) writeAtomic(f *excelize.File) (err error) {
	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.NewString()))

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err = f.Write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}

var _ core.Store = (*XLSX)(nil)
