package excel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Workbook stores topic rows in a local .xlsx file.
// Row 1 of the sheet is the header; topic i lives on row i+2.
type Workbook struct {
	mu    sync.Mutex
	path  string
	sheet string
}

// OpenWorkbook prepares a workbook store, creating the file with a header
// row if it does not exist yet
func OpenWorkbook(path, sheet string) (*Workbook, error) {
	if sheet == "" {
		sheet = "Sheet1"
	}
	w := &Workbook{path: path, sheet: sheet}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := w.create(); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat workbook: %w", err)
	}

	return w, nil
}

func (w *Workbook) create() error {
	if dir := filepath.Dir(w.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create workbook directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if w.sheet != "Sheet1" {
		f.SetSheetName("Sheet1", w.sheet)
	}

	header := make([]interface{}, len(HeaderRow))
	for i, h := range HeaderRow {
		header[i] = h
	}
	if err := f.SetSheetRow(w.sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// FetchAllRows returns every data row below the header
func (w *Workbook) FetchAllRows(ctx context.Context) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	if len(rows) < FirstDataRow {
		return [][]string{}, nil
	}
	return rows[FirstDataRow-1:], nil
}

// AppendRow writes row after the last non-empty sheet row
func (w *Workbook) AppendRow(ctx context.Context, row []string) error {
	return w.update(ctx, func(f *excelize.File) error {
		rows, err := f.GetRows(w.sheet)
		if err != nil {
			return fmt.Errorf("failed to get rows: %w", err)
		}

		next := len(rows) + 1
		if next < FirstDataRow {
			next = FirstDataRow
		}

		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}

		cell, err := excelize.CoordinatesToCellName(1, next)
		if err != nil {
			return err
		}
		return f.SetSheetRow(w.sheet, cell, &values)
	})
}

// WriteCells overwrites the given field positions of one topic row
func (w *Workbook) WriteCells(ctx context.Context, rowIndex int, cells map[int]string) error {
	return w.update(ctx, func(f *excelize.File) error {
		fields := make([]int, 0, len(cells))
		for field := range cells {
			fields = append(fields, field)
		}
		sort.Ints(fields)

		for _, field := range fields {
			cell, err := CellName(rowIndex, field)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(w.sheet, cell, cells[field]); err != nil {
				return fmt.Errorf("failed to set %s: %w", cell, err)
			}
		}
		return nil
	})
}

func (w *Workbook) update(ctx context.Context, fn func(f *excelize.File) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return err
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
