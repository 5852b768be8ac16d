package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// HeaderRow is the column header written to new sheets
var HeaderRow = []string{
	"Subject", "Topic", "Status", "Last Revised", "Notes",
	"Date Studied", "Next Due", "", "Revision Count",
}

// FirstDataRow is the 1-based sheet row holding topic index 0
const FirstDataRow = 2

// SheetRow converts a topic index into a 1-based sheet row number
func SheetRow(rowIndex int) int {
	return rowIndex + FirstDataRow
}

// CellName returns the A1 reference for a topic index and field position
func CellName(rowIndex, field int) (string, error) {
	if rowIndex < 0 || field < 0 {
		return "", fmt.Errorf("invalid cell position row=%d field=%d", rowIndex, field)
	}
	return excelize.CoordinatesToCellName(field+1, SheetRow(rowIndex))
}
