package ingest

import (
	"errors"
	"fmt"

	"github.com/tealeg/xlsx/v2"

	"github.com/stwalsh4118/campusplan/internal/models"
)

var errNoSheets = errors.New("workbook has no sheets")

// ParseXLSX reads the first sheet of a workbook using the same positional
// layout as ParseCSV.
func ParseXLSX(data []byte) ([]models.CommuteRecord, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open workbook: %w", err)
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("xlsx: %w", errNoSheets)
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rows = append(rows, rowToStrings(row))
	}

	return recordsFromRows(rows)
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
