package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/stwalsh4118/campusplan/internal/models"
)

// ParseCSV reads a comma-separated commute dataset. The first row is a
// header and is skipped regardless of its text.
func ParseCSV(r io.Reader) ([]models.CommuteRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		for i := range row {
			row[i] = strings.TrimRight(row[i], "\r")
		}
		rows = append(rows, row)
	}

	return recordsFromRows(rows)
}
