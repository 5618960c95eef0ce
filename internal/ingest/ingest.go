package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/stwalsh4118/campusplan/internal/models"
)

var (
	// ErrUnsupportedFormat is returned for file names that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	// ErrMissingHeader is returned when the input has no rows at all.
	ErrMissingHeader = errors.New("dataset has no header row")
)

// Format identifies a dataset encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Column positions. Header text is never consulted.
const (
	colZCTA = iota
	colLatitude
	colLongitude
	colCrowFliesKm
	colCarDistanceKm
	colCarDurationMin
	colCarError
	colTransitDistanceKm
	colTransitDurationMin
	colTransitError
	colPeople

	// ColumnCount is the number of positional columns in a dataset row.
	ColumnCount
)

// DetectFormat picks the format from a file name's extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Parse decodes data according to the extension of name.
func Parse(name string, data []byte) ([]models.CommuteRecord, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return ParseXLSX(data)
	default:
		return ParseCSV(bytes.NewReader(data))
	}
}

// recordsFromRows turns raw rows (header first) into records.
// Blank rows are skipped and short rows are padded with empty fields.
func recordsFromRows(rows [][]string) ([]models.CommuteRecord, error) {
	if len(rows) == 0 {
		return nil, ErrMissingHeader
	}

	records := make([]models.CommuteRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		records = append(records, recordFromRow(pad(row)))
	}
	return records, nil
}

func recordFromRow(f []string) models.CommuteRecord {
	return models.CommuteRecord{
		ZCTA:        strings.TrimSpace(f[colZCTA]),
		Latitude:    parseFloat(f[colLatitude]),
		Longitude:   parseFloat(f[colLongitude]),
		CrowFliesKm: parseFloat(f[colCrowFliesKm]),
		Car: models.Route{
			DistanceKm:  parseFloat(f[colCarDistanceKm]),
			DurationMin: parseFloat(f[colCarDurationMin]),
			Error:       parseRouteError(f[colCarError]),
		},
		Transit: models.Route{
			DistanceKm:  parseFloat(f[colTransitDistanceKm]),
			DurationMin: parseFloat(f[colTransitDurationMin]),
			Error:       parseRouteError(f[colTransitError]),
		},
		People: parsePeople(f[colPeople]),
	}
}

func pad(row []string) []string {
	if len(row) >= ColumnCount {
		return row
	}
	out := make([]string, ColumnCount)
	copy(out, row)
	return out
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseFloat coerces a text field, yielding 0 for anything unparseable.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// parsePeople accepts whole numbers and truncates fractional ones.
func parsePeople(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return max(n, 0)
	}
	v := parseFloat(s)
	if v <= 0 {
		return 0
	}
	return int(math.Trunc(v))
}

// parseRouteError maps an empty or literal null field to no error.
func parseRouteError(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	return &s
}
