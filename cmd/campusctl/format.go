package main

import (
	"encoding/json"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
)

// stderr receives warnings; tests swap it out.
var stderr io.Writer = os.Stderr

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSF renders square feet with thousands separators ("8,685 SF").
func formatSF(sf int) string {
	neg := sf < 0
	if neg {
		sf = -sf
	}
	digits := strconv.Itoa(sf)
	out := make([]byte, 0, len(digits)+len(digits)/3+4)
	if neg {
		out = append(out, '-')
	}
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return string(out) + " SF"
}
