// Package rowsource turns tabular exports into header-keyed rows.
//
// A Source yields one Row per data row, in file order. Keys are the header cells of the
// first row; the package knows nothing about which columns a caller needs.
package rowsource

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// ErrNoHeader indicates the input had no header row at all.
var ErrNoHeader = errors.New("rowsource: missing header row")

// Row is one data row keyed by header name.
type Row struct {
	// Number is the 1-based position among data rows (the header is not counted).
	Number int
	// Line is the physical line (CSV) or sheet row (XLSX) the row starts on.
	Line int

	Fields map[string]string
}

// Source yields rows in file order and returns io.EOF after the last one.
type Source interface {
	Next() (Row, error)
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ParseFormat accepts "csv" or "xlsx" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("rowsource: unsupported format %q", s)
	}
}

// Detect picks a format from a file name and/or a Content-Type value. CSV is the default.
func Detect(name, contentType string) Format {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt == xlsxContentType {
		return FormatXLSX
	}
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// zip maps cells onto header names. Cells past the header are dropped and a short row
// simply lacks the trailing keys.
func zip(header, cells []string) map[string]string {
	out := make(map[string]string, len(header))
	for i, h := range header {
		if i >= len(cells) {
			break
		}
		if h == "" {
			continue
		}
		out[h] = cells[i]
	}
	return out
}
