package rowsource

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSX reads the first sheet of a workbook. The first non-empty row is the header.
type XLSX struct {
	header []string
	rows   []Row
	next   int
}

// NewXLSX loads the whole first sheet; the workbook is closed before it returns.
func NewXLSX(r io.Reader) (*XLSX, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("rowsource: open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("rowsource: workbook has no sheets")
	}
	cells, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("rowsource: read sheet %q: %w", sheet, err)
	}
	dates, err := newDateCells(f, sheet)
	if err != nil {
		return nil, err
	}

	x := &XLSX{}
	n := 0
	for i, row := range cells {
		if isBlank(row) {
			continue
		}
		if x.header == nil {
			x.header = normalizeHeader(row)
			continue
		}
		// GetRows drops trailing empty cells; a CSV row keeps them as "".
		for len(row) < len(x.header) {
			row = append(row, "")
		}
		for col, v := range row {
			if row[col], err = dates.text(col, i, v); err != nil {
				return nil, err
			}
		}
		n++
		x.rows = append(x.rows, Row{Number: n, Line: i + 1, Fields: zip(x.header, row)})
	}
	if x.header == nil {
		return nil, ErrNoHeader
	}
	return x, nil
}

// dateCells renders date-formatted serial numbers as DD/MM/YYYY, the way the export
// writes dates in CSV. Other cells keep their raw value.
type dateCells struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	byStyle  map[int]bool
}

func newDateCells(f *excelize.File, sheet string) (*dateCells, error) {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, fmt.Errorf("rowsource: workbook properties: %w", err)
	}
	return &dateCells{
		f:        f,
		sheet:    sheet,
		date1904: props.Date1904 != nil && *props.Date1904,
		byStyle:  map[int]bool{},
	}, nil
}

func (d *dateCells) text(col, row int, v string) (string, error) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return v, nil
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return "", err
	}
	styleID, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil {
		return "", fmt.Errorf("rowsource: style of %s: %w", cell, err)
	}
	isDate, ok := d.byStyle[styleID]
	if !ok {
		style, err := d.f.GetStyle(styleID)
		if err != nil {
			return "", fmt.Errorf("rowsource: style of %s: %w", cell, err)
		}
		isDate = isDateStyle(style)
		d.byStyle[styleID] = isDate
	}
	if !isDate {
		return v, nil
	}
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return v, nil
	}
	return t.Format("02/01/2006"), nil
}

func isDateStyle(s *excelize.Style) bool {
	if s == nil {
		return false
	}
	if s.CustomNumFmt != nil {
		return isDateFormatCode(*s.CustomNumFmt)
	}
	switch {
	case s.NumFmt >= 14 && s.NumFmt <= 17, s.NumFmt == 22:
		return true
	case s.NumFmt >= 27 && s.NumFmt <= 36, s.NumFmt >= 50 && s.NumFmt <= 58:
		// CJK locale date formats.
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom number format shows a day or a year.
// Quoted literals, escaped characters and bracketed sections such as [Red] are skipped.
func isDateFormatCode(code string) bool {
	inQuote := false
	inBracket := false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			inQuote = c != '"'
		case inBracket:
			inBracket = c != ']'
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\':
			i++
		case c == 'd', c == 'D', c == 'y', c == 'Y':
			return true
		}
	}
	return false
}

func (x *XLSX) Header() []string { return append([]string(nil), x.header...) }

func (x *XLSX) Next() (Row, error) {
	if x.next >= len(x.rows) {
		return Row{}, io.EOF
	}
	row := x.rows[x.next]
	x.next++
	return row, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
