package rowsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// CSV reads comma-separated rows with standard quoting. Blank lines are skipped.
type CSV struct {
	r      *csv.Reader
	header []string
	n      int
}

// NewCSV reads the header row immediately.
func NewCSV(r io.Reader) (*CSV, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("rowsource: read header: %w", err)
	}
	return &CSV{r: cr, header: normalizeHeader(header)}, nil
}

// Header returns the normalized header names.
func (c *CSV) Header() []string { return append([]string(nil), c.header...) }

func (c *CSV) Next() (Row, error) {
	rec, err := c.r.Read()
	if errors.Is(err, io.EOF) {
		return Row{}, io.EOF
	}
	if err != nil {
		return Row{}, fmt.Errorf("rowsource: read row %d: %w", c.n+1, err)
	}
	line, _ := c.r.FieldPos(0)
	c.n++
	return Row{Number: c.n, Line: line, Fields: zip(c.header, rec)}, nil
}
