package rowsource

import (
	"fmt"
	"io"
)

// Open returns a Source for the given format.
func Open(format Format, r io.Reader) (Source, error) {
	switch format {
	case FormatCSV, "":
		return NewCSV(r)
	case FormatXLSX:
		return NewXLSX(r)
	default:
		return nil, fmt.Errorf("rowsource: unsupported format %q", format)
	}
}
