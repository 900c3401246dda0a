package recordmap

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrEmptyRequired is the cause recorded when a required value is present but empty.
var ErrEmptyRequired = errors.New("required value is empty")

// ErrUnknownSchema is returned by SchemaByName.
var ErrUnknownSchema = errors.New("unknown schema")

// FileNotFoundError reports that a path does not name an existing regular file.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string { return fmt.Sprintf("file not found: %q", e.Path) }
func (e *FileNotFoundError) Unwrap() error { return fs.ErrNotExist }

// FormatError reports a non-empty date string that does not match DD/MM/YYYY.
type FormatError struct {
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("date %q does not match DD/MM/YYYY", e.Value)
}

func (e *FormatError) Unwrap() error { return e.Err }

// MissingFieldError reports a required source column absent from a row.
type MissingFieldError struct {
	Column string
	// Row is the 1-based data row, 0 when the row was not read from a source.
	Row  int
	Line int
}

func (e *MissingFieldError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("missing required column %q", e.Column)
	}
	return fmt.Sprintf("row %d (line %d): missing required column %q", e.Row, e.Line, e.Column)
}

// FieldError is one failed conversion.
type FieldError struct {
	Field  Target
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s (column %q, value %q): %v", e.Field, e.Column, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ValidationError collects every field error of one row.
type ValidationError struct {
	Row    int
	Line   int
	Errors []*FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Error())
	}
	prefix := "invalid row"
	if e.Row != 0 {
		prefix = fmt.Sprintf("row %d (line %d)", e.Row, e.Line)
	}
	return prefix + ": " + strings.Join(msgs, "; ")
}

// Unwrap exposes the field errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	out := make([]error, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe)
	}
	return out
}

// Fields lists the failed target fields in schema order.
func (e *ValidationError) Fields() []Target {
	out := make([]Target, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe.Field)
	}
	return out
}
