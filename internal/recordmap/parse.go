package recordmap

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/Overland-East-Bay/club-subscriptions/internal/domain"
	"github.com/Overland-East-Bay/club-subscriptions/internal/rowsource"
)

// ReadAll maps every row of src, in order. The first failing row aborts the read and no
// records are returned.
func (m *Mapper) ReadAll(src rowsource.Source) ([]domain.Subscription, error) {
	out := make([]domain.Subscription, 0)
	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		sub, err := m.MapRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
}

// ParseFile reads a CSV (or .xlsx) export from disk. Errors other than
// *FileNotFoundError are prefixed with the path.
func (m *Mapper) ParseFile(path string) ([]domain.Subscription, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, &FileNotFoundError{Path: path}
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer f.Close()

	src, err := rowsource.Open(rowsource.Detect(path, ""), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	subs, err := m.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return subs, nil
}

// ParseFile reads path with schema.
func ParseFile(path string, schema Schema) ([]domain.Subscription, error) {
	m, err := NewMapper(schema)
	if err != nil {
		return nil, err
	}
	return m.ParseFile(path)
}
