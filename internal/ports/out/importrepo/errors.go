package importrepo

import "errors"

var (
	// ErrNotFound indicates the requested import does not exist.
	ErrNotFound = errors.New("import not found")

	// ErrAlreadyExists indicates an import already exists with the provided ID.
	ErrAlreadyExists = errors.New("import already exists")
)
