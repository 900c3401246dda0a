package imports

import (
	"io"

	"github.com/Overland-East-Bay/club-subscriptions/internal/rowsource"
)

// ImportInput is one uploaded export.
type ImportInput struct {
	// Source is the client's file name, kept for display only.
	Source string
	Format rowsource.Format
	// Schema names a recordmap schema; empty means the service default.
	Schema string

	Body io.Reader
}
