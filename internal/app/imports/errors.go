package imports

import "fmt"

// Error is an application error carrying the HTTP status and machine code the transport
// layer reports. Err, when set, is the underlying recordmap or rowsource error.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }
