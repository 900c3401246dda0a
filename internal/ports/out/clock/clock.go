package clock

import "time"

// Clock stamps imports. Tests swap in a manual clock.
type Clock interface {
	Now() time.Time
}
