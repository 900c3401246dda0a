package recordmap

import (
	"time"

	"github.com/Overland-East-Bay/club-subscriptions/internal/domain"
)

// DateLayout is the export's calendar format: DD/MM/YYYY, zero padded.
const DateLayout = "02/01/2006"

// NormalizeDate parses an export date as midnight UTC. The empty string is absent.
func NormalizeDate(s string) (domain.Optional[time.Time], error) {
	return NormalizeDateTime(s, 0)
}

// NormalizeDateTime is NormalizeDate followed by a fixed shift. The export carries no zone
// information, so offset is the only way a time of day enters the value.
func NormalizeDateTime(s string, offset time.Duration) (domain.Optional[time.Time], error) {
	if s == "" {
		return domain.None[time.Time](), nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return domain.None[time.Time](), &FormatError{Value: s, Err: err}
	}
	return domain.Some(t.Add(offset)), nil
}
