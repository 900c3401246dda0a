package recordmap

import (
	"strconv"
	"strings"
	"time"

	"github.com/Overland-East-Bay/club-subscriptions/internal/domain"
	"github.com/Overland-East-Bay/club-subscriptions/internal/rowsource"
)

// Mapper turns rows into subscriptions using one schema. It holds no mutable state.
type Mapper struct {
	schema Schema
}

func NewMapper(schema Schema) (*Mapper, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &Mapper{schema: schema}, nil
}

func (m *Mapper) Schema() Schema { return m.schema }

// Alias keeps the schema's columns of row, keyed by target field. Unknown columns are
// dropped; an absent optional column is simply not in the result.
func Alias(row rowsource.Row, schema Schema) (map[Target]string, error) {
	out := make(map[Target]string, len(schema.Fields))
	for _, f := range schema.Fields {
		v, ok := row.Fields[f.Alias]
		if !ok {
			if f.Required {
				return nil, &MissingFieldError{Column: f.Alias, Row: row.Number, Line: row.Line}
			}
			continue
		}
		out[f.Target] = v
	}
	return out, nil
}

// Map is MapRow for a bare column→value mapping.
func (m *Mapper) Map(fields map[string]string) (domain.Subscription, error) {
	return m.MapRow(rowsource.Row{Fields: fields})
}

// MapRow aliases and converts one row. Conversion failures of all fields are returned
// together as a *ValidationError.
func (m *Mapper) MapRow(row rowsource.Row) (domain.Subscription, error) {
	aliased, err := Alias(row, m.schema)
	if err != nil {
		return domain.Subscription{}, err
	}

	var (
		sub  domain.Subscription
		errs []*FieldError
	)
	for _, f := range m.schema.Fields {
		raw, ok := aliased[f.Target]
		if !ok {
			continue
		}
		v, err := convert(f, raw)
		if err != nil {
			errs = append(errs, &FieldError{Field: f.Target, Column: f.Alias, Value: raw, Err: err})
			continue
		}
		assign(&sub, f.Target, v)
	}
	if len(errs) > 0 {
		return domain.Subscription{}, &ValidationError{Row: row.Number, Line: row.Line, Errors: errs}
	}
	return sub, nil
}

// value is the converted form of one cell; which member is meaningful depends on kind.
type value struct {
	kind Kind
	num  int64
	str  domain.Optional[string]
	date domain.Optional[time.Time]
}

func convert(f Field, raw string) (value, error) {
	v := value{kind: f.Kind}
	switch f.Kind {
	case KindString:
		v.str = domain.Some(raw)
	case KindOptionalString:
		if raw != "" {
			v.str = domain.Some(raw)
		}
	case KindInt:
		s := strings.TrimSpace(raw)
		if s == "" {
			return v, ErrEmptyRequired
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return v, err
		}
		v.num = n
	case KindDate, KindDateTime:
		offset := time.Duration(0)
		if f.Kind == KindDateTime {
			offset = f.Offset
		}
		d, err := NormalizeDateTime(raw, offset)
		if err != nil {
			return v, err
		}
		if f.Required && !f.AllowEmpty && !d.IsSet() {
			return v, ErrEmptyRequired
		}
		v.date = d
	}
	return v, nil
}

func assign(sub *domain.Subscription, t Target, v value) {
	switch t {
	case FieldMembershipNumber:
		sub.MembershipNumber = domain.MembershipNumber(v.num)
	case FieldFirstName:
		sub.FirstName = v.str.OrZero()
	case FieldLastName:
		sub.LastName = v.str.OrZero()
	case FieldEmail:
		sub.Email = v.str.OrZero()
	case FieldTelephone:
		sub.Telephone = v.str.OrZero()
	case FieldDateOfBirth:
		sub.DateOfBirth = v.date
	case FieldEmergencyContactName:
		sub.EmergencyContactName = v.str
	case FieldEmergencyContactNumber:
		sub.EmergencyContactNumber = v.str
	case FieldPrimaryClub:
		sub.PrimaryClub = v.str
	case FieldClubMembershipExpiry:
		sub.ClubMembershipExpiry = v.date
	case FieldMembershipType:
		sub.MembershipType = v.str
	case FieldMembershipStatus:
		sub.MembershipStatus = v.str
	case FieldMembershipExpiry:
		sub.MembershipExpiry = v.date
	}
}
