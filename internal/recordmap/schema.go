package recordmap

import (
	"fmt"
	"sort"
	"time"
)

// Target names a domain.Subscription field.
type Target string

const (
	FieldMembershipNumber       Target = "membership_number"
	FieldFirstName              Target = "first_name"
	FieldLastName               Target = "last_name"
	FieldEmail                  Target = "email"
	FieldTelephone              Target = "telephone"
	FieldDateOfBirth            Target = "date_of_birth"
	FieldEmergencyContactName   Target = "emergency_contact_name"
	FieldEmergencyContactNumber Target = "emergency_contact_number"
	FieldPrimaryClub            Target = "primary_club"
	FieldClubMembershipExpiry   Target = "club_membership_expiry"
	FieldMembershipType         Target = "membership_type"
	FieldMembershipStatus       Target = "membership_status"
	FieldMembershipExpiry       Target = "membership_expiry"
)

// Kind is the conversion applied to a raw cell.
type Kind int

const (
	// KindString passes the cell through unchanged.
	KindString Kind = iota
	// KindOptionalString treats an empty cell as absent.
	KindOptionalString
	// KindInt parses a base-10 integer, ignoring surrounding spaces.
	KindInt
	// KindDate parses DD/MM/YYYY as midnight UTC.
	KindDate
	// KindDateTime is KindDate shifted by Field.Offset.
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindOptionalString:
		return "optional string"
	case KindInt:
		return "int"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field is one row of a schema table. Required means the column must be present; a
// required date column also rejects an empty cell unless AllowEmpty is set.
type Field struct {
	Target     Target
	Alias      string
	Required   bool
	AllowEmpty bool
	Kind       Kind
	Offset     time.Duration
}

// Schema describes one export shape. Field order is the order errors are reported in.
type Schema struct {
	Name   string
	Fields []Field
}

const (
	SchemaPerson       = "person"
	SchemaContact      = "contact"
	SchemaSubscription = "subscription"
)

// DefaultPersonOffset is the shift the person export has always applied to end_dt.
// It roughly undoes the club tool's British Summer Time handling.
const DefaultPersonOffset = time.Hour

// targets lists the kinds each record field can hold.
var targets = map[Target][]Kind{
	FieldMembershipNumber:       {KindInt},
	FieldFirstName:              {KindString},
	FieldLastName:               {KindString},
	FieldEmail:                  {KindString},
	FieldTelephone:              {KindString},
	FieldDateOfBirth:            {KindDate, KindDateTime},
	FieldEmergencyContactName:   {KindString, KindOptionalString},
	FieldEmergencyContactNumber: {KindString, KindOptionalString},
	FieldPrimaryClub:            {KindString, KindOptionalString},
	FieldClubMembershipExpiry:   {KindDate, KindDateTime},
	FieldMembershipType:         {KindString, KindOptionalString},
	FieldMembershipStatus:       {KindString, KindOptionalString},
	FieldMembershipExpiry:       {KindDate, KindDateTime},
}

// Validate rejects unknown targets, duplicated targets and kinds the target cannot hold.
// Fields that back a non-optional record field must be required.
func (s Schema) Validate() error {
	seen := make(map[Target]bool, len(s.Fields))
	for _, f := range s.Fields {
		kinds, ok := targets[f.Target]
		if !ok {
			return fmt.Errorf("schema %q: unknown field %q", s.Name, f.Target)
		}
		if seen[f.Target] {
			return fmt.Errorf("schema %q: field %q mapped twice", s.Name, f.Target)
		}
		seen[f.Target] = true
		if f.Alias == "" {
			return fmt.Errorf("schema %q: field %q has no source column", s.Name, f.Target)
		}
		if !containsKind(kinds, f.Kind) {
			return fmt.Errorf("schema %q: field %q cannot hold %s", s.Name, f.Target, f.Kind)
		}
		if !f.Required && isPlainField(f.Target) {
			return fmt.Errorf("schema %q: field %q must be required", s.Name, f.Target)
		}
	}
	for _, t := range []Target{FieldMembershipNumber, FieldFirstName, FieldLastName, FieldEmail, FieldTelephone} {
		if !seen[t] {
			return fmt.Errorf("schema %q: field %q is not mapped", s.Name, t)
		}
	}
	return nil
}

func identityFields() []Field {
	return []Field{
		{Target: FieldMembershipNumber, Alias: "membership_number", Required: true, Kind: KindInt},
		{Target: FieldFirstName, Alias: "first_name", Required: true, Kind: KindString},
		{Target: FieldLastName, Alias: "last_name", Required: true, Kind: KindString},
		{Target: FieldEmail, Alias: "email", Required: true, Kind: KindString},
		{Target: FieldTelephone, Alias: "telephone_day", Required: true, Kind: KindString},
	}
}

// PersonSchema is the identity columns plus end_dt as a datetime shifted by offset.
func PersonSchema(offset time.Duration) Schema {
	return Schema{
		Name: SchemaPerson,
		Fields: append(identityFields(),
			Field{Target: FieldClubMembershipExpiry, Alias: "end_dt", Kind: KindDateTime, Offset: offset},
		),
	}
}

// ContactSchema has the person columns with end_dt unshifted. The end_dt column must be
// present but its cell may be empty.
func ContactSchema() Schema {
	return Schema{
		Name: SchemaContact,
		Fields: append(identityFields(),
			Field{Target: FieldClubMembershipExpiry, Alias: "end_dt", Required: true, AllowEmpty: true, Kind: KindDateTime},
		),
	}
}

// SubscriptionSchema maps every column the record knows about.
func SubscriptionSchema() Schema {
	return Schema{
		Name: SchemaSubscription,
		Fields: append(identityFields(),
			Field{Target: FieldDateOfBirth, Alias: "dob", Required: true, Kind: KindDate},
			Field{Target: FieldEmergencyContactName, Alias: "emergency_contact_name", Kind: KindOptionalString},
			Field{Target: FieldEmergencyContactNumber, Alias: "emergency_contact_number", Kind: KindOptionalString},
			Field{Target: FieldPrimaryClub, Alias: "primary_club", Kind: KindOptionalString},
			Field{Target: FieldClubMembershipExpiry, Alias: "end_dt", Kind: KindDate},
			Field{Target: FieldMembershipType, Alias: "membership_type", Required: true, Kind: KindString},
			Field{Target: FieldMembershipStatus, Alias: "membership_status", Required: true, Kind: KindString},
			Field{Target: FieldMembershipExpiry, Alias: "valid_to_dt", Kind: KindDate},
		),
	}
}

// SchemaByName returns a built-in schema. personOffset only affects the person schema.
func SchemaByName(name string, personOffset time.Duration) (Schema, error) {
	switch name {
	case SchemaPerson:
		return PersonSchema(personOffset), nil
	case SchemaContact:
		return ContactSchema(), nil
	case SchemaSubscription:
		return SubscriptionSchema(), nil
	default:
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
}

// SchemaNames lists the built-in schema names, sorted.
func SchemaNames() []string {
	out := []string{SchemaPerson, SchemaContact, SchemaSubscription}
	sort.Strings(out)
	return out
}

func containsKind(ks []Kind, k Kind) bool {
	for _, v := range ks {
		if v == k {
			return true
		}
	}
	return false
}

// isPlainField reports whether the record stores target without an Optional wrapper.
func isPlainField(t Target) bool {
	return len(targets[t]) == 1 && (targets[t][0] == KindString || targets[t][0] == KindInt)
}
