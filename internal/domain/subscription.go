package domain

import "time"

// Subscription is one member/subscription row exported by the club-management tool.
//
// Values are built once per row and never mutated afterwards; pass them by value.
// Date fields hold UTC instants: date-only fields are midnight UTC, and a datetime field
// may carry a schema-configured offset from midnight.
type Subscription struct {
	MembershipNumber MembershipNumber

	FirstName string
	LastName  string
	Email     string
	Telephone string

	// DateOfBirth is required by the full subscription export, absent in the narrower ones.
	DateOfBirth Optional[time.Time]

	EmergencyContactName   Optional[string]
	EmergencyContactNumber Optional[string]
	PrimaryClub            Optional[string]

	// ClubMembershipExpiry is the end of the club (not national body) membership.
	ClubMembershipExpiry Optional[time.Time]

	MembershipType   Optional[string]
	MembershipStatus Optional[string]
	// MembershipExpiry is the end of the national body membership.
	MembershipExpiry Optional[time.Time]
}

// FullName returns the member's first and last name joined by a single space.
func (s Subscription) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Import is a stored batch of subscriptions parsed from one export file.
type Import struct {
	ID     ImportID
	Source string
	Schema string

	Subscriptions []Subscription

	CreatedAt time.Time
}

// ImportSummary is the list shape of an Import, without its rows.
type ImportSummary struct {
	ID        ImportID
	Source    string
	Schema    string
	RowCount  int
	CreatedAt time.Time
}

func (i Import) Summary() ImportSummary {
	return ImportSummary{
		ID:        i.ID,
		Source:    i.Source,
		Schema:    i.Schema,
		RowCount:  len(i.Subscriptions),
		CreatedAt: i.CreatedAt,
	}
}
