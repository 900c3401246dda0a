package domain

import "strconv"

// MembershipNumber is the source system's profile/login identifier.
// It is assigned to anyone with a profile, so it does not imply a current membership.
type MembershipNumber int64

func (n MembershipNumber) String() string { return strconv.FormatInt(int64(n), 10) }

// ImportID is an internal identifier for one stored import batch.
type ImportID string
