package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/club-subscriptions/internal/domain"
)

// CreateImportParams are the query parameters of POST /imports.
type CreateImportParams struct {
	Schema *string `form:"schema,omitempty" json:"schema,omitempty"`
	Source *string `form:"source,omitempty" json:"source,omitempty"`
	// Format overrides detection from Content-Type and the source name: csv or xlsx.
	Format *string `form:"format,omitempty" json:"format,omitempty"`
}

type ImportSummary struct {
	ImportId  string    `json:"importId"`
	Source    string    `json:"source"`
	Schema    string    `json:"schema"`
	RowCount  int       `json:"rowCount"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateImportResponse struct {
	Import ImportSummary `json:"import"`
}

type GetImportResponse struct {
	Import ImportSummary `json:"import"`
}

type ListImportsResponse struct {
	Imports []ImportSummary `json:"imports"`
}

// Subscription is one member subscription record. Absent optional values are sent as
// explicit nulls.
type Subscription struct {
	MembershipNumber       int64                                 `json:"membershipNumber"`
	FirstName              string                                `json:"firstName"`
	LastName               string                                `json:"lastName"`
	FullName               string                                `json:"fullName"`
	Email                  openapi_types.Email                   `json:"email"`
	Telephone              string                                `json:"telephone"`
	DateOfBirth            nullable.Nullable[openapi_types.Date] `json:"dateOfBirth"`
	EmergencyContactName   nullable.Nullable[string]             `json:"emergencyContactName"`
	EmergencyContactNumber nullable.Nullable[string]             `json:"emergencyContactNumber"`
	PrimaryClub            nullable.Nullable[string]             `json:"primaryClub"`
	ClubMembershipExpiry   nullable.Nullable[time.Time]          `json:"clubMembershipExpiry"`
	MembershipType         nullable.Nullable[string]             `json:"membershipType"`
	MembershipStatus       nullable.Nullable[string]             `json:"membershipStatus"`
	MembershipExpiry       nullable.Nullable[openapi_types.Date] `json:"membershipExpiry"`
}

type ListImportSubscriptionsResponse struct {
	ImportId      string         `json:"importId"`
	Subscriptions []Subscription `json:"subscriptions"`
}

type ErrorResponse struct {
	Error struct {
		Code      string                            `json:"code"`
		Message   string                            `json:"message"`
		Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
		RequestId nullable.Nullable[string]         `json:"requestId,omitempty"`
	} `json:"error"`
}

func importSummaryFromDomain(s domain.ImportSummary) ImportSummary {
	return ImportSummary{
		ImportId:  string(s.ID),
		Source:    s.Source,
		Schema:    s.Schema,
		RowCount:  s.RowCount,
		CreatedAt: s.CreatedAt.UTC(),
	}
}

func subscriptionFromDomain(s domain.Subscription) Subscription {
	return Subscription{
		MembershipNumber:       int64(s.MembershipNumber),
		FirstName:              s.FirstName,
		LastName:               s.LastName,
		FullName:               s.FullName(),
		Email:                  openapi_types.Email(s.Email),
		Telephone:              s.Telephone,
		DateOfBirth:            nullableDate(s.DateOfBirth),
		EmergencyContactName:   nullableOf(s.EmergencyContactName),
		EmergencyContactNumber: nullableOf(s.EmergencyContactNumber),
		PrimaryClub:            nullableOf(s.PrimaryClub),
		ClubMembershipExpiry:   nullableTime(s.ClubMembershipExpiry),
		MembershipType:         nullableOf(s.MembershipType),
		MembershipStatus:       nullableOf(s.MembershipStatus),
		MembershipExpiry:       nullableDate(s.MembershipExpiry),
	}
}

func nullableOf[T any](o domain.Optional[T]) nullable.Nullable[T] {
	if v, ok := o.Get(); ok {
		return nullable.NewNullableWithValue(v)
	}
	return nullable.NewNullNullable[T]()
}

func nullableTime(o domain.Optional[time.Time]) nullable.Nullable[time.Time] {
	if v, ok := o.Get(); ok {
		return nullable.NewNullableWithValue(v.UTC())
	}
	return nullable.NewNullNullable[time.Time]()
}

func nullableDate(o domain.Optional[time.Time]) nullable.Nullable[openapi_types.Date] {
	if v, ok := o.Get(); ok {
		return nullable.NewNullableWithValue(openapi_types.Date{Time: v.UTC()})
	}
	return nullable.NewNullNullable[openapi_types.Date]()
}
