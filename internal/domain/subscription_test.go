package domain

import (
	"testing"
	"time"
)

func TestSubscription_FullName(t *testing.T) {
	t.Parallel()

	s := Subscription{FirstName: "Julia", LastName: "Roberts"}
	if got := s.FullName(); got != "Julia Roberts" {
		t.Fatalf("FullName()=%q, want %q", got, "Julia Roberts")
	}
}

func TestOptional(t *testing.T) {
	t.Parallel()

	none := None[string]()
	if none.IsSet() || none.Ptr() != nil || none.OrZero() != "" {
		t.Fatalf("None()=%+v, want unset", none)
	}

	some := Some("x")
	v, ok := some.Get()
	if !ok || v != "x" {
		t.Fatalf("Some(x).Get()=(%q,%v)", v, ok)
	}
	p := some.Ptr()
	*p = "y"
	if some.OrZero() != "x" {
		t.Fatalf("Ptr() must return a copy")
	}

	if got := FromPtr[string](nil); got.IsSet() {
		t.Fatalf("FromPtr(nil) should be unset")
	}
	in := "z"
	if got := FromPtr(&in); got.OrZero() != "z" {
		t.Fatalf("FromPtr(&z)=%+v", got)
	}
}

func TestImport_Summary(t *testing.T) {
	t.Parallel()

	now := time.Unix(100, 0).UTC()
	imp := Import{ID: "i1", Source: "a.csv", Schema: "person", CreatedAt: now, Subscriptions: make([]Subscription, 3)}
	got := imp.Summary()
	if got.RowCount != 3 || got.ID != "i1" || !got.CreatedAt.Equal(now) {
		t.Fatalf("Summary()=%+v", got)
	}
}

func TestMembershipNumber_String(t *testing.T) {
	t.Parallel()

	if got := MembershipNumber(12345).String(); got != "12345" {
		t.Fatalf("String()=%q", got)
	}
}
