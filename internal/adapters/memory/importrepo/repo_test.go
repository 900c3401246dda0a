package importrepo

import (
	"context"
	"testing"
	"time"

	"github.com/Overland-East-Bay/club-subscriptions/internal/domain"
	"github.com/Overland-East-Bay/club-subscriptions/internal/ports/out/importrepo"
)

func TestRepo_SaveAndGet(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	now := time.Unix(100, 0).UTC()
	imp := domain.Import{
		ID:        "i1",
		Source:    "export.csv",
		Schema:    "person",
		CreatedAt: now,
		Subscriptions: []domain.Subscription{
			{MembershipNumber: 1, FirstName: "A"},
			{MembershipNumber: 2, FirstName: "B"},
		},
	}
	if err := r.Save(context.Background(), imp); err != nil {
		t.Fatalf("Save() err=%v", err)
	}

	got, err := r.Get(context.Background(), "i1")
	if err != nil {
		t.Fatalf("Get() err=%v", err)
	}
	if got.ID != imp.ID || len(got.Subscriptions) != 2 || got.Subscriptions[1].FirstName != "B" {
		t.Fatalf("Get()=%+v, want %+v", got, imp)
	}
}

func TestRepo_SaveRejectsDuplicateAndEmptyID(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	if err := r.Save(context.Background(), domain.Import{ID: "i1"}); err != nil {
		t.Fatalf("Save(i1) err=%v", err)
	}
	if err := r.Save(context.Background(), domain.Import{ID: "i1"}); err != importrepo.ErrAlreadyExists {
		t.Fatalf("Save(i1 again) err=%v, want %v", err, importrepo.ErrAlreadyExists)
	}
	if err := r.Save(context.Background(), domain.Import{}); err != importrepo.ErrAlreadyExists {
		t.Fatalf("Save(empty id) err=%v, want %v", err, importrepo.ErrAlreadyExists)
	}
}

func TestRepo_StoredRowsAreNotAliased(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	rows := []domain.Subscription{{MembershipNumber: 1, FirstName: "A"}}
	if err := r.Save(context.Background(), domain.Import{ID: "i1", Subscriptions: rows}); err != nil {
		t.Fatalf("Save() err=%v", err)
	}
	rows[0].FirstName = "mutated"

	got, err := r.ListSubscriptions(context.Background(), "i1")
	if err != nil {
		t.Fatalf("ListSubscriptions() err=%v", err)
	}
	if got[0].FirstName != "A" {
		t.Fatalf("stored row changed through caller slice: %+v", got[0])
	}
	got[0].FirstName = "mutated again"

	again, _ := r.ListSubscriptions(context.Background(), "i1")
	if again[0].FirstName != "A" {
		t.Fatalf("stored row changed through returned slice: %+v", again[0])
	}
}

func TestRepo_ListNewestFirstWithIDTieBreak(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	t0 := time.Unix(100, 0).UTC()
	for _, imp := range []domain.Import{
		{ID: "b", CreatedAt: t0},
		{ID: "a", CreatedAt: t0},
		{ID: "c", CreatedAt: t0.Add(time.Second)},
	} {
		if err := r.Save(context.Background(), imp); err != nil {
			t.Fatalf("Save(%s) err=%v", imp.ID, err)
		}
	}
	list, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List() err=%v", err)
	}
	var ids []domain.ImportID
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	if len(ids) != 3 || ids[0] != "c" || ids[1] != "a" || ids[2] != "b" {
		t.Fatalf("List() ids=%v, want [c a b]", ids)
	}
}
