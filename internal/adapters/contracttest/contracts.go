package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/club-subscriptions/internal/domain"
	idempotencyport "github.com/Overland-East-Bay/club-subscriptions/internal/ports/out/idempotency"
	importrepoport "github.com/Overland-East-Bay/club-subscriptions/internal/ports/out/importrepo"
)

type CleanupFunc = func()

type (
	ImportRepoFactory func(t *testing.T) (importrepoport.Repository, CleanupFunc)
	IdemStoreFactory  func(t *testing.T) (idempotencyport.Store, CleanupFunc)
)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	meta := idempotencyport.Fingerprint{Key: "k-1", Method: "POST", Route: "/imports"}
	if _, ok, err := store.Get(ctx, meta); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}
	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, meta, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, meta)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatalf("CreatedAt=%v, want %v", got.CreatedAt, rec.CreatedAt)
	}

	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, meta, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, meta)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// The response record lives beside the meta record under the body hash.
	resp := meta
	resp.BodyHash = "hash-def"
	if _, ok, err := store.Get(ctx, resp); err != nil || ok {
		t.Fatalf("Get response before Put: ok=%v err=%v", ok, err)
	}
	if err := store.Put(ctx, resp, idempotencyport.Record{StatusCode: 201, ContentType: "application/json", Body: []byte(`{}`), CreatedAt: time.Unix(124, 0).UTC()}); err != nil {
		t.Fatalf("Put response: %v", err)
	}
	got, ok, err = store.Get(ctx, resp)
	if err != nil || !ok || got.StatusCode != 201 {
		t.Fatalf("Get response: %+v ok=%v err=%v", got, ok, err)
	}
	got, _, _ = store.Get(ctx, meta)
	if string(got.Body) != "hash-def" {
		t.Fatalf("meta record changed: %q", got.Body)
	}
}

func RunImportRepo(t *testing.T, newRepo ImportRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	dob := time.Date(1967, 10, 28, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 19, 1, 0, 0, 0, time.UTC)
	julia := domain.Subscription{
		MembershipNumber:       12345,
		FirstName:              "Julia",
		LastName:               "Roberts",
		Email:                  "julia@example.com",
		Telephone:              "+441234567890",
		DateOfBirth:            domain.Some(dob),
		EmergencyContactName:   domain.Some("George Clooney"),
		EmergencyContactNumber: domain.Some("+441234567890"),
		PrimaryClub:            domain.Some("Addlestone CC"),
		ClubMembershipExpiry:   domain.Some(end),
		MembershipType:         domain.Some("Non-member"),
		MembershipStatus:       domain.Some("Inactive"),
	}
	kevin := domain.Subscription{
		MembershipNumber: 54321,
		FirstName:        "Kevin",
		LastName:         "Bacon",
		Email:            "kevin@example.com",
		Telephone:        "",
	}

	older := time.Unix(1000, 0).UTC()
	aID := domain.ImportID(uuid.NewString())
	if err := repo.Save(ctx, domain.Import{
		ID:            aID,
		Source:        "export.csv",
		Schema:        "subscription",
		Subscriptions: []domain.Subscription{kevin, julia},
		CreatedAt:     older,
	}); err != nil {
		t.Fatalf("Save a: %v", err)
	}

	got, err := repo.Get(ctx, aID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Source != "export.csv" || got.Schema != "subscription" || !got.CreatedAt.Equal(older) {
		t.Fatalf("unexpected import: %+v", got)
	}

	// Rows come back in file order with absent optionals still absent.
	subs, err := repo.ListSubscriptions(ctx, aID)
	if err != nil {
		t.Fatalf("ListSubscriptions: %v", err)
	}
	if len(subs) != 2 || subs[0].MembershipNumber != 54321 || subs[1].MembershipNumber != 12345 {
		t.Fatalf("unexpected rows: %#v", subs)
	}
	if subs[0].DateOfBirth.IsSet() || subs[0].PrimaryClub.IsSet() || subs[0].ClubMembershipExpiry.IsSet() {
		t.Fatalf("absent optionals became set: %+v", subs[0])
	}
	if subs[0].Telephone != "" {
		t.Fatalf("empty required string changed: %q", subs[0].Telephone)
	}
	if gotEnd, ok := subs[1].ClubMembershipExpiry.Get(); !ok || !gotEnd.Equal(end) {
		t.Fatalf("ClubMembershipExpiry=%v, want %v", subs[1].ClubMembershipExpiry, end)
	}
	if gotDOB, ok := subs[1].DateOfBirth.Get(); !ok || !gotDOB.Equal(dob) {
		t.Fatalf("DateOfBirth=%v, want %v", subs[1].DateOfBirth, dob)
	}
	if subs[1].PrimaryClub.OrZero() != "Addlestone CC" || subs[1].MembershipExpiry.IsSet() {
		t.Fatalf("unexpected optionals: %+v", subs[1])
	}

	// ID uniqueness.
	if err := repo.Save(ctx, domain.Import{ID: aID, Source: "again.csv", Schema: "person", CreatedAt: older}); !errors.Is(err, importrepoport.ErrAlreadyExists) {
		t.Fatalf("Save duplicate err=%v, want %v", err, importrepoport.ErrAlreadyExists)
	}

	// Newest first.
	bID := domain.ImportID(uuid.NewString())
	if err := repo.Save(ctx, domain.Import{
		ID:        bID,
		Source:    "empty.csv",
		Schema:    "person",
		CreatedAt: older.Add(time.Hour),
	}); err != nil {
		t.Fatalf("Save b: %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) < 2 || list[0].ID != bID || list[0].RowCount != 0 || list[1].ID != aID || list[1].RowCount != 2 {
		t.Fatalf("unexpected list: %#v", list)
	}

	empty, err := repo.ListSubscriptions(ctx, bID)
	if err != nil || len(empty) != 0 {
		t.Fatalf("ListSubscriptions(empty)=%v err=%v", empty, err)
	}

	missing := domain.ImportID(uuid.NewString())
	if _, err := repo.Get(ctx, missing); !errors.Is(err, importrepoport.ErrNotFound) {
		t.Fatalf("Get missing err=%v, want %v", err, importrepoport.ErrNotFound)
	}
	if _, err := repo.ListSubscriptions(ctx, missing); !errors.Is(err, importrepoport.ErrNotFound) {
		t.Fatalf("ListSubscriptions missing err=%v, want %v", err, importrepoport.ErrNotFound)
	}
}
