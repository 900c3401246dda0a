package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/Overland-East-Bay/club-subscriptions/internal/ports/out/idempotency"
)

func TestStore_PutThenGet(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{
		Key:      "k1",
		Method:   "POST",
		Route:    "/imports",
		BodyHash: "abc123",
	}
	rec := idempotency.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"import":{}}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}

	if err := s.Put(context.Background(), fp, rec); err != nil {
		t.Fatalf("Put() err=%v", err)
	}

	got, ok, err := s.Get(context.Background(), fp)
	if err != nil {
		t.Fatalf("Get() err=%v", err)
	}
	if !ok {
		t.Fatalf("Get() ok=false, want true")
	}
	if got.StatusCode != rec.StatusCode || got.ContentType != rec.ContentType || string(got.Body) != string(rec.Body) {
		t.Fatalf("Get()=%+v, want %+v", got, rec)
	}
}

func TestStore_BodyIsCopied(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{Key: "k1", Method: "POST", Route: "/imports"}
	body := []byte("hash-abc")
	if err := s.Put(context.Background(), fp, idempotency.Record{Body: body}); err != nil {
		t.Fatalf("Put() err=%v", err)
	}
	body[0] = 'X'

	got, _, _ := s.Get(context.Background(), fp)
	got.Body[1] = 'Y'

	again, _, _ := s.Get(context.Background(), fp)
	if string(again.Body) != "hash-abc" {
		t.Fatalf("Body=%q, want hash-abc", again.Body)
	}
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	_, ok, err := NewStore().Get(context.Background(), idempotency.Fingerprint{Key: "nope"})
	if err != nil || ok {
		t.Fatalf("Get() ok=%v err=%v, want false nil", ok, err)
	}
}
