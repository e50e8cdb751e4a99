package store_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gymistic/gymistic/internal/errors"
	"github.com/gymistic/gymistic/internal/store"
)

type measurement struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

func TestCollection_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := t.Context()
	coll := store.NewCollection[measurement](s, store.CollectionBodyStats)

	want := measurement{ID: "stats-2026-09-01", Date: "2026-09-01", Weight: 72.5}
	id, err := coll.Put(ctx, want)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if id != want.ID {
		t.Errorf("put returned id %q, want %q", id, want.ID)
	}

	got, err := coll.Get(ctx, want.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}

	all, err := coll.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 record, got %d", len(all))
	}

	if err = coll.Delete(ctx, want.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err = coll.Get(ctx, want.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCollection_Clear(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := t.Context()
	coll := store.NewCollection[measurement](s, store.CollectionBodyStats)

	for _, m := range []measurement{
		{ID: "stats-2026-08-30", Date: "2026-08-30", Weight: 73},
		{ID: "stats-2026-08-31", Date: "2026-08-31", Weight: 72.8},
	} {
		if _, err := coll.Put(ctx, m); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	if err := coll.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	all, err := coll.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty collection, got %d records", len(all))
	}
}
