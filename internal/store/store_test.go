package store_test

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gymistic/gymistic/internal/errors"
	"github.com/gymistic/gymistic/internal/sqlite"
	"github.com/gymistic/gymistic/internal/store"
	"github.com/gymistic/gymistic/internal/testhelpers"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(t.Context(), ":memory:", logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return store.New(db, logger)
}

func TestStore_GetPutDelete(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := t.Context()

	if _, err := s.Get(ctx, store.CollectionBodyStats, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get missing key: got %v, want ErrNotFound", err)
	}

	record := json.RawMessage(`{"id":"stats-2026-09-01","date":"2026-09-01","weight":72.5}`)
	id, err := s.Put(ctx, store.CollectionBodyStats, record)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if id != "stats-2026-09-01" {
		t.Errorf("Put id: got %q, want %q", id, "stats-2026-09-01")
	}

	got, err := s.Get(ctx, store.CollectionBodyStats, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var fields map[string]any
	if err = json.Unmarshal(got, &fields); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	if fields["weight"] != 72.5 {
		t.Errorf("weight: got %v, want 72.5", fields["weight"])
	}

	// Upsert overwrites in place.
	if _, err = s.Put(ctx, store.CollectionBodyStats,
		json.RawMessage(`{"id":"stats-2026-09-01","date":"2026-09-01","weight":73}`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	all, err := s.GetAll(ctx, store.CollectionBodyStats)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("GetAll after upsert: got %d records, want 1", len(all))
	}

	if err = s.Delete(ctx, store.CollectionBodyStats, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err = s.Get(ctx, store.CollectionBodyStats, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
	// Deleting a missing key is not an error.
	if err = s.Delete(ctx, store.CollectionBodyStats, id); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestStore_PutGeneratesID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := t.Context()

	id, err := s.Put(ctx, store.CollectionMoodLogs, json.RawMessage(`{"date":"2026-09-01","mood":"happy"}`))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if id == "" {
		t.Fatal("Put: expected generated id")
	}

	record, err := s.Get(ctx, store.CollectionMoodLogs, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var fields struct {
		ID string `json:"id"`
	}
	if err = json.Unmarshal(record, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fields.ID != id {
		t.Errorf("stored id: got %q, want %q", fields.ID, id)
	}
}

func TestStore_UnknownCollection(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := t.Context()

	if _, err := s.Get(ctx, "nonsense", "key"); !errors.Is(err, store.ErrUnknownCollection) {
		t.Errorf("Get: got %v, want ErrUnknownCollection", err)
	}
	if _, err := s.Put(ctx, "nonsense", json.RawMessage(`{}`)); !errors.Is(err, store.ErrUnknownCollection) {
		t.Errorf("Put: got %v, want ErrUnknownCollection", err)
	}
}

func TestStore_ExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := t.Context()

	seed := map[string][]string{
		store.CollectionWorkoutSessions: {
			`{"id":"workout-1","date":"2026-08-30","type":"push"}`,
			`{"id":"workout-2","date":"2026-08-31","type":"legs"}`,
		},
		store.CollectionMealPlans: {
			`{"id":"meal-plan-2026-08-31","date":"2026-08-31","dailyBudget":1000}`,
		},
		store.CollectionUserPreferences: {
			`{"id":"preferences","goal":"maintain","activityLevel":"sedentary"}`,
		},
	}
	for collection, records := range seed {
		for _, record := range records {
			if _, err := s.Put(ctx, collection, json.RawMessage(record)); err != nil {
				t.Fatalf("seed %s: %v", collection, err)
			}
		}
	}

	snapshot, err := s.ExportAll(ctx)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err = json.Unmarshal(snapshot, &decoded); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if _, ok := decoded["exportDate"]; !ok {
		t.Error("snapshot missing exportDate")
	}

	for collection := range seed {
		if err = s.Clear(ctx, collection); err != nil {
			t.Fatalf("Clear %s: %v", collection, err)
		}
	}

	if err = s.ImportAll(ctx, snapshot); err != nil {
		t.Fatalf("ImportAll: %v", err)
	}

	for collection, want := range seed {
		records, getErr := s.GetAll(ctx, collection)
		if getErr != nil {
			t.Fatalf("GetAll %s: %v", collection, getErr)
		}
		var got []map[string]any
		for _, record := range records {
			var fields map[string]any
			if err = json.Unmarshal(record, &fields); err != nil {
				t.Fatalf("unmarshal %s record: %v", collection, err)
			}
			got = append(got, fields)
		}
		var wantFields []map[string]any
		for _, record := range want {
			var fields map[string]any
			if err = json.Unmarshal([]byte(record), &fields); err != nil {
				t.Fatalf("unmarshal seed record: %v", err)
			}
			wantFields = append(wantFields, fields)
		}
		sortByID := func(records []map[string]any) {
			sort.Slice(records, func(i, j int) bool {
				id1, _ := records[i]["id"].(string)
				id2, _ := records[j]["id"].(string)
				return id1 < id2
			})
		}
		sortByID(got)
		sortByID(wantFields)
		if diff := cmp.Diff(wantFields, got); diff != "" {
			t.Errorf("round-trip mismatch for %s (-want +got):\n%s", collection, diff)
		}
	}
}

func TestStore_ImportMalformedPayload(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := t.Context()

	if _, err := s.Put(ctx, store.CollectionMoodLogs,
		json.RawMessage(`{"id":"mood-2026-09-01","mood":"good"}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := s.ImportAll(ctx, []byte(`{not json`)); err == nil {
		t.Fatal("ImportAll: expected error for malformed payload")
	}
	// Existing data survives a rejected import.
	records, err := s.GetAll(ctx, store.CollectionMoodLogs)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records after failed import: got %d, want 1", len(records))
	}
}

func TestStore_ImportLeavesAbsentCollectionsUntouched(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := t.Context()

	if _, err := s.Put(ctx, store.CollectionMoodLogs,
		json.RawMessage(`{"id":"mood-2026-09-01","mood":"good"}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	snapshot := `{"bodyStats":[{"id":"stats-1","weight":70}],"exportDate":"2026-09-01T00:00:00Z"}`
	if err := s.ImportAll(ctx, []byte(snapshot)); err != nil {
		t.Fatalf("ImportAll: %v", err)
	}

	moods, err := s.GetAll(ctx, store.CollectionMoodLogs)
	if err != nil {
		t.Fatalf("GetAll moodLogs: %v", err)
	}
	if len(moods) != 1 {
		t.Errorf("moodLogs after partial import: got %d, want 1", len(moods))
	}
	stats, err := s.GetAll(ctx, store.CollectionBodyStats)
	if err != nil {
		t.Fatalf("GetAll bodyStats: %v", err)
	}
	if len(stats) != 1 {
		t.Errorf("bodyStats after import: got %d, want 1", len(stats))
	}
}
