// Package store implements a durable key-value record store partitioned by
// collection name on top of SQLite. Records are JSON documents identified by
// their own "id" property.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gymistic/gymistic/internal/errors"
	"github.com/gymistic/gymistic/internal/sqlite"
)

// Collection names backing the application state.
const (
	CollectionWorkoutSessions = "workoutSessions"
	CollectionBodyStats       = "bodyStats"
	CollectionMealPlans       = "mealPlans"
	CollectionMoodLogs        = "moodLogs"
	CollectionUserPreferences = "userPreferences"
	CollectionCalorieTracking = "calorieTracking"
)

// ErrNotFound signals that no record exists for the given key.
var ErrNotFound = errors.NewSentinel("record not found")

// ErrUnknownCollection signals an operation on a collection name outside the
// fixed set.
var ErrUnknownCollection = errors.NewSentinel("unknown collection")

//nolint:gochecknoglobals // fixed set of collections backing the export format.
var collections = []string{
	CollectionWorkoutSessions,
	CollectionBodyStats,
	CollectionMealPlans,
	CollectionMoodLogs,
	CollectionUserPreferences,
	CollectionCalorieTracking,
}

// Store persists JSON records partitioned by collection.
type Store struct {
	db     *sqlite.Database
	logger *slog.Logger
}

// New creates a store on top of the given database.
func New(db *sqlite.Database, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

func validCollection(name string) bool {
	for _, c := range collections {
		if c == name {
			return true
		}
	}
	return false
}

// Get retrieves a single record by key. Returns ErrNotFound when the key is
// absent.
func (s *Store) Get(ctx context.Context, collection, key string) (json.RawMessage, error) {
	if !validCollection(collection) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	var data string
	err := s.db.ReadOnly.QueryRowContext(ctx, `
		SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query record: %w", err)
	}
	return json.RawMessage(data), nil
}

// GetAll retrieves every record in a collection in storage order. Callers
// impose their own ordering.
func (s *Store) GetAll(ctx context.Context, collection string) (_ []json.RawMessage, err error) {
	if !validCollection(collection) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	rows, err := s.db.ReadOnly.QueryContext(ctx, `
		SELECT data FROM documents WHERE collection = ?`, collection)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var records []json.RawMessage
	for rows.Next() {
		var data string
		if err = rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, json.RawMessage(data))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return records, nil
}

// Put upserts a record keyed by its own "id" property. A missing or empty id
// is generated and injected into the stored document. Returns the record id.
func (s *Store) Put(ctx context.Context, collection string, record json.RawMessage) (string, error) {
	if !validCollection(collection) {
		return "", fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	id, data, err := ensureID(record)
	if err != nil {
		return "", fmt.Errorf("resolve record id: %w", err)
	}

	if _, err = s.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data`,
		collection, id, string(data)); err != nil {
		return "", fmt.Errorf("upsert record: %w", err)
	}
	return id, nil
}

// Delete removes a record by key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	if !validCollection(collection) {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	if _, err := s.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM documents WHERE collection = ? AND id = ?`, collection, key); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// Clear removes every record in a collection.
func (s *Store) Clear(ctx context.Context, collection string) error {
	if !validCollection(collection) {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	if _, err := s.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM documents WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}
	return nil
}

// ExportAll serializes every collection into a single JSON object with one
// array property per collection plus an exportDate timestamp.
func (s *Store) ExportAll(ctx context.Context) ([]byte, error) {
	snapshot := make(map[string]any, len(collections)+1)
	for _, collection := range collections {
		records, err := s.GetAll(ctx, collection)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", collection, err)
		}
		if records == nil {
			records = []json.RawMessage{}
		}
		snapshot[collection] = records
	}
	snapshot["exportDate"] = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// ImportAll restores collections from a snapshot produced by ExportAll. Each
// collection present in the snapshot is cleared and repopulated inside one
// transaction; collections absent from the snapshot are left untouched.
// Unknown properties besides exportDate are skipped the way the snapshot
// format has always tolerated them.
func (s *Store) ImportAll(ctx context.Context, data []byte) (err error) {
	var snapshot map[string]json.RawMessage
	if err = json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}

	tx, err := s.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rollbackErr))
		}
	}()

	for _, collection := range collections {
		raw, ok := snapshot[collection]
		if !ok {
			continue
		}
		var records []json.RawMessage
		if err = json.Unmarshal(raw, &records); err != nil {
			return fmt.Errorf("unmarshal %s records: %w", collection, err)
		}

		if _, err = tx.ExecContext(ctx, `
			DELETE FROM documents WHERE collection = ?`, collection); err != nil {
			return fmt.Errorf("clear %s: %w", collection, err)
		}
		for _, record := range records {
			var id string
			var doc json.RawMessage
			if id, doc, err = ensureID(record); err != nil {
				return fmt.Errorf("resolve %s record id: %w", collection, err)
			}
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
				ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data`,
				collection, id, string(doc)); err != nil {
				return fmt.Errorf("insert %s record: %w", collection, err)
			}
		}
		s.logger.LogAttrs(ctx, slog.LevelInfo, "imported collection",
			slog.String("collection", collection), slog.Int("records", len(records)))
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ensureID extracts the record's "id" property, generating and injecting one
// when absent.
func ensureID(record json.RawMessage) (string, json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(record, &fields); err != nil {
		return "", nil, fmt.Errorf("unmarshal record: %w", err)
	}

	if raw, ok := fields["id"]; ok {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", nil, fmt.Errorf("unmarshal id: %w", err)
		}
		if id != "" {
			return id, record, nil
		}
	}

	id := strings.ToLower(rand.Text())
	fields["id"], _ = json.Marshal(id)
	data, err := json.Marshal(fields)
	if err != nil {
		return "", nil, fmt.Errorf("marshal record: %w", err)
	}
	return id, data, nil
}
