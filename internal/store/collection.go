package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection is a typed view over one collection of the store. Values are
// JSON-encoded into the underlying documents.
type Collection[T any] struct {
	store *Store
	name  string
}

// NewCollection creates a typed view for the named collection.
func NewCollection[T any](s *Store, name string) Collection[T] {
	return Collection[T]{store: s, name: name}
}

// Get retrieves the record stored under key. Returns ErrNotFound when absent.
func (c Collection[T]) Get(ctx context.Context, key string) (T, error) {
	var value T
	record, err := c.store.Get(ctx, c.name, key)
	if err != nil {
		return value, err
	}
	if err = json.Unmarshal(record, &value); err != nil {
		return value, fmt.Errorf("unmarshal %s record: %w", c.name, err)
	}
	return value, nil
}

// GetAll retrieves every record in the collection.
func (c Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	records, err := c.store.GetAll(ctx, c.name)
	if err != nil {
		return nil, err
	}
	values := make([]T, len(records))
	for i, record := range records {
		if err = json.Unmarshal(record, &values[i]); err != nil {
			return nil, fmt.Errorf("unmarshal %s record: %w", c.name, err)
		}
	}
	return values, nil
}

// Put upserts a value keyed by its own id field, returning the record id.
func (c Collection[T]) Put(ctx context.Context, value T) (string, error) {
	record, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("marshal %s record: %w", c.name, err)
	}
	return c.store.Put(ctx, c.name, record)
}

// Delete removes the record stored under key.
func (c Collection[T]) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, c.name, key)
}

// Clear removes every record in the collection.
func (c Collection[T]) Clear(ctx context.Context) error {
	return c.store.Clear(ctx, c.name)
}
