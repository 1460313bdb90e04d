package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Record is implemented by every persisted type. Validate is run on the way in
// and on the way out, so data written by an older build or edited by hand is
// rejected instead of trusted.
type Record interface {
	Validate() error
}

// Collection encodes a whole record collection under one key as a JSON array.
type Collection[T Record] struct {
	key string
}

func NewCollection[T Record](key string) Collection[T] {
	return Collection[T]{key: key}
}

func (c Collection[T]) Key() string { return c.key }

// Load returns the collection in storage order. A missing key is an empty
// collection.
func (c Collection[T]) Load(ctx context.Context, r Reader) ([]T, error) {
	data, err := r.Get(ctx, c.key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, c.key, err)
	}
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", ErrCorrupt, c.key, i, err)
		}
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Save replaces the whole collection.
func (c Collection[T]) Save(ctx context.Context, w Writer, records []T) error {
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("%w: %s[%d]: %v", ErrCorrupt, c.key, i, err)
		}
	}
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", c.key, err)
	}
	return w.Put(ctx, c.key, data)
}

// Document stores a single record under one key.
type Document[T Record] struct {
	key string
}

func NewDocument[T Record](key string) Document[T] {
	return Document[T]{key: key}
}

func (d Document[T]) Key() string { return d.key }

// Load returns ErrNotFound when the key is absent.
func (d Document[T]) Load(ctx context.Context, r Reader) (T, error) {
	var rec T
	data, err := r.Get(ctx, d.key)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("%w: %s: %v", ErrCorrupt, d.key, err)
	}
	if err := rec.Validate(); err != nil {
		return rec, fmt.Errorf("%w: %s: %v", ErrCorrupt, d.key, err)
	}
	return rec, nil
}

func (d Document[T]) Save(ctx context.Context, w Writer, rec T) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, d.key, err)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", d.key, err)
	}
	return w.Put(ctx, d.key, data)
}

func (d Document[T]) Clear(ctx context.Context, w Writer) error {
	return w.Delete(ctx, d.key)
}
