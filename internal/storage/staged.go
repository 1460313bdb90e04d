package storage

import (
	"context"
	"fmt"
	"slices"
)

// stagedTx buffers writes in memory on top of a backend read function. The
// backends flush it with their own atomic primitive.
type stagedTx struct {
	keys   []string
	read   func(ctx context.Context, key string) ([]byte, error)
	writes map[string][]byte
	// deleted keys are present in writes with a nil value.
}

func newStagedTx(keys []string, read func(ctx context.Context, key string) ([]byte, error)) *stagedTx {
	return &stagedTx{
		keys:   keys,
		read:   read,
		writes: make(map[string][]byte),
	}
}

func (t *stagedTx) check(key string) error {
	if !slices.Contains(t.keys, key) {
		return fmt.Errorf("storage: key %q not declared for this update", key)
	}
	return nil
}

func (t *stagedTx) Get(ctx context.Context, key string) ([]byte, error) {
	if err := t.check(key); err != nil {
		return nil, err
	}
	if v, ok := t.writes[key]; ok {
		if v == nil {
			return nil, ErrNotFound
		}
		return slices.Clone(v), nil
	}
	return t.read(ctx, key)
}

func (t *stagedTx) Put(_ context.Context, key string, value []byte) error {
	if err := t.check(key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	t.writes[key] = slices.Clone(value)
	return nil
}

func (t *stagedTx) Delete(_ context.Context, key string) error {
	if err := t.check(key); err != nil {
		return err
	}
	t.writes[key] = nil
	return nil
}
