// Package storage is the persistence gateway: a narrow key-value capability
// (Store) plus typed, validated collection codecs on top of it.
package storage

import (
	"context"
	"errors"
)

// Logical keys. Each holds one whole collection (or one document) and is read
// and written as a unit.
const (
	KeyAccounts     = "accounts"
	KeySession      = "session"
	KeyCatalog      = "catalog_items"
	KeyTransactions = "transactions"
)

var (
	ErrNotFound = errors.New("storage: key not found")
	ErrCorrupt  = errors.New("storage: malformed record")
	ErrConflict = errors.New("storage: concurrent update conflict")
)

type Reader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

type Writer interface {
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Tx is the view handed to Store.Update. Reads observe the transaction's own
// writes; nothing reaches the backend unless the update function returns nil.
type Tx interface {
	Reader
	Writer
}

type Store interface {
	Reader
	Writer

	// Update runs fn against an atomic snapshot of keys. Either every write
	// staged by fn is applied or none is. fn may run more than once when a
	// backend retries on conflict, so it must only touch state it owns.
	Update(ctx context.Context, keys []string, fn func(tx Tx) error) error

	Ping(ctx context.Context) error
	Close() error
}
