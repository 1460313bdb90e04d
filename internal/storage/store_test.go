package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, "test")
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func newSQLiteTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func backends(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"redis": func(t *testing.T) Store {
			s, _ := newRedisTestStore(t)
			return s
		},
		"sqlite": func(t *testing.T) Store { return newSQLiteTestStore(t) },
	}
}

func TestStoreConformance(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("missing key", func(t *testing.T) {
				s := open(t)
				_, err := s.Get(ctx, "nope")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("put replaces whole value", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Put(ctx, KeyCatalog, []byte(`[1,2,3]`)))
				require.NoError(t, s.Put(ctx, KeyCatalog, []byte(`[4]`)))

				got, err := s.Get(ctx, KeyCatalog)
				require.NoError(t, err)
				assert.Equal(t, `[4]`, string(got))
			})

			t.Run("delete is idempotent", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Put(ctx, KeySession, []byte(`{}`)))
				require.NoError(t, s.Delete(ctx, KeySession))
				require.NoError(t, s.Delete(ctx, KeySession))

				_, err := s.Get(ctx, KeySession)
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("update applies all writes", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Put(ctx, KeyCatalog, []byte(`old`)))

				err := s.Update(ctx, []string{KeyCatalog, KeyTransactions}, func(tx Tx) error {
					cur, err := tx.Get(ctx, KeyCatalog)
					if err != nil {
						return err
					}
					if err := tx.Put(ctx, KeyCatalog, append(cur, []byte("+new")...)); err != nil {
						return err
					}
					// read-your-writes inside the tx
					again, err := tx.Get(ctx, KeyCatalog)
					if err != nil {
						return err
					}
					if string(again) != "old+new" {
						return errors.New("staged write not visible")
					}
					return tx.Put(ctx, KeyTransactions, []byte(`txn`))
				})
				require.NoError(t, err)

				cat, err := s.Get(ctx, KeyCatalog)
				require.NoError(t, err)
				assert.Equal(t, "old+new", string(cat))
				txn, err := s.Get(ctx, KeyTransactions)
				require.NoError(t, err)
				assert.Equal(t, "txn", string(txn))
			})

			t.Run("update failure writes nothing", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Put(ctx, KeyCatalog, []byte(`before`)))
				boom := errors.New("boom")

				err := s.Update(ctx, []string{KeyCatalog, KeyTransactions}, func(tx Tx) error {
					if err := tx.Put(ctx, KeyTransactions, []byte(`txn`)); err != nil {
						return err
					}
					if err := tx.Put(ctx, KeyCatalog, []byte(`after`)); err != nil {
						return err
					}
					return boom
				})
				assert.ErrorIs(t, err, boom)

				cat, err := s.Get(ctx, KeyCatalog)
				require.NoError(t, err)
				assert.Equal(t, "before", string(cat))
				_, err = s.Get(ctx, KeyTransactions)
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("update delete", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Put(ctx, KeySession, []byte(`{}`)))

				err := s.Update(ctx, []string{KeySession}, func(tx Tx) error {
					if err := tx.Delete(ctx, KeySession); err != nil {
						return err
					}
					_, err := tx.Get(ctx, KeySession)
					if !errors.Is(err, ErrNotFound) {
						return errors.New("deleted key still visible")
					}
					return nil
				})
				require.NoError(t, err)

				_, err = s.Get(ctx, KeySession)
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("undeclared key rejected", func(t *testing.T) {
				s := open(t)
				err := s.Update(ctx, []string{KeyCatalog}, func(tx Tx) error {
					return tx.Put(ctx, KeyAccounts, []byte(`x`))
				})
				assert.Error(t, err)
				_, err = s.Get(ctx, KeyAccounts)
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("ping", func(t *testing.T) {
				s := open(t)
				assert.NoError(t, s.Ping(ctx))
			})
		})
	}
}

func TestRedisStore_RetriesOnConflict(t *testing.T) {
	s, mr := newRedisTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, KeyCatalog, []byte("1")))

	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer other.Close()

	attempts := 0
	err := s.Update(ctx, []string{KeyCatalog}, func(tx Tx) error {
		attempts++
		cur, err := tx.Get(ctx, KeyCatalog)
		if err != nil {
			return err
		}
		if attempts == 1 {
			// another terminal writes between our read and our commit
			if err := other.Set(ctx, "test:"+KeyCatalog, "2", 0).Err(); err != nil {
				return err
			}
		}
		return tx.Put(ctx, KeyCatalog, append(cur, '!'))
	})
	require.NoError(t, err)

	assert.Equal(t, 2, attempts)
	got, err := s.Get(ctx, KeyCatalog)
	require.NoError(t, err)
	assert.Equal(t, "2!", string(got))
}

func TestRedisStore_KeysArePrefixed(t *testing.T) {
	s, mr := newRedisTestStore(t)
	require.NoError(t, s.Put(context.Background(), KeyAccounts, []byte(`[]`)))

	assert.True(t, mr.Exists("test:accounts"))
	assert.False(t, mr.Exists("accounts"))
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", in))
	in[0] = 'x'

	out, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))

	out[0] = 'y'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Put(ctx, "k", nil), context.Canceled)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
