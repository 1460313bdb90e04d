package kv

import (
	"context"
	"errors"

	"github.com/dwikikusuma/credpos/internal/account/app"
	"github.com/dwikikusuma/credpos/internal/account/domain"
	"github.com/dwikikusuma/credpos/internal/storage"
)

var Session = storage.NewDocument[domain.SessionRecord](storage.KeySession)

type SessionRepo struct {
	store storage.Store
}

func NewSessionRepo(store storage.Store) *SessionRepo {
	return &SessionRepo{store: store}
}

func (r *SessionRepo) Load(ctx context.Context) (domain.SessionRecord, error) {
	rec, err := Session.Load(ctx, r.store)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.SessionRecord{}, app.ErrNoSession
	}
	return rec, err
}

func (r *SessionRepo) Save(ctx context.Context, rec domain.SessionRecord) error {
	return Session.Save(ctx, r.store, rec)
}

func (r *SessionRepo) Clear(ctx context.Context) error {
	return Session.Clear(ctx, r.store)
}
