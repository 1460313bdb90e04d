package kv

import (
	"context"
	"slices"

	"github.com/dwikikusuma/credpos/internal/account/app"
	"github.com/dwikikusuma/credpos/internal/account/domain"
	"github.com/dwikikusuma/credpos/internal/storage"
)

var Accounts = storage.NewCollection[domain.Account](storage.KeyAccounts)

type AccountRepo struct {
	store storage.Store
}

func NewAccountRepo(store storage.Store) *AccountRepo {
	return &AccountRepo{store: store}
}

func (r *AccountRepo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	a.Email = domain.NormalizeEmail(a.Email)

	err := r.store.Update(ctx, []string{Accounts.Key()}, func(tx storage.Tx) error {
		accounts, err := Accounts.Load(ctx, tx)
		if err != nil {
			return err
		}
		if indexOf(accounts, func(x domain.Account) bool { return x.Email == a.Email }) >= 0 {
			return app.ErrEmailTaken
		}
		return Accounts.Save(ctx, tx, append(accounts, a))
	})
	if err != nil {
		return domain.Account{}, err
	}
	return a, nil
}

func (r *AccountRepo) Ensure(ctx context.Context, a domain.Account) (domain.Account, error) {
	a.Email = domain.NormalizeEmail(a.Email)
	out := a

	err := r.store.Update(ctx, []string{Accounts.Key()}, func(tx storage.Tx) error {
		accounts, err := Accounts.Load(ctx, tx)
		if err != nil {
			return err
		}
		if idx := indexOf(accounts, func(x domain.Account) bool { return x.ID == a.ID }); idx >= 0 {
			out = accounts[idx]
			return nil
		}
		if indexOf(accounts, func(x domain.Account) bool { return x.Email == a.Email }) >= 0 {
			return app.ErrEmailTaken
		}
		out = a
		return Accounts.Save(ctx, tx, append(accounts, a))
	})
	if err != nil {
		return domain.Account{}, err
	}
	return out, nil
}

func (r *AccountRepo) Get(ctx context.Context, id string) (domain.Account, error) {
	return r.find(ctx, func(a domain.Account) bool { return a.ID == id })
}

func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	email = domain.NormalizeEmail(email)
	return r.find(ctx, func(a domain.Account) bool { return a.Email == email })
}

func (r *AccountRepo) find(ctx context.Context, match func(domain.Account) bool) (domain.Account, error) {
	accounts, err := Accounts.Load(ctx, r.store)
	if err != nil {
		return domain.Account{}, err
	}
	idx := indexOf(accounts, match)
	if idx < 0 {
		return domain.Account{}, app.ErrNotFound
	}
	return accounts[idx], nil
}

func indexOf(accounts []domain.Account, match func(domain.Account) bool) int {
	return slices.IndexFunc(accounts, match)
}
