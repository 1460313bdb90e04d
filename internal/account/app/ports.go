package app

import (
	"context"

	"github.com/dwikikusuma/credpos/internal/account/domain"
)

type AccountRepo interface {
	// Create stores a new account, failing with ErrEmailTaken when the email
	// is already registered.
	Create(ctx context.Context, a domain.Account) (domain.Account, error)
	// Ensure stores a unless an account with its id exists, and returns the
	// stored account.
	Ensure(ctx context.Context, a domain.Account) (domain.Account, error)
	Get(ctx context.Context, id string) (domain.Account, error)
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
}

type SessionRepo interface {
	// Load returns ErrNoSession when nobody is signed in.
	Load(ctx context.Context) (domain.SessionRecord, error)
	Save(ctx context.Context, rec domain.SessionRecord) error
	Clear(ctx context.Context) error
}

// DemoSeeder provides the demo account and fills an empty store with sample
// catalog items and sales for it.
type DemoSeeder interface {
	DemoAccount() domain.Account
	Seed(ctx context.Context, accountID string) error
}
