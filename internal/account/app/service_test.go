package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dwikikusuma/credpos/internal/account/app"
	"github.com/dwikikusuma/credpos/internal/account/domain"
	"github.com/dwikikusuma/credpos/internal/account/infra/kv"
	"github.com/dwikikusuma/credpos/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSeeder struct {
	seeded []string
	err    error
}

func (f *fakeSeeder) DemoAccount() domain.Account {
	return domain.Account{
		ID:           "demo-user-001",
		Email:        "demo@credpos.id",
		BusinessName: "Warung Demo CredPOS",
		OwnerName:    "Demo User",
	}
}

func (f *fakeSeeder) Seed(_ context.Context, accountID string) error {
	if f.err != nil {
		return f.err
	}
	f.seeded = append(f.seeded, accountID)
	return nil
}

func newTestService(t *testing.T) (*app.Service, storage.Store, *fakeSeeder) {
	t.Helper()
	store := storage.NewMemoryStore()
	seeder := &fakeSeeder{}
	svc := app.NewService(kv.NewAccountRepo(store), kv.NewSessionRepo(store), seeder, nil)
	return svc, store, seeder
}

func register(t *testing.T, svc *app.Service, email string) domain.Session {
	t.Helper()
	sess, err := svc.Register(context.Background(), app.RegisterInput{
		Email:        email,
		Password:     "rahasia",
		BusinessName: "Toko Sari",
		OwnerName:    "Sari",
	})
	require.NoError(t, err)
	return sess
}

func TestService_RegisterOpensSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	sess := register(t, svc, " Sari@Toko.ID ")
	assert.Equal(t, "sari@toko.id", sess.Account.Email)
	assert.NotEmpty(t, sess.Account.ID)

	cur, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess, cur, "the returned session matches what a later read decodes")
	assert.Equal(t, time.UTC, sess.Account.CreatedAt.Location())
}

func TestService_RegisterRejects(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	register(t, svc, "sari@toko.id")

	_, err := svc.Register(ctx, app.RegisterInput{Email: "SARI@toko.id", Password: "x", BusinessName: "B", OwnerName: "O"})
	assert.ErrorIs(t, err, app.ErrEmailTaken)

	_, err = svc.Register(ctx, app.RegisterInput{Email: "new@toko.id", BusinessName: "B", OwnerName: "O"})
	assert.ErrorIs(t, err, app.ErrInvalidInput)

	_, err = svc.Register(ctx, app.RegisterInput{Email: "new@toko.id", Password: "x", BusinessName: " ", OwnerName: "O"})
	assert.ErrorIs(t, err, app.ErrInvalidInput)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	created := register(t, svc, "sari@toko.id")
	require.NoError(t, svc.Logout(ctx))

	_, err := svc.Login(ctx, "nobody@toko.id", "x")
	assert.ErrorIs(t, err, app.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "sari@toko.id", "")
	assert.ErrorIs(t, err, app.ErrInvalidInput)

	// any password is accepted
	sess, err := svc.Login(ctx, "SARI@toko.id", "whatever")
	require.NoError(t, err)
	assert.Equal(t, created.Account.ID, sess.Account.ID)
}

func TestService_LogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	register(t, svc, "sari@toko.id")

	require.NoError(t, svc.Logout(ctx))
	require.NoError(t, svc.Logout(ctx))

	_, err := svc.Current(ctx)
	assert.ErrorIs(t, err, app.ErrNoSession)
}

func TestService_DemoLoginIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, store, seeder := newTestService(t)

	first, err := svc.DemoLogin(ctx)
	require.NoError(t, err)
	second, err := svc.DemoLogin(ctx)
	require.NoError(t, err)

	assert.Equal(t, "demo-user-001", first.Account.ID)
	assert.Equal(t, first.Account, second.Account)
	assert.Equal(t, time.UTC, first.Account.CreatedAt.Location())
	assert.Equal(t, first.Account.CreatedAt, first.Account.CreatedAt.Round(0), "no monotonic reading")
	assert.Equal(t, []string{"demo-user-001", "demo-user-001"}, seeder.seeded)

	accounts, err := kv.Accounts.Load(ctx, store)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestService_DemoLoginSeedFailure(t *testing.T) {
	ctx := context.Background()
	svc, _, seeder := newTestService(t)
	seeder.err = errors.New("boom")

	_, err := svc.DemoLogin(ctx)
	assert.ErrorContains(t, err, "seed demo data")

	_, err = svc.Current(ctx)
	assert.ErrorIs(t, err, app.ErrNoSession)
}

func TestService_CurrentWithDanglingPointer(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	require.NoError(t, kv.Session.Save(ctx, store, domain.SessionRecord{AccountID: "ghost", StartedAt: time.Now()}))

	_, err := svc.Current(ctx)
	assert.ErrorIs(t, err, app.ErrNoSession)
}

func TestService_SessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	first := app.NewService(kv.NewAccountRepo(store), kv.NewSessionRepo(store), &fakeSeeder{}, nil)
	sess := register(t, first, "sari@toko.id")

	second := app.NewService(kv.NewAccountRepo(store), kv.NewSessionRepo(store), &fakeSeeder{}, nil)
	cur, err := second.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess.Account.ID, cur.Account.ID)
}
