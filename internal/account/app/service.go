package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dwikikusuma/credpos/internal/account/domain"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("account not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoSession          = errors.New("no active session")
)

type RegisterInput struct {
	Email        string
	Password     string
	BusinessName string
	OwnerName    string
}

type Service struct {
	accounts AccountRepo
	sessions SessionRepo
	demo     DemoSeeder
	log      *slog.Logger
	now      func() time.Time
}

func NewService(accounts AccountRepo, sessions SessionRepo, demo DemoSeeder, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		accounts: accounts,
		sessions: sessions,
		demo:     demo,
		log:      log,
		now:      time.Now,
	}
}

// stamp returns the clock in UTC without a monotonic reading, the form a time
// takes after a round trip through storage.
func (s *Service) stamp() time.Time {
	return s.now().UTC().Round(0)
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.Session, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" || strings.TrimSpace(in.BusinessName) == "" || strings.TrimSpace(in.OwnerName) == "" {
		return domain.Session{}, fmt.Errorf("%w: email, password, business_name and owner_name are required", ErrInvalidInput)
	}

	acc, err := s.accounts.Create(ctx, domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		BusinessName: strings.TrimSpace(in.BusinessName),
		OwnerName:    strings.TrimSpace(in.OwnerName),
		CreatedAt:    s.stamp(),
	})
	if err != nil {
		return domain.Session{}, err
	}

	s.log.Info("account registered", slog.String("account_id", acc.ID))
	return s.open(ctx, acc)
}

// Login signs in by email. The password is required but not verified.
func (s *Service) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return domain.Session{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	acc, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return domain.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.Session{}, err
	}
	return s.open(ctx, acc)
}

// DemoLogin signs in as the demo account, creating it and seeding sample data
// into an empty store first. Calling it again does not duplicate anything.
func (s *Service) DemoLogin(ctx context.Context) (domain.Session, error) {
	demo := s.demo.DemoAccount()
	if demo.CreatedAt.IsZero() {
		demo.CreatedAt = s.stamp()
	}

	acc, err := s.accounts.Ensure(ctx, demo)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.demo.Seed(ctx, acc.ID); err != nil {
		return domain.Session{}, fmt.Errorf("seed demo data: %w", err)
	}
	return s.open(ctx, acc)
}

func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// Current resolves the persisted session. A pointer to an account that no
// longer exists counts as no session.
func (s *Service) Current(ctx context.Context) (domain.Session, error) {
	rec, err := s.sessions.Load(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	acc, err := s.accounts.Get(ctx, rec.AccountID)
	if errors.Is(err, ErrNotFound) {
		s.log.Warn("session points at unknown account", slog.String("account_id", rec.AccountID))
		return domain.Session{}, ErrNoSession
	}
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Account: acc, StartedAt: rec.StartedAt}, nil
}

func (s *Service) open(ctx context.Context, acc domain.Account) (domain.Session, error) {
	rec := domain.SessionRecord{AccountID: acc.ID, StartedAt: s.stamp()}
	if err := s.sessions.Save(ctx, rec); err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Account: acc, StartedAt: rec.StartedAt}, nil
}
