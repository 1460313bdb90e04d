package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dwikikusuma/credpos/internal/sales/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("transaction not found")
)

// recentLimit caps the transactions listed on the dashboard.
const recentLimit = 5

type Service struct {
	repo TransactionRepo
	loc  *time.Location
	now  func() time.Time
}

// NewService reports in loc. A nil loc means time.Local.
func NewService(repo TransactionRepo, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}

// WithClock replaces the clock used for window boundaries.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type Dashboard struct {
	Today  domain.Summary
	Recent []domain.Transaction
}

// History returns the account's transactions inside w, newest first.
func (s *Service) History(ctx context.Context, accountID string, w domain.Window) ([]domain.Transaction, error) {
	txns, err := s.forAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return domain.FilterByWindow(txns, w, s.clock()), nil
}

func (s *Service) GetTransaction(ctx context.Context, accountID, id string) (domain.Transaction, error) {
	txns, err := s.forAccount(ctx, accountID)
	if err != nil {
		return domain.Transaction{}, err
	}
	for _, t := range txns {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Transaction{}, ErrNotFound
}

func (s *Service) Settlement(ctx context.Context, accountID string, w domain.Window) (domain.Settlement, error) {
	txns, err := s.History(ctx, accountID, w)
	if err != nil {
		return domain.Settlement{}, err
	}
	return domain.AggregateByMethod(txns), nil
}

func (s *Service) Dashboard(ctx context.Context, accountID string) (Dashboard, error) {
	today, err := s.History(ctx, accountID, domain.WindowToday)
	if err != nil {
		return Dashboard{}, err
	}

	recent := today
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	return Dashboard{
		Today:  domain.Summarize(today),
		Recent: recent,
	}, nil
}

func (s *Service) forAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Transaction, 0, len(all))
	for _, t := range all {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}
