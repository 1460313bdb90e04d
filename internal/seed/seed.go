// Package seed loads the demo shop: one account, a starter catalog and a few
// recent sales.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	accountdomain "github.com/dwikikusuma/credpos/internal/account/domain"
	catalogdomain "github.com/dwikikusuma/credpos/internal/catalog/domain"
	catalogkv "github.com/dwikikusuma/credpos/internal/catalog/infra/kv"
	salesdomain "github.com/dwikikusuma/credpos/internal/sales/domain"
	saleskv "github.com/dwikikusuma/credpos/internal/sales/infra/kv"
	"github.com/dwikikusuma/credpos/internal/storage"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

type Fixture struct {
	Account      AccountFixture       `yaml:"account"`
	Products     []ProductFixture     `yaml:"products"`
	Transactions []TransactionFixture `yaml:"transactions"`
}

type AccountFixture struct {
	ID           string `yaml:"id"`
	Email        string `yaml:"email"`
	BusinessName string `yaml:"business_name"`
	OwnerName    string `yaml:"owner_name"`
}

type ProductFixture struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Price int64  `yaml:"price"`
	Stock int    `yaml:"stock"`
}

type TransactionFixture struct {
	ID            string        `yaml:"id"`
	Age           time.Duration `yaml:"age"`
	TotalAmount   int64         `yaml:"total_amount"`
	PaymentMethod string        `yaml:"payment_method"`
	Items         []LineFixture `yaml:"items"`
}

type LineFixture struct {
	Product  string `yaml:"product"`
	Quantity int    `yaml:"quantity"`
}

// Parse decodes a fixture and checks that every sale references a known
// product and a valid payment method.
func Parse(data []byte) (Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	if f.Account.ID == "" || f.Account.Email == "" {
		return Fixture{}, errors.New("fixture account needs id and email")
	}

	known := make(map[string]struct{}, len(f.Products))
	for _, p := range f.Products {
		if p.ID == "" {
			return Fixture{}, fmt.Errorf("fixture product %q has no id", p.Name)
		}
		known[p.ID] = struct{}{}
	}
	for _, t := range f.Transactions {
		if _, err := salesdomain.ParsePaymentMethod(t.PaymentMethod); err != nil {
			return Fixture{}, fmt.Errorf("fixture transaction %s: %w", t.ID, err)
		}
		for _, l := range t.Items {
			if _, ok := known[l.Product]; !ok {
				return Fixture{}, fmt.Errorf("fixture transaction %s: unknown product %q", t.ID, l.Product)
			}
		}
	}
	return f, nil
}

type Seeder struct {
	store   storage.Store
	fixture Fixture
	log     *slog.Logger
	now     func() time.Time
}

// New builds a Seeder over the embedded demo fixture.
func New(store storage.Store, log *slog.Logger) (*Seeder, error) {
	f, err := Parse(demoYAML)
	if err != nil {
		return nil, err
	}
	return NewWithFixture(store, f, log), nil
}

func NewWithFixture(store storage.Store, f Fixture, log *slog.Logger) *Seeder {
	if log == nil {
		log = slog.Default()
	}
	return &Seeder{store: store, fixture: f, log: log, now: time.Now}
}

// WithClock replaces the clock sale ages are measured from.
func (s *Seeder) WithClock(now func() time.Time) *Seeder {
	s.now = now
	return s
}

func (s *Seeder) DemoAccount() accountdomain.Account {
	a := s.fixture.Account
	return accountdomain.Account{
		ID:           a.ID,
		Email:        a.Email,
		BusinessName: a.BusinessName,
		OwnerName:    a.OwnerName,
	}
}

// Seed writes the fixture catalog when the catalog is empty and the fixture
// sales, attributed to accountID, when no sales exist. Anything already there
// is left alone.
func (s *Seeder) Seed(ctx context.Context, accountID string) error {
	keys := []string{catalogkv.Products.Key(), saleskv.Transactions.Key()}
	var seededProducts, seededTxns int

	err := s.store.Update(ctx, keys, func(tx storage.Tx) error {
		seededProducts, seededTxns = 0, 0
		now := s.now().UTC().Round(0)

		products, err := catalogkv.Products.Load(ctx, tx)
		if err != nil {
			return err
		}
		if len(products) == 0 {
			products = s.products(now)
			if err := catalogkv.Products.Save(ctx, tx, products); err != nil {
				return err
			}
			seededProducts = len(products)
		}

		txns, err := saleskv.Transactions.Load(ctx, tx)
		if err != nil {
			return err
		}
		if len(txns) == 0 {
			txns = s.transactions(accountID, now)
			if err := saleskv.Transactions.Save(ctx, tx, txns); err != nil {
				return err
			}
			seededTxns = len(txns)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if seededProducts > 0 || seededTxns > 0 {
		s.log.Info("demo data seeded",
			slog.String("account_id", accountID),
			slog.Int("products", seededProducts),
			slog.Int("transactions", seededTxns),
		)
	}
	return nil
}

func (s *Seeder) products(now time.Time) []catalogdomain.Product {
	out := make([]catalogdomain.Product, 0, len(s.fixture.Products))
	for _, p := range s.fixture.Products {
		out = append(out, catalogdomain.Product{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Stock:     p.Stock,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return out
}

func (s *Seeder) transactions(accountID string, now time.Time) []salesdomain.Transaction {
	byID := make(map[string]ProductFixture, len(s.fixture.Products))
	for _, p := range s.fixture.Products {
		byID[p.ID] = p
	}

	out := make([]salesdomain.Transaction, 0, len(s.fixture.Transactions))
	for _, t := range s.fixture.Transactions {
		items := make([]salesdomain.Item, 0, len(t.Items))
		for _, l := range t.Items {
			p := byID[l.Product]
			items = append(items, salesdomain.Item{
				ProductID: p.ID,
				Name:      p.Name,
				UnitPrice: p.Price,
				Quantity:  l.Quantity,
				Subtotal:  p.Price * int64(l.Quantity),
			})
		}
		method, _ := salesdomain.ParsePaymentMethod(t.PaymentMethod)
		out = append(out, salesdomain.Transaction{
			ID:            t.ID,
			AccountID:     accountID,
			CreatedAt:     now.Add(-t.Age),
			TotalAmount:   t.TotalAmount,
			PaymentMethod: method,
			Items:         items,
		})
	}

	slices.SortStableFunc(out, func(a, b salesdomain.Transaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}
