package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/dwikikusuma/credpos/internal/checkout/domain"
	salesdomain "github.com/dwikikusuma/credpos/internal/sales/domain"
	"github.com/google/uuid"
)

type Service struct {
	ledger Ledger
	cart   CartReader
	log    *slog.Logger
	now    func() time.Time
}

func NewService(ledger Ledger, cart CartReader, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		ledger: ledger,
		cart:   cart,
		log:    log,
		now:    func() time.Time { return time.Now().UTC().Round(0) },
	}
}

// WithClock replaces the clock stamped on new transactions.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Commit turns the lines into a transaction priced at their captured prices.
// Nothing is written unless every line is covered by live stock.
func (s *Service) Commit(ctx context.Context, req domain.CommitRequest) (salesdomain.Transaction, error) {
	if strings.TrimSpace(req.AccountID) == "" {
		return salesdomain.Transaction{}, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	if len(req.Lines) == 0 {
		return salesdomain.Transaction{}, ErrEmptyCart
	}
	method, err := salesdomain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return salesdomain.Transaction{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	var total int64
	items := make([]salesdomain.Item, 0, len(req.Lines))
	seen := make(map[string]struct{}, len(req.Lines))
	for i, l := range req.Lines {
		if l.ProductID == "" {
			return salesdomain.Transaction{}, fmt.Errorf("%w: line %d: product id is required", ErrInvalidInput, i)
		}
		if _, dup := seen[l.ProductID]; dup {
			return salesdomain.Transaction{}, fmt.Errorf("%w: line %d: duplicate product %s", ErrInvalidInput, i, l.ProductID)
		}
		seen[l.ProductID] = struct{}{}
		if l.Quantity < 1 {
			return salesdomain.Transaction{}, fmt.Errorf("%w: line %d: quantity must be positive, got %d", ErrInvalidInput, i, l.Quantity)
		}
		if l.UnitPrice < 0 {
			return salesdomain.Transaction{}, fmt.Errorf("%w: line %d: unit price cannot be negative, got %d", ErrInvalidInput, i, l.UnitPrice)
		}
		if l.UnitPrice > 0 && int64(l.Quantity) > math.MaxInt64/l.UnitPrice {
			return salesdomain.Transaction{}, fmt.Errorf("%w: line %d: subtotal out of range", ErrInvalidInput, i)
		}
		subtotal := l.UnitPrice * int64(l.Quantity)
		if total > math.MaxInt64-subtotal {
			return salesdomain.Transaction{}, fmt.Errorf("%w: total out of range", ErrInvalidInput)
		}
		total += subtotal
		items = append(items, salesdomain.Item{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}

	id, err := uuid.NewV7()
	if err != nil {
		return salesdomain.Transaction{}, fmt.Errorf("generate transaction id: %w", err)
	}
	txn := salesdomain.NewTransaction(id.String(), req.AccountID, method, s.now(), items)

	if err := s.ledger.Record(ctx, txn); err != nil {
		var short *InsufficientStockError
		if errors.As(err, &short) {
			s.log.Warn("checkout rejected",
				slog.String("account_id", req.AccountID),
				slog.Int("short_lines", len(short.Shortages)),
			)
		}
		return salesdomain.Transaction{}, err
	}

	s.log.Info("checkout committed",
		slog.String("transaction_id", txn.ID),
		slog.String("account_id", txn.AccountID),
		slog.String("payment_method", string(txn.PaymentMethod)),
		slog.Int64("total_amount", txn.TotalAmount),
		slog.Int("lines", len(txn.Items)),
	)
	return txn, nil
}

// CheckoutCart commits the account's cart and then takes the sold quantities
// out of it. Units added while the sale was being recorded stay in the cart.
// The sale is durable once Commit returns, so a failure to update the cart is
// only logged.
func (s *Service) CheckoutCart(ctx context.Context, accountID, paymentMethod string) (salesdomain.Transaction, error) {
	lines, err := s.cart.GetLines(ctx, accountID)
	if err != nil {
		return salesdomain.Transaction{}, err
	}

	txn, err := s.Commit(ctx, domain.CommitRequest{
		AccountID:     accountID,
		PaymentMethod: paymentMethod,
		Lines:         lines,
	})
	if err != nil {
		return salesdomain.Transaction{}, err
	}

	if err := s.cart.RemoveLines(ctx, accountID, lines); err != nil {
		s.log.Error("remove sold lines from cart failed",
			slog.String("account_id", accountID),
			slog.String("transaction_id", txn.ID),
			slog.Any("err", err),
		)
	}
	return txn, nil
}
