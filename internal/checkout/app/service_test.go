package app_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/dwikikusuma/credpos/internal/checkout/app"
	"github.com/dwikikusuma/credpos/internal/checkout/domain"
	salesdomain "github.com/dwikikusuma/credpos/internal/sales/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeLedger struct {
	recorded []salesdomain.Transaction
	err      error
}

func (f *fakeLedger) Record(_ context.Context, txn salesdomain.Transaction) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, txn)
	return nil
}

type fakeCart struct {
	lines     []domain.Line
	removed   []domain.Line
	removeErr error
}

func (f *fakeCart) GetLines(context.Context, string) ([]domain.Line, error) {
	return f.lines, nil
}

func (f *fakeCart) RemoveLines(_ context.Context, _ string, lines []domain.Line) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, lines...)
	return nil
}

var fixedNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestService(ledger app.Ledger, cart app.CartReader) *app.Service {
	return app.NewService(ledger, cart, nil).WithClock(func() time.Time { return fixedNow })
}

func TestService_Commit(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(ledger, &fakeCart{})

	txn, err := svc.Commit(context.Background(), domain.CommitRequest{
		AccountID:     "acc",
		PaymentMethod: "cash",
		Lines: []domain.Line{
			{ProductID: "p1", Name: "Kopi", UnitPrice: 1000, Quantity: 3},
			{ProductID: "p2", Name: "Roti", UnitPrice: 2500, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, "acc", txn.AccountID)
	assert.Equal(t, salesdomain.PaymentCash, txn.PaymentMethod)
	assert.Equal(t, int64(5500), txn.TotalAmount)
	assert.Equal(t, fixedNow, txn.CreatedAt)
	require.Len(t, ledger.recorded, 1)
	assert.Equal(t, txn, ledger.recorded[0])
}

func TestService_CommitStampsUTC(t *testing.T) {
	svc := app.NewService(&fakeLedger{}, &fakeCart{}, nil)

	txn, err := svc.Commit(context.Background(), domain.CommitRequest{
		AccountID:     "acc",
		PaymentMethod: "cash",
		Lines:         []domain.Line{{ProductID: "p1", Name: "Kopi", UnitPrice: 1000, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, txn.CreatedAt.Location())
	assert.Equal(t, txn.CreatedAt, txn.CreatedAt.Round(0))
}

func TestService_Commit_Rejects(t *testing.T) {
	line := domain.Line{ProductID: "p1", Name: "Kopi", UnitPrice: 1000, Quantity: 1}

	tests := []struct {
		name string
		req  domain.CommitRequest
		want error
	}{
		{"empty cart", domain.CommitRequest{AccountID: "acc", PaymentMethod: "cash"}, app.ErrEmptyCart},
		{"bad method", domain.CommitRequest{AccountID: "acc", PaymentMethod: "card", Lines: []domain.Line{line}}, app.ErrInvalidPaymentMethod},
		{"no account", domain.CommitRequest{PaymentMethod: "cash", Lines: []domain.Line{line}}, app.ErrInvalidInput},
		{"zero quantity", domain.CommitRequest{AccountID: "acc", PaymentMethod: "cash", Lines: []domain.Line{{ProductID: "p1", Name: "Kopi", UnitPrice: 1000}}}, app.ErrInvalidInput},
		{"duplicate line", domain.CommitRequest{AccountID: "acc", PaymentMethod: "cash", Lines: []domain.Line{line, line}}, app.ErrInvalidInput},
		{"subtotal overflow", domain.CommitRequest{AccountID: "acc", PaymentMethod: "cash", Lines: []domain.Line{
			{ProductID: "p1", Name: "Kopi", UnitPrice: math.MaxInt64 / 2, Quantity: 3},
		}}, app.ErrInvalidInput},
		{"total overflow", domain.CommitRequest{AccountID: "acc", PaymentMethod: "cash", Lines: []domain.Line{
			{ProductID: "p1", Name: "Kopi", UnitPrice: math.MaxInt64 - 10, Quantity: 1},
			{ProductID: "p2", Name: "Roti", UnitPrice: 11, Quantity: 1},
		}}, app.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &fakeLedger{}
			svc := newTestService(ledger, &fakeCart{})

			_, err := svc.Commit(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, ledger.recorded)
		})
	}
}

func TestService_CheckoutCart(t *testing.T) {
	ledger := &fakeLedger{}
	cart := &fakeCart{lines: []domain.Line{{ProductID: "p1", Name: "Kopi", UnitPrice: 1000, Quantity: 3}}}
	svc := newTestService(ledger, cart)

	txn, err := svc.CheckoutCart(context.Background(), "acc", "qris")
	require.NoError(t, err)
	assert.Equal(t, int64(3000), txn.TotalAmount)
	assert.Equal(t, cart.lines, cart.removed, "only the sold lines are taken out")
}

func TestService_CheckoutCart_KeepsCartOnFailure(t *testing.T) {
	short := &app.InsufficientStockError{Shortages: []domain.Shortage{{ProductID: "p1", Name: "Kopi", Requested: 3, Available: 1}}}
	ledger := &fakeLedger{err: short}
	cart := &fakeCart{lines: []domain.Line{{ProductID: "p1", Name: "Kopi", UnitPrice: 1000, Quantity: 3}}}
	svc := newTestService(ledger, cart)

	_, err := svc.CheckoutCart(context.Background(), "acc", "cash")
	assert.ErrorIs(t, err, app.ErrInsufficientStock)

	var got *app.InsufficientStockError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, 1, got.Shortages[0].Available)
	assert.Empty(t, cart.removed)
}

func TestService_CheckoutCart_CartUpdateFailureIsNotFatal(t *testing.T) {
	ledger := &fakeLedger{}
	cart := &fakeCart{
		lines:     []domain.Line{{ProductID: "p1", Name: "Kopi", UnitPrice: 1000, Quantity: 1}},
		removeErr: errors.New("cart gone"),
	}
	svc := newTestService(ledger, cart)

	txn, err := svc.CheckoutCart(context.Background(), "acc", "transfer")
	require.NoError(t, err)
	assert.Len(t, ledger.recorded, 1)
	assert.Equal(t, txn.ID, ledger.recorded[0].ID)
}

func TestInsufficientStockError_Message(t *testing.T) {
	err := &app.InsufficientStockError{Shortages: []domain.Shortage{
		{Name: "Kopi", Requested: 3, Available: 1},
		{Name: "Roti", Requested: 2, Available: 0},
	}}
	assert.Equal(t, "insufficient stock: Kopi (requested 3, available 1), Roti (requested 2, available 0)", err.Error())
}
