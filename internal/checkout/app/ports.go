package app

import (
	"context"

	"github.com/dwikikusuma/credpos/internal/checkout/domain"
	salesdomain "github.com/dwikikusuma/credpos/internal/sales/domain"
)

// Ledger records a sale. Record must check every line against live stock,
// store txn and decrement stock as one atomic step, returning
// *InsufficientStockError without writing anything when stock is short.
type Ledger interface {
	Record(ctx context.Context, txn salesdomain.Transaction) error
}

// CartReader exposes the cart to checkout. RemoveLines subtracts the given
// quantities from the cart and drops lines that reach zero.
type CartReader interface {
	GetLines(ctx context.Context, accountID string) ([]domain.Line, error)
	RemoveLines(ctx context.Context, accountID string, lines []domain.Line) error
}
