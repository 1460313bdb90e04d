package app

import (
	"context"

	"github.com/dwikikusuma/credpos/internal/sales/domain"
)

type TransactionRepo interface {
	// List returns every stored transaction, newest first.
	List(ctx context.Context) ([]domain.Transaction, error)
}
