package kv

import (
	"context"

	"github.com/dwikikusuma/credpos/internal/sales/domain"
	"github.com/dwikikusuma/credpos/internal/storage"
)

// Transactions is the sales ledger, newest first. Checkout and the demo seed
// write it; reporting only reads.
var Transactions = storage.NewCollection[domain.Transaction](storage.KeyTransactions)

type TransactionRepo struct {
	store storage.Store
}

func NewTransactionRepo(store storage.Store) *TransactionRepo {
	return &TransactionRepo{store: store}
}

func (r *TransactionRepo) List(ctx context.Context) ([]domain.Transaction, error) {
	return Transactions.Load(ctx, r.store)
}
