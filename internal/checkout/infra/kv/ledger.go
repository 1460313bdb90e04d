package kv

import (
	"context"
	"slices"

	catalogdomain "github.com/dwikikusuma/credpos/internal/catalog/domain"
	catalogkv "github.com/dwikikusuma/credpos/internal/catalog/infra/kv"
	"github.com/dwikikusuma/credpos/internal/checkout/app"
	"github.com/dwikikusuma/credpos/internal/checkout/domain"
	salesdomain "github.com/dwikikusuma/credpos/internal/sales/domain"
	saleskv "github.com/dwikikusuma/credpos/internal/sales/infra/kv"
	"github.com/dwikikusuma/credpos/internal/storage"
)

// Ledger writes a sale and its stock movements in one store update, so the
// catalog and the transaction list never disagree.
type Ledger struct {
	store storage.Store
}

func NewLedger(store storage.Store) *Ledger {
	return &Ledger{store: store}
}

func (l *Ledger) Record(ctx context.Context, txn salesdomain.Transaction) error {
	keys := []string{catalogkv.Products.Key(), saleskv.Transactions.Key()}

	return l.store.Update(ctx, keys, func(tx storage.Tx) error {
		products, err := catalogkv.Products.Load(ctx, tx)
		if err != nil {
			return err
		}

		if short := shortages(products, txn.Items); len(short) > 0 {
			return &app.InsufficientStockError{Shortages: short}
		}

		for _, it := range txn.Items {
			if idx := indexOf(products, it.ProductID); idx >= 0 {
				products[idx].DecrementStock(it.Quantity)
				products[idx].UpdatedAt = txn.CreatedAt
			}
		}

		txns, err := saleskv.Transactions.Load(ctx, tx)
		if err != nil {
			return err
		}
		txns = slices.Insert(txns, 0, txn)

		if err := saleskv.Transactions.Save(ctx, tx, txns); err != nil {
			return err
		}
		return catalogkv.Products.Save(ctx, tx, products)
	})
}

func shortages(products []catalogdomain.Product, items []salesdomain.Item) []domain.Shortage {
	var out []domain.Shortage
	for _, it := range items {
		available := 0
		if idx := indexOf(products, it.ProductID); idx >= 0 {
			available = products[idx].Stock
		}
		if it.Quantity > available {
			out = append(out, domain.Shortage{
				ProductID: it.ProductID,
				Name:      it.Name,
				Requested: it.Quantity,
				Available: available,
			})
		}
	}
	return out
}

func indexOf(products []catalogdomain.Product, id string) int {
	return slices.IndexFunc(products, func(p catalogdomain.Product) bool { return p.ID == id })
}
