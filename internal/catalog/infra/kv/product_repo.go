package kv

import (
	"context"
	"slices"
	"time"

	"github.com/dwikikusuma/credpos/internal/catalog/app"
	"github.com/dwikikusuma/credpos/internal/catalog/domain"
	"github.com/dwikikusuma/credpos/internal/storage"
	"github.com/google/uuid"
)

// Products is the catalog collection. The checkout ledger shares it so both
// sides agree on the encoding.
var Products = storage.NewCollection[domain.Product](storage.KeyCatalog)

type ProductRepo struct {
	store storage.Store
	now   func() time.Time
}

func NewProductRepo(store storage.Store) *ProductRepo {
	return &ProductRepo{store: store, now: func() time.Time { return time.Now().UTC().Round(0) }}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	now := r.now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	err := r.store.Update(ctx, []string{Products.Key()}, func(tx storage.Tx) error {
		products, err := Products.Load(ctx, tx)
		if err != nil {
			return err
		}
		return Products.Save(ctx, tx, append(products, p))
	})
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	products, err := Products.Load(ctx, r.store)
	if err != nil {
		return domain.Product{}, err
	}

	idx := indexOf(products, id)
	if idx < 0 {
		return domain.Product{}, app.ErrNotFound
	}
	return products[idx], nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	return Products.Load(ctx, r.store)
}

func (r *ProductRepo) Update(ctx context.Context, id string, fn func(p *domain.Product) error) (domain.Product, error) {
	var updated domain.Product

	err := r.store.Update(ctx, []string{Products.Key()}, func(tx storage.Tx) error {
		products, err := Products.Load(ctx, tx)
		if err != nil {
			return err
		}

		idx := indexOf(products, id)
		if idx < 0 {
			return app.ErrNotFound
		}

		p := products[idx]
		if err := fn(&p); err != nil {
			return err
		}
		p.ID = products[idx].ID
		p.CreatedAt = products[idx].CreatedAt
		p.UpdatedAt = r.now()
		products[idx] = p
		updated = p

		return Products.Save(ctx, tx, products)
	})
	if err != nil {
		return domain.Product{}, err
	}
	return updated, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.store.Update(ctx, []string{Products.Key()}, func(tx storage.Tx) error {
		products, err := Products.Load(ctx, tx)
		if err != nil {
			return err
		}

		idx := indexOf(products, id)
		if idx < 0 {
			return nil
		}
		return Products.Save(ctx, tx, slices.Delete(products, idx, idx+1))
	})
}

func indexOf(products []domain.Product, id string) int {
	return slices.IndexFunc(products, func(p domain.Product) bool { return p.ID == id })
}
