package memory

import (
	"context"
	"sync"

	"github.com/dwikikusuma/credpos/internal/cart/domain"
)

// CartRepo keeps carts in process memory, keyed by account id.
type CartRepo struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewCartRepo() *CartRepo {
	return &CartRepo{carts: make(map[string]*domain.Cart)}
}

func (r *CartRepo) GetOrCreate(ctx context.Context, accountID string) (*domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.cartLocked(accountID).Clone(), nil
}

func (r *CartRepo) Update(ctx context.Context, accountID string, fn func(c *domain.Cart) error) (*domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	// work on a copy so a failing fn leaves the stored cart alone
	next := r.cartLocked(accountID).Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	r.carts[accountID] = next
	return next.Clone(), nil
}

func (r *CartRepo) Delete(ctx context.Context, accountID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, accountID)
	return nil
}

func (r *CartRepo) cartLocked(accountID string) *domain.Cart {
	c, ok := r.carts[accountID]
	if !ok {
		c = domain.New(accountID)
		r.carts[accountID] = c
	}
	return c
}
