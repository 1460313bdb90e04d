package app

import (
	"context"

	"github.com/dwikikusuma/credpos/internal/cart/domain"
)

// CartRepo holds one cart per account. Carts are never persisted.
type CartRepo interface {
	// GetOrCreate returns a copy of the account's cart, empty if it has none.
	GetOrCreate(ctx context.Context, accountID string) (*domain.Cart, error)
	// Update runs fn on the account's cart under the repo's lock.
	Update(ctx context.Context, accountID string, fn func(c *domain.Cart) error) (*domain.Cart, error)
	Delete(ctx context.Context, accountID string) error
}

// CatalogReader gives the cart a fresh snapshot of a product.
type CatalogReader interface {
	GetItem(ctx context.Context, productID string) (domain.Item, error)
}
