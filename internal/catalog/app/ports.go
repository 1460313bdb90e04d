package app

import (
	"context"

	"github.com/dwikikusuma/credpos/internal/catalog/domain"
)

type ProductRepo interface {
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	// Update applies fn to the stored product and persists the result.
	// Returns ErrNotFound when id is unknown.
	Update(ctx context.Context, id string, fn func(p *domain.Product) error) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}
