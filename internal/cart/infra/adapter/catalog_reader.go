package adapter

import (
	"context"
	"errors"

	cartapp "github.com/dwikikusuma/credpos/internal/cart/app"
	cartdomain "github.com/dwikikusuma/credpos/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/credpos/internal/catalog/app"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetItem(ctx context.Context, productID string) (cartdomain.Item, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if errors.Is(err, catalogapp.ErrNotFound) {
		return cartdomain.Item{}, cartapp.ErrProductNotFound
	}
	if err != nil {
		return cartdomain.Item{}, err
	}

	return cartdomain.Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
	}, nil
}
