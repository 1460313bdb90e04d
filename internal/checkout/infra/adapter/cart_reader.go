package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/credpos/internal/cart/app"
	checkoutdomain "github.com/dwikikusuma/credpos/internal/checkout/domain"
)

type CartServiceReader struct {
	svc *cartapp.Service
}

func NewCartServiceReader(svc *cartapp.Service) *CartServiceReader {
	return &CartServiceReader{svc: svc}
}

func (r *CartServiceReader) GetLines(ctx context.Context, accountID string) ([]checkoutdomain.Line, error) {
	cart, err := r.svc.GetCart(ctx, accountID)
	if err != nil {
		return nil, err
	}

	lines := cart.Lines()
	out := make([]checkoutdomain.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, checkoutdomain.Line{
			ProductID: l.Item.ProductID,
			Name:      l.Item.Name,
			UnitPrice: l.Item.Price,
			Quantity:  l.Quantity,
		})
	}
	return out, nil
}

func (r *CartServiceReader) RemoveLines(ctx context.Context, accountID string, lines []checkoutdomain.Line) error {
	sold := make(map[string]int, len(lines))
	for _, l := range lines {
		sold[l.ProductID] += l.Quantity
	}
	_, err := r.svc.RemoveSold(ctx, accountID, sold)
	return err
}
