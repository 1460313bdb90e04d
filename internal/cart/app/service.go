package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dwikikusuma/credpos/internal/cart/domain"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrProductNotFound = errors.New("product not found")
)

type Service struct {
	repo    CartRepo
	catalog CatalogReader
	log     *slog.Logger
}

func NewService(repo CartRepo, catalog CatalogReader, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:    repo,
		catalog: catalog,
		log:     log,
	}
}

func (s *Service) GetCart(ctx context.Context, accountID string) (*domain.Cart, error) {
	if err := requireAccount(accountID); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, accountID)
}

// AddItemToCart adds one unit of the product using a fresh catalog snapshot.
// added is false when the product is out of stock or already at its cap; the
// cart is then returned unchanged.
func (s *Service) AddItemToCart(ctx context.Context, accountID, productID string) (cart *domain.Cart, added bool, err error) {
	if err := requireAccount(accountID); err != nil {
		return nil, false, err
	}
	if strings.TrimSpace(productID) == "" {
		return nil, false, fmt.Errorf("%w: product_id is required", ErrInvalidInput)
	}

	item, err := s.catalog.GetItem(ctx, productID)
	if err != nil {
		return nil, false, err
	}

	cart, err = s.repo.Update(ctx, accountID, func(c *domain.Cart) error {
		added = c.Add(item)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if !added {
		s.log.Debug("add to cart capped by stock",
			slog.String("account_id", accountID),
			slog.String("product_id", productID),
			slog.Int("stock", item.Stock),
		)
	}
	return cart, added, nil
}

func (s *Service) SetItemQuantity(ctx context.Context, accountID, productID string, qty int) (*domain.Cart, error) {
	if err := requireAccount(accountID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, accountID, func(c *domain.Cart) error {
		c.SetQuantity(productID, qty)
		return nil
	})
}

func (s *Service) RemoveItemFromCart(ctx context.Context, accountID, productID string) (*domain.Cart, error) {
	if err := requireAccount(accountID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, accountID, func(c *domain.Cart) error {
		c.Remove(productID)
		return nil
	})
}

// RemoveSold takes the sold quantity of each product out of the cart, keeping
// any units added after the sale was priced.
func (s *Service) RemoveSold(ctx context.Context, accountID string, sold map[string]int) (*domain.Cart, error) {
	if err := requireAccount(accountID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, accountID, func(c *domain.Cart) error {
		for productID, qty := range sold {
			c.SetQuantity(productID, c.Quantity(productID)-qty)
		}
		return nil
	})
}

func (s *Service) ClearCart(ctx context.Context, accountID string) error {
	if err := requireAccount(accountID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, accountID)
}

func requireAccount(accountID string) error {
	if strings.TrimSpace(accountID) == "" {
		return fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	return nil
}
