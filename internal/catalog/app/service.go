package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dwikikusuma/credpos/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) CreateProduct(ctx context.Context, name string, price int64, stock int) (domain.Product, error) {
	name = strings.TrimSpace(name)

	if err := validateFields(name, price, stock); err != nil {
		return domain.Product{}, err
	}

	p := domain.Product{
		Name:  name,
		Price: price,
		Stock: stock,
	}

	product, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

// ListProducts returns products in storage order. A non-empty query keeps only
// names containing it, case-insensitively.
func (s *Service) ListProducts(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return products, nil
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			out = append(out, p)
		}
	}
	return out, nil
}

// UpdateProduct applies a partial update. Unknown ids return ErrNotFound.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch domain.Patch) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if patch.Empty() {
		return domain.Product{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	return s.repo.Update(ctx, id, func(p *domain.Product) error {
		next := patch.Apply(*p)
		if err := validateFields(next.Name, next.Price, next.Stock); err != nil {
			return err
		}
		*p = next
		return nil
	})
}

// DeleteProduct is idempotent. Past transactions keep their own copy of the
// product, so nothing else is touched.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.repo.Delete(ctx, id)
}

// DecrementStock lowers stock by qty, never below zero. An unknown id is a
// no-op.
func (s *Service) DecrementStock(ctx context.Context, id string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("%w: quantity must not be negative, got %d", ErrInvalidInput, qty)
	}

	_, err := s.repo.Update(ctx, id, func(p *domain.Product) error {
		p.DecrementStock(qty)
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func validateFields(name string, price int64, stock int) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative, got %d", ErrInvalidInput, price)
	}
	if price > domain.MaxPrice {
		return fmt.Errorf("%w: price must not exceed %d, got %d", ErrInvalidInput, domain.MaxPrice, price)
	}
	if stock < 0 {
		return fmt.Errorf("%w: stock must not be negative, got %d", ErrInvalidInput, stock)
	}
	if stock > domain.MaxStock {
		return fmt.Errorf("%w: stock must not exceed %d, got %d", ErrInvalidInput, domain.MaxStock, stock)
	}
	return nil
}
