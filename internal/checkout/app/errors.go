package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dwikikusuma/credpos/internal/checkout/domain"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInsufficientStock    = errors.New("insufficient stock")
)

// InsufficientStockError lists every line that exceeded live stock. It
// matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	Shortages []domain.Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s (requested %d, available %d)", s.Name, s.Requested, s.Available))
	}
	return ErrInsufficientStock.Error() + ": " + strings.Join(parts, ", ")
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
