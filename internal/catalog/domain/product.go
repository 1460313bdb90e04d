package domain

import (
	"errors"
	"strings"
	"time"
)

type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Upper bounds keep price * quantity and cart totals well inside int64.
const (
	MaxPrice int64 = 1_000_000_000_000
	MaxStock int   = 1_000_000
)

func (p Product) Validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return errors.New("id is required")
	case strings.TrimSpace(p.Name) == "":
		return errors.New("name is required")
	case p.Price < 0:
		return errors.New("price must not be negative")
	case p.Price > MaxPrice:
		return errors.New("price is too large")
	case p.Stock < 0:
		return errors.New("stock must not be negative")
	case p.Stock > MaxStock:
		return errors.New("stock is too large")
	}
	return nil
}

// DecrementStock removes qty units, flooring at zero.
func (p *Product) DecrementStock(qty int) {
	if qty <= 0 {
		return
	}
	p.Stock = max(0, p.Stock-qty)
}

type StockLevel string

const (
	StockOut     StockLevel = "out"
	StockLow     StockLevel = "low"
	StockHealthy StockLevel = "in_stock"
)

// LowStockThreshold is the highest stock still reported as low.
const LowStockThreshold = 10

func (p Product) StockLevel() StockLevel {
	switch {
	case p.Stock <= 0:
		return StockOut
	case p.Stock <= LowStockThreshold:
		return StockLow
	default:
		return StockHealthy
	}
}

// Patch carries the fields of an update; nil means unchanged.
type Patch struct {
	Name  *string
	Price *int64
	Stock *int
}

func (pt Patch) Empty() bool {
	return pt.Name == nil && pt.Price == nil && pt.Stock == nil
}

func (pt Patch) Apply(p Product) Product {
	if pt.Name != nil {
		p.Name = strings.TrimSpace(*pt.Name)
	}
	if pt.Price != nil {
		p.Price = *pt.Price
	}
	if pt.Stock != nil {
		p.Stock = *pt.Stock
	}
	return p
}
