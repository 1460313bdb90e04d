package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentQRIS     PaymentMethod = "qris"
	PaymentTransfer PaymentMethod = "transfer"
)

// PaymentMethods lists every method in settlement order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentQRIS, PaymentTransfer}

var ErrUnknownPaymentMethod = errors.New("unknown payment method")

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, s)
	}
	return m, nil
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentQRIS, PaymentTransfer:
		return true
	}
	return false
}

// Item is a line copied by value from the cart at commit time. It does not
// change when the catalog item is later edited or deleted.
type Item struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// Transaction is a completed sale. TotalAmount is stored as recorded and is
// never recomputed from Items.
type Transaction struct {
	ID            string        `json:"id"`
	AccountID     string        `json:"account_id"`
	CreatedAt     time.Time     `json:"created_at"`
	TotalAmount   int64         `json:"total_amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Items         []Item        `json:"items"`
}

// NewTransaction prices the lines and totals them.
func NewTransaction(id, accountID string, method PaymentMethod, createdAt time.Time, items []Item) Transaction {
	lines := make([]Item, len(items))
	var total int64
	for i, it := range items {
		it.Subtotal = it.UnitPrice * int64(it.Quantity)
		total += it.Subtotal
		lines[i] = it
	}
	return Transaction{
		ID:            id,
		AccountID:     accountID,
		CreatedAt:     createdAt,
		TotalAmount:   total,
		PaymentMethod: method,
		Items:         lines,
	}
}

func (t Transaction) Validate() error {
	if t.ID == "" {
		return errors.New("id is required")
	}
	if t.AccountID == "" {
		return errors.New("account_id is required")
	}
	if t.CreatedAt.IsZero() {
		return errors.New("created_at is required")
	}
	if t.TotalAmount < 0 {
		return fmt.Errorf("total_amount must be >= 0, got %d", t.TotalAmount)
	}
	if !t.PaymentMethod.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, t.PaymentMethod)
	}
	if len(t.Items) == 0 {
		return errors.New("items must not be empty")
	}
	for i, it := range t.Items {
		if it.ProductID == "" {
			return fmt.Errorf("item %d: product_id is required", i)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("item %d: quantity must be positive, got %d", i, it.Quantity)
		}
		if it.UnitPrice < 0 {
			return fmt.Errorf("item %d: unit price cannot be negative, got %d", i, it.UnitPrice)
		}
	}
	return nil
}
