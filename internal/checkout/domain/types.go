package domain

// Line is one cart line as handed to checkout. Name and UnitPrice are the
// values captured when the item went into the cart.
type Line struct {
	ProductID string
	Name      string
	UnitPrice int64
	Quantity  int
}

type CommitRequest struct {
	AccountID     string
	PaymentMethod string
	Lines         []Line
}

// Shortage describes a line the live catalog cannot cover. Available is 0 for
// an item that no longer exists.
type Shortage struct {
	ProductID string
	Name      string
	Requested int
	Available int
}
