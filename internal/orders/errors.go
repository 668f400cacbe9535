package orders

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCustomer   = errors.New("unknown customer")
	ErrUnknownProduct    = errors.New("unknown product")
	ErrUnknownOrder      = errors.New("unknown order")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidItems      = errors.New("invalid items")
)

// StockShortage mirrors the rejection detail the ledger reports for a line.
type StockShortage struct {
	ProductID ProductID `json:"product_id"`
	Required  int       `json:"required"`
	Available int       `json:"available"`
}

func (e *StockShortage) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: required %d, available %d",
		e.ProductID, e.Required, e.Available)
}

func (e *StockShortage) Unwrap() error { return ErrInsufficientStock }

type TransitionError struct {
	OrderID OrderID
	From    Status
	To      Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order %d: cannot move from %s to %s", e.OrderID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// ValidateItems rejects empty orders and non-positive quantities.
func ValidateItems(items []Item) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: no line items", ErrInvalidItems)
	}
	for _, it := range items {
		if it.Qty <= 0 {
			return fmt.Errorf("%w: invalid qty %d for product %d", ErrInvalidItems, it.Qty, it.ProductID)
		}
	}
	return nil
}
