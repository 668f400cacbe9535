package orders

import (
	"fmt"
	"sync"
	"time"
)

// Accounts is the slice of the customer store the registry depends on.
type Accounts interface {
	Lookup(id CustomerID) (Customer, error)
	Tier(c Customer) Lane
}

// Stock prices and reserves line items. ReserveAll must be all-or-nothing.
type Stock interface {
	Quote(items []Item) (int64, error)
	ReserveAll(items []Item) error
}

// Registry is the authoritative record of every order. Orders live in an
// arena indexed by id-1 and are never removed.
type Registry struct {
	mu       sync.RWMutex
	orders   []Order
	accounts Accounts
	stock    Stock
}

func NewRegistry(accounts Accounts, stock Stock) *Registry {
	return &Registry{accounts: accounts, stock: stock}
}

// Create validates the customer and every line item, reserves stock and
// stores the order as pending. On error nothing has been reserved or stored.
func (r *Registry) Create(customerID CustomerID, items []Item, at time.Time) (Order, error) {
	if err := ValidateItems(items); err != nil {
		return Order{}, err
	}
	cust, err := r.accounts.Lookup(customerID)
	if err != nil {
		return Order{}, err
	}
	total, err := r.stock.Quote(items)
	if err != nil {
		return Order{}, err
	}
	if err := r.stock.ReserveAll(items); err != nil {
		return Order{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	o := Order{
		ID:         OrderID(len(r.orders) + 1),
		CustomerID: cust.ID,
		Items:      append([]Item(nil), items...),
		Status:     StatusPending,
		Lane:       r.accounts.Tier(cust),
		TotalCents: total,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	r.orders = append(r.orders, o)
	return o.clone(), nil
}

func (r *Registry) Get(id OrderID) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, err := r.lookup(id)
	if err != nil {
		return Order{}, err
	}
	return o.clone(), nil
}

// SetStatus overwrites the status without checking legality; the caller owns
// the state machine.
func (r *Registry) SetStatus(id OrderID, s Status, at time.Time) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.lookup(id); err != nil {
		return Order{}, err
	}
	o := &r.orders[id-1]
	o.Status = s
	o.UpdatedAt = at
	return o.clone(), nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}

// List returns a copy of all orders in id order.
func (r *Registry) List() []Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o.clone())
	}
	return out
}

func (r *Registry) lookup(id OrderID) (Order, error) {
	if id < 1 || int(id) > len(r.orders) {
		return Order{}, fmt.Errorf("%w: %d", ErrUnknownOrder, id)
	}
	return r.orders[id-1], nil
}
