package orders

import "time"

type (
	OrderID    int64
	ProductID  int64
	CustomerID int64
)

type Product struct {
	ID         ProductID `json:"id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Stock      int       `json:"stock"`
}

type Customer struct {
	ID            CustomerID `json:"id"`
	Name          string     `json:"name"`
	LoyaltyPoints int64      `json:"loyalty_points"`
}

type Item struct {
	ProductID ProductID `json:"product_id"`
	Qty       int       `json:"qty"`
}

type Order struct {
	ID         OrderID    `json:"id"`
	CustomerID CustomerID `json:"customer_id"`
	Items      []Item     `json:"items"`
	Status     Status     `json:"status"` // see status.go
	Lane       Lane       `json:"lane"`
	TotalCents int64      `json:"total_cents"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// clone copies the item slice so callers never share registry memory.
func (o Order) clone() Order {
	o.Items = append([]Item(nil), o.Items...)
	return o
}

type HistoryEntry struct {
	Seq     uint64    `json:"seq"`
	OrderID OrderID   `json:"order_id"`
	Status  Status    `json:"status"`
	At      time.Time `json:"timestamp"`
}

type Backlog struct {
	Regular  int `json:"regular"`
	Priority int `json:"priority"`
}

// Transition is emitted after every status change, including admission.
type Transition struct {
	Order Order
	From  Status // empty on admission
	To    Status
	At    time.Time
}
