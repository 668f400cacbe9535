package customers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ariefcatur/go-store-orders/internal/orders"
)

const DefaultPriorityThreshold int64 = 100

// Store keeps customer records and their loyalty balances.
type Store struct {
	mu        sync.RWMutex
	customers map[orders.CustomerID]*orders.Customer
	nextID    orders.CustomerID
	threshold int64
}

func NewStore(priorityThreshold int64) *Store {
	if priorityThreshold <= 0 {
		priorityThreshold = DefaultPriorityThreshold
	}
	return &Store{
		customers: make(map[orders.CustomerID]*orders.Customer),
		threshold: priorityThreshold,
	}
}

func (s *Store) Add(name string) orders.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c := &orders.Customer{ID: s.nextID, Name: name}
	s.customers[c.ID] = c
	return *c
}

// Put registers a customer under its own id. Used when seeding.
func (s *Store) Put(c orders.Customer) error {
	if c.ID <= 0 || c.LoyaltyPoints < 0 {
		return fmt.Errorf("customer %d: invalid record", c.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := c
	s.customers[c.ID] = &cp
	if c.ID > s.nextID {
		s.nextID = c.ID
	}
	return nil
}

func (s *Store) Lookup(id orders.CustomerID) (orders.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return orders.Customer{}, fmt.Errorf("%w: %d", orders.ErrUnknownCustomer, id)
	}
	return *c, nil
}

func (s *Store) List() []orders.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]orders.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Points converts a monetary amount in cents to loyalty points (floor of
// whole currency units).
func Points(amountCents int64) int64 {
	if amountCents <= 0 {
		return 0
	}
	return amountCents / 100
}

// Accrue adds Points(amountCents) and returns the number of points added.
func (s *Store) Accrue(id orders.CustomerID, amountCents int64) (int64, error) {
	return s.Grant(id, Points(amountCents))
}

// Grant adds points directly.
func (s *Store) Grant(id orders.CustomerID, points int64) (int64, error) {
	if points < 0 {
		return 0, fmt.Errorf("customer %d: cannot grant negative points", id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return 0, fmt.Errorf("%w: %d", orders.ErrUnknownCustomer, id)
	}
	c.LoyaltyPoints += points
	return points, nil
}

// Revoke removes up to points from the balance; the balance never drops
// below zero.
func (s *Store) Revoke(id orders.CustomerID, points int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return fmt.Errorf("%w: %d", orders.ErrUnknownCustomer, id)
	}
	c.LoyaltyPoints -= points
	if c.LoyaltyPoints < 0 {
		c.LoyaltyPoints = 0
	}
	return nil
}

// Tier classifies a customer snapshot into a lane.
func (s *Store) Tier(c orders.Customer) orders.Lane {
	if c.LoyaltyPoints >= s.threshold {
		return orders.LanePriority
	}
	return orders.LaneRegular
}

func (s *Store) Threshold() int64 { return s.threshold }
