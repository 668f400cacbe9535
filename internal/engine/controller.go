// Package engine drives orders through their lifecycle:
//
//	pending --dispatch--> processing --complete--> completed
//	pending --cancel----> cancelled
//	processing --cancel-> cancelled
//
// Inventory is reserved at admission and released only on cancellation.
// Completion is an explicit external signal; the engine owns no timers.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ariefcatur/go-store-orders/internal/customers"
	"github.com/ariefcatur/go-store-orders/internal/inventory"
	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/ariefcatur/go-store-orders/internal/scheduler"
	"github.com/rs/zerolog/log"
)

// Policy holds the tunable business rules of the controller.
type Policy struct {
	// ReverseLoyaltyOnCancel revokes the points accrued at admission when an
	// order is cancelled. Off by default: accrued points are kept.
	ReverseLoyaltyOnCancel bool
}

// Option configures a Controller built by New.
type Option func(*Controller)

// WithNotifier appends observers of committed transitions.
func WithNotifier(ns ...Notifier) Option {
	return func(c *Controller) { c.notifier = append(c.notifier, ns...) }
}

// WithPolicy replaces the default Policy.
func WithPolicy(p Policy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithClock sets the source of transition timestamps. Defaults to UTC now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller serializes every status transition behind one ordering lock.
// The aggregates it coordinates keep their own locks so read-only queries do
// not contend with it.
type Controller struct {
	mu       sync.Mutex
	ledger   *inventory.Ledger
	accounts *customers.Store
	registry *orders.Registry
	lanes    *scheduler.Scheduler
	history  *orders.HistoryLog
	notifier Notifiers
	policy   Policy
	now      func() time.Time
}

// New builds a controller over ledger and accounts with empty lanes and
// history.
func New(ledger *inventory.Ledger, accounts *customers.Store, opts ...Option) *Controller {
	c := &Controller{
		ledger:   ledger,
		accounts: accounts,
		registry: orders.NewRegistry(accounts, ledger),
		lanes:    scheduler.New(),
		history:  orders.NewHistoryLog(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Admit validates and reserves the order, accrues loyalty, enqueues it into
// the lane picked from the customer's balance before accrual and records the
// initial pending entry.
func (c *Controller) Admit(ctx context.Context, customerID orders.CustomerID, items []orders.Item) (orders.Order, error) {
	c.mu.Lock()
	at := c.now()
	o, err := c.registry.Create(customerID, items, at)
	if err != nil {
		c.mu.Unlock()
		return orders.Order{}, fmt.Errorf("admit: %w", err)
	}
	if _, err := c.accounts.Accrue(o.CustomerID, o.TotalCents); err != nil {
		c.mu.Unlock()
		panic(fmt.Sprintf("engine: accrue for admitted order %d: %v", o.ID, err))
	}
	if err := c.lanes.Enqueue(o.ID, o.Lane); err != nil {
		c.mu.Unlock()
		panic(fmt.Sprintf("engine: enqueue admitted order %d: %v", o.ID, err))
	}
	c.history.Append(o.ID, orders.StatusPending, at)
	c.mu.Unlock()

	c.emit(ctx, orders.Transition{Order: o, To: orders.StatusPending, At: at})
	return o, nil
}

// Dispatch pulls the next order per lane policy and moves it to processing.
// ok is false when no order is waiting; that is not an error.
func (c *Controller) Dispatch(ctx context.Context) (orders.Order, bool, error) {
	c.mu.Lock()
	id, _, ok := c.lanes.DispatchNext()
	if !ok {
		c.mu.Unlock()
		return orders.Order{}, false, nil
	}
	t, err := c.advance(id, orders.StatusProcessing)
	c.mu.Unlock()
	if err != nil {
		// a queued id is always pending; anything else is a broken invariant
		panic(fmt.Sprintf("engine: dispatch order %d: %v", id, err))
	}

	c.emit(ctx, t)
	return t.Order, true, nil
}

// Complete handles the external completion signal for a processing order.
func (c *Controller) Complete(ctx context.Context, id orders.OrderID) (orders.Order, error) {
	c.mu.Lock()
	t, err := c.advance(id, orders.StatusCompleted)
	c.mu.Unlock()
	if err != nil {
		return orders.Order{}, fmt.Errorf("complete: %w", err)
	}

	c.emit(ctx, t)
	return t.Order, nil
}

// Cancel releases the order's reservation, drops it from its lane if still
// queued and marks it cancelled.
func (c *Controller) Cancel(ctx context.Context, id orders.OrderID) (orders.Order, error) {
	c.mu.Lock()
	cur, err := c.registry.Get(id)
	if err != nil {
		c.mu.Unlock()
		return orders.Order{}, fmt.Errorf("cancel: %w", err)
	}
	if !orders.CanTransition(cur.Status, orders.StatusCancelled) {
		c.mu.Unlock()
		return orders.Order{}, fmt.Errorf("cancel: %w",
			&orders.TransitionError{OrderID: id, From: cur.Status, To: orders.StatusCancelled})
	}
	if err := c.ledger.ReleaseAll(cur.Items); err != nil {
		c.mu.Unlock()
		return orders.Order{}, fmt.Errorf("cancel: release stock: %w", err)
	}
	c.lanes.Remove(id)
	t, err := c.advance(id, orders.StatusCancelled)
	if err != nil {
		c.mu.Unlock()
		panic(fmt.Sprintf("engine: cancel order %d: %v", id, err))
	}
	if c.policy.ReverseLoyaltyOnCancel {
		if err := c.accounts.Revoke(cur.CustomerID, customers.Points(cur.TotalCents)); err != nil {
			log.Warn().Err(err).Int64("order_id", int64(id)).Msg("loyalty reversal failed")
		}
	}
	c.mu.Unlock()

	c.emit(ctx, t)
	return t.Order, nil
}

// advance checks legality, writes the status and appends history. Caller
// holds c.mu.
func (c *Controller) advance(id orders.OrderID, to orders.Status) (orders.Transition, error) {
	cur, err := c.registry.Get(id)
	if err != nil {
		return orders.Transition{}, err
	}
	if !orders.CanTransition(cur.Status, to) {
		return orders.Transition{}, &orders.TransitionError{OrderID: id, From: cur.Status, To: to}
	}
	at := c.now()
	o, err := c.registry.SetStatus(id, to, at)
	if err != nil {
		return orders.Transition{}, err
	}
	c.history.Append(id, to, at)
	return orders.Transition{Order: o, From: cur.Status, To: to, At: at}, nil
}

func (c *Controller) emit(ctx context.Context, t orders.Transition) {
	log.Debug().
		Int64("order_id", int64(t.Order.ID)).
		Str("from", string(t.From)).
		Str("to", string(t.To)).
		Str("lane", string(t.Order.Lane)).
		Msg("order transition")
	c.notifier.Notify(ctx, t)
}

func (c *Controller) Get(id orders.OrderID) (orders.Order, error) {
	return c.registry.Get(id)
}

func (c *Controller) Orders() []orders.Order {
	return c.registry.List()
}

// History returns the status path of an order in chronological order.
func (c *Controller) History(id orders.OrderID) ([]orders.HistoryEntry, error) {
	if _, err := c.registry.Get(id); err != nil {
		return nil, err
	}
	return c.history.For(id), nil
}

func (c *Controller) Backlog() orders.Backlog {
	return c.lanes.Backlog()
}

// QueuedIn reports the lane currently holding id, if any.
func (c *Controller) QueuedIn(id orders.OrderID) (orders.Lane, bool) {
	return c.lanes.Lane(id)
}
