package engine

import (
	"context"

	"github.com/ariefcatur/go-store-orders/internal/orders"
)

// Notifier observes committed transitions. It is called after the controller
// has released its lock and must not call back into the controller
// synchronously.
type Notifier interface {
	Notify(ctx context.Context, t orders.Transition)
}

type NotifierFunc func(ctx context.Context, t orders.Transition)

func (f NotifierFunc) Notify(ctx context.Context, t orders.Transition) { f(ctx, t) }

// Notifiers fans a transition out in slice order. Nil entries are skipped.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, t orders.Transition) {
	for _, n := range ns {
		if n != nil {
			n.Notify(ctx, t)
		}
	}
}
