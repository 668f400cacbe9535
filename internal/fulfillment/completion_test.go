package fulfillment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariefcatur/go-store-orders/internal/customers"
	"github.com/ariefcatur/go-store-orders/internal/engine"
	"github.com/ariefcatur/go-store-orders/internal/inventory"
	kafkax "github.com/ariefcatur/go-store-orders/internal/kafka"
	"github.com/ariefcatur/go-store-orders/internal/orders"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionMsg(id orders.OrderID) kafkago.Message {
	sig := orders.CompletionSignal{OrderID: id, ConfirmedBy: "fulfillment-svc", ConfirmedAt: time.Now().UTC()}
	env := kafkax.NewEnvelope(orders.EventCompletionSignal, "fulfillment-svc", "", id, sig)
	return kafkago.Message{Topic: orders.TopicOrderCompletion, Value: kafkax.MustMarshal(env)}
}

func TestCompletionHandler_CompletesProcessingOrder(t *testing.T) {
	ctx := context.Background()
	ledger := inventory.NewLedger()
	accounts := customers.NewStore(0)
	eng := engine.New(ledger, accounts)
	p, err := ledger.Add("Book", 1500, 3)
	require.NoError(t, err)
	c := accounts.Add("Alice")

	first, err := eng.Admit(ctx, c.ID, []orders.Item{{ProductID: p.ID, Qty: 1}})
	require.NoError(t, err)
	second, err := eng.Admit(ctx, c.ID, []orders.Item{{ProductID: p.ID, Qty: 1}})
	require.NoError(t, err)
	_, _, err = eng.Dispatch(ctx)
	require.NoError(t, err)

	var rejected []error
	h := &CompletionHandler{Engine: eng, OnReject: func(err error) { rejected = append(rejected, err) }}

	require.NoError(t, h.Handle(ctx, completionMsg(first.ID)))
	o, err := eng.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusCompleted, o.Status)

	// duplicate signal and a signal for a still-pending order are committed, not retried
	require.NoError(t, h.Handle(ctx, completionMsg(first.ID)))
	require.NoError(t, h.Handle(ctx, completionMsg(second.ID)))
	require.NoError(t, h.Handle(ctx, completionMsg(99)))
	require.Len(t, rejected, 3)
	assert.ErrorIs(t, rejected[0], orders.ErrInvalidTransition)
	assert.ErrorIs(t, rejected[2], orders.ErrUnknownOrder)

	o, err = eng.Get(second.ID)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusPending, o.Status)
}

type failingCompleter struct{ err error }

func (f failingCompleter) Complete(context.Context, orders.OrderID) (orders.Order, error) {
	return orders.Order{}, f.err
}

func TestCompletionHandler_ReturnsUnexpectedErrors(t *testing.T) {
	boom := errors.New("boom")
	h := &CompletionHandler{Engine: failingCompleter{err: boom}}
	assert.ErrorIs(t, h.Handle(context.Background(), completionMsg(1)), boom)

	assert.NoError(t, h.Handle(context.Background(), kafkago.Message{Value: []byte("garbage")}))
}
