package kafka

import (
	"context"

	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/segmentio/kafka-go"
)

// Sink is the part of Producer the publishers need.
type Sink interface {
	PublishTo(ctx context.Context, topic string, key, value []byte, headers ...kafka.Header)
}

// EventPublisher turns lifecycle transitions into envelope v1 events, one
// topic per status entered.
type EventPublisher struct {
	Sink    Sink
	Service string
}

func (p *EventPublisher) Notify(ctx context.Context, t orders.Transition) {
	eventType := orders.EventTypeFor(t.To)
	topic := orders.TopicFor(t.To)
	if eventType == "" || topic == "" {
		return
	}
	ev := NewEnvelope(eventType, p.Service, middleware.GetReqID(ctx), t.Order.ID, orders.PayloadFor(t))
	p.Sink.PublishTo(ctx, topic, orders.PartitionKey(t.Order.ID), MustMarshal(ev), EventHeaders(eventType)...)
}

// PublishCompletion emits the external completion signal for an order.
func PublishCompletion(ctx context.Context, sink Sink, producer, trace string, sig orders.CompletionSignal) {
	ev := NewEnvelope(orders.EventCompletionSignal, producer, trace, sig.OrderID, sig)
	sink.PublishTo(ctx, orders.TopicOrderCompletion, orders.PartitionKey(sig.OrderID), MustMarshal(ev),
		EventHeaders(orders.EventCompletionSignal)...)
}
