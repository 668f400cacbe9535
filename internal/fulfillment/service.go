// Package fulfillment models the warehouse side of order processing: it
// confirms dispatched orders after a handling delay and feeds those
// confirmations back to the engine as completion signals.
package fulfillment

import (
	"context"
	"time"

	kafkax "github.com/ariefcatur/go-store-orders/internal/kafka"
	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/rs/zerolog/log"
	kafkago "github.com/segmentio/kafka-go"
)

type Deduper interface {
	FirstSeen(ctx context.Context, eventID string) bool
}

// Service is installed as the handler of the order.dispatched consumer.
type Service struct {
	Sink        kafkax.Sink
	Dedup       Deduper // optional
	Delay       time.Duration
	ServiceName string
	Now         func() time.Time
}

func (s *Service) HandleOrderDispatched(ctx context.Context, m kafkago.Message) error {
	// 1) decode envelope; malformed messages are skipped, not retried
	env, err := kafkax.UnmarshalEnvelope(m.Value)
	if err != nil {
		log.Error().Err(err).Str("topic", m.Topic).Msg("drop malformed envelope")
		return nil
	}
	if env.EventType != orders.EventOrderDispatched {
		return nil
	}

	// 2) decode payload
	p, err := kafkax.UnwrapPayload[orders.OrderTransitionedPayload](env.Payload)
	if err != nil {
		log.Error().Err(err).Str("event_id", env.EventID).Msg("drop malformed payload")
		return nil
	}

	// 3) warehouse handling time
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// 4) dedup right before publishing so an interrupted wait is retried
	if s.Dedup != nil && !s.Dedup.FirstSeen(ctx, env.EventID) {
		log.Debug().Str("event_id", env.EventID).Msg("duplicate dispatch event")
		return nil
	}

	sig := orders.CompletionSignal{OrderID: p.OrderID, ConfirmedBy: s.ServiceName, ConfirmedAt: s.now()}
	kafkax.PublishCompletion(ctx, s.Sink, s.ServiceName, env.TraceID, sig)
	log.Info().Int64("order_id", int64(p.OrderID)).Str("lane", string(p.Lane)).Msg("order confirmed")
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
