package fulfillment

import (
	"context"
	"errors"

	kafkax "github.com/ariefcatur/go-store-orders/internal/kafka"
	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/rs/zerolog/log"
	kafkago "github.com/segmentio/kafka-go"
)

type Completer interface {
	Complete(ctx context.Context, id orders.OrderID) (orders.Order, error)
}

// CompletionHandler applies completion signals from order.completion to the
// engine. Signals for orders that are no longer processing are logged and
// committed.
type CompletionHandler struct {
	Engine   Completer
	OnReject func(error) // optional
}

func (h *CompletionHandler) Handle(ctx context.Context, m kafkago.Message) error {
	env, err := kafkax.UnmarshalEnvelope(m.Value)
	if err != nil {
		log.Error().Err(err).Str("topic", m.Topic).Msg("drop malformed envelope")
		return nil
	}
	if env.EventType != orders.EventCompletionSignal {
		return nil
	}
	sig, err := kafkax.UnwrapPayload[orders.CompletionSignal](env.Payload)
	if err != nil {
		log.Error().Err(err).Str("event_id", env.EventID).Msg("drop malformed completion signal")
		return nil
	}

	o, err := h.Engine.Complete(ctx, sig.OrderID)
	switch {
	case err == nil:
		log.Info().Int64("order_id", int64(o.ID)).Str("confirmed_by", sig.ConfirmedBy).Msg("order completed")
		return nil
	case errors.Is(err, orders.ErrInvalidTransition), errors.Is(err, orders.ErrUnknownOrder):
		log.Warn().Err(err).Int64("order_id", int64(sig.OrderID)).Msg("completion signal ignored")
		if h.OnReject != nil {
			h.OnReject(err)
		}
		return nil
	default:
		return err
	}
}
