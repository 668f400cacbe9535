package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderAdmitted     = "OrderAdmitted"
	EventOrderDispatched   = "OrderDispatched"
	EventOrderCompleted    = "OrderCompleted"
	EventOrderCancelled    = "OrderCancelled"
	EventCompletionSignal  = "CompletionSignal"
	EventEnvelopeVersion   = 1
	EventHeaderType        = "x-event-type"
	EventHeaderVersion     = "x-event-version"
	EventHeaderVersionText = "1"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "order-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // usually the order id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payloads per event ----

type OrderTransitionedPayload struct {
	OrderID    OrderID    `json:"order_id"`
	CustomerID CustomerID `json:"customer_id"`
	Lane       Lane       `json:"lane"`
	From       Status     `json:"from,omitempty"`
	To         Status     `json:"to"`
	Items      []Item     `json:"items"`
	TotalCents int64      `json:"total_cents"`
	At         time.Time  `json:"at"`
}

// CompletionSignal is the external confirmation that a processing order is done.
type CompletionSignal struct {
	OrderID     OrderID   `json:"order_id"`
	ConfirmedBy string    `json:"confirmed_by"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// EventTypeFor maps the status an order entered to its event type.
func EventTypeFor(s Status) string {
	switch s {
	case StatusPending:
		return EventOrderAdmitted
	case StatusProcessing:
		return EventOrderDispatched
	case StatusCompleted:
		return EventOrderCompleted
	case StatusCancelled:
		return EventOrderCancelled
	}
	return ""
}

func PayloadFor(t Transition) OrderTransitionedPayload {
	return OrderTransitionedPayload{
		OrderID:    t.Order.ID,
		CustomerID: t.Order.CustomerID,
		Lane:       t.Order.Lane,
		From:       t.From,
		To:         t.To,
		Items:      t.Order.Items,
		TotalCents: t.Order.TotalCents,
		At:         t.At,
	}
}
