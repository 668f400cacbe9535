package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

func MustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func UnmarshalEnvelope(b []byte) (orders.Envelope, error) {
	var env orders.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// UnwrapPayload decodes the payload of an envelope into T.
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}

// NewEnvelope wraps payload in a v1 envelope correlated to the order.
func NewEnvelope(eventType, producer, trace string, orderID orders.OrderID, payload any) orders.Envelope {
	return orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  orders.EventEnvelopeVersion,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       trace,
		CorrelationID: string(orders.PartitionKey(orderID)),
		Payload:       MustMarshal(payload),
	}
}

func EventHeaders(eventType string) []kafka.Header {
	return []kafka.Header{
		{Key: orders.EventHeaderType, Value: []byte(eventType)},
		{Key: orders.EventHeaderVersion, Value: []byte(orders.EventHeaderVersionText)},
	}
}
