package kafka

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Producer writes messages from a buffered inbox on its own goroutine. With
// an empty topic every message must carry its own Topic.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true, // fire-and-forget; failures are reported by Completion
			Completion: func(msgs []kafka.Message, err error) {
				if err != nil {
					log.Error().Err(err).Int("messages", len(msgs)).Msg("kafka write failed")
				}
			},
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				p.drain()
				return
			case m, ok := <-p.inbox:
				if !ok {
					_ = p.w.Close()
					return
				}
				p.write(m)
			}
		}
	}()
}

// drain flushes whatever is still buffered after ctx is cancelled.
func (p *Producer) drain() {
	for {
		select {
		case m, ok := <-p.inbox:
			if !ok {
				_ = p.w.Close()
				return
			}
			p.write(m)
		default:
			_ = p.w.Close()
			return
		}
	}
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		log.Error().Err(err).Str("topic", m.Topic).Msg("kafka publish failed")
	}
}

// Publish enqueues onto the writer's default topic.
func (p *Producer) Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) {
	p.PublishTo(ctx, "", key, value, headers...)
}

// PublishTo enqueues a message without blocking past ctx.
func (p *Producer) PublishTo(ctx context.Context, topic string, key, value []byte, headers ...kafka.Header) {
	m := kafka.Message{
		Topic:   topic,
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
	select {
	case p.inbox <- m:
	case <-ctx.Done():
		log.Warn().Str("topic", topic).Msg("publish dropped: context done")
	}
}

// Close closes the inbox so the goroutine flushes the rest and exits.
func (p *Producer) Close() { close(p.inbox) }

// WaitClosed blocks until the goroutine has finished.
func (p *Producer) WaitClosed() { <-p.closeCh }
