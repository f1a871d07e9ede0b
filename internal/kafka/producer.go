package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-food-orders/internal/tracing"
)

// messageWriter is the part of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes JSON payloads synchronously: Publish returns only after
// the brokers acknowledged the write, so callers see delivery failures.
type Producer struct {
	w messageWriter
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Publish writes payload to topic. Messages sharing a key land on the same
// partition and keep their relative order.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode message for %s: %w", topic, err)
	}

	headers := []kafka.Header{{Key: "x-event-version", Value: []byte("1")}}
	if t, ok := payload.(eventTyper); ok {
		headers = append(headers, kafka.Header{Key: "x-event-type", Value: []byte(t.Type())})
	}
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	err = p.w.WriteMessages(ctx, kafka.Message{
		Topic:   topic,
		Key:     []byte(key),
		Value:   value,
		Time:    time.Now().UTC(),
		Headers: headers,
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error { return p.w.Close() }
