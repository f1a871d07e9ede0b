package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-food-orders/internal/payments"
)

// StreamQueue is an at-least-once queue over a Redis stream and consumer group.
// Received entries stay pending until deleted; pending entries idle longer than
// the visibility timeout are claimed again by the next Receive.
type StreamQueue struct {
	rdb        *redis.Client
	stream     string
	group      string
	consumer   string
	visibility time.Duration
}

var _ payments.Queue = (*StreamQueue)(nil)

func NewStreamQueue(rdb *redis.Client, stream, group, consumer string, visibility time.Duration) *StreamQueue {
	if visibility <= 0 {
		visibility = DefaultVisibilityTimeout
	}
	return &StreamQueue{
		rdb:        rdb,
		stream:     stream,
		group:      group,
		consumer:   consumer,
		visibility: visibility,
	}
}

// EnsureGroup creates the stream and consumer group when missing.
func (q *StreamQueue) EnsureGroup(ctx context.Context) error {
	err := q.rdb.XGroupCreateMkStream(ctx, q.stream, q.group, "0").Err()
	if err != nil && err.Error() != errBusyGroup {
		return fmt.Errorf("create group %s on %s: %w", q.group, q.stream, err)
	}
	return nil
}

func (q *StreamQueue) Send(ctx context.Context, body []byte) (string, error) {
	return q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]any{FieldBody: body},
	}).Result()
}

// Receive returns up to max messages: expired pending entries first, then new
// ones, waiting at most wait for new entries.
func (q *StreamQueue) Receive(ctx context.Context, max int, wait time.Duration) ([]payments.Message, error) {
	claimed, _, err := q.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   q.stream,
		Group:    q.group,
		Consumer: q.consumer,
		MinIdle:  q.visibility,
		Start:    "0-0",
		Count:    int64(max),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("xautoclaim %s: %w", q.stream, err)
	}
	out := toMessages(claimed)
	if len(out) >= max {
		return out, nil
	}

	if wait <= 0 {
		wait = time.Millisecond
	}
	streams, err := q.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.group,
		Consumer: q.consumer,
		Streams:  []string{q.stream, ">"},
		Count:    int64(max - len(out)),
		Block:    wait,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("xreadgroup %s: %w", q.stream, err)
	}
	for _, s := range streams {
		out = append(out, toMessages(s.Messages)...)
	}
	return out, nil
}

// Delete acknowledges and removes the entry; the receipt token is the entry id.
func (q *StreamQueue) Delete(ctx context.Context, receiptToken string) error {
	_, err := q.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.XAck(ctx, q.stream, q.group, receiptToken)
		p.XDel(ctx, q.stream, receiptToken)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s from %s: %w", receiptToken, q.stream, err)
	}
	return nil
}

func toMessages(xs []redis.XMessage) []payments.Message {
	out := make([]payments.Message, 0, len(xs))
	for _, x := range xs {
		body, _ := x.Values[FieldBody].(string)
		out = append(out, payments.Message{
			ID:           x.ID,
			Body:         []byte(body),
			ReceiptToken: x.ID,
		})
	}
	return out
}
