package payments

import (
	"context"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/metrics"
	"github.com/ariefcatur/go-food-orders/internal/orders"
)

// Message is one inbound queue delivery.
type Message struct {
	ID           string
	Body         []byte
	ReceiptToken string
}

// Queue is an at-least-once queue: a message that is received but not deleted
// is delivered again once its visibility timeout expires. Receive may return
// messages together with an error; those messages are still handled.
type Queue interface {
	Receive(ctx context.Context, max int, wait time.Duration) ([]Message, error)
	Delete(ctx context.Context, receiptToken string) error
}

type Handler interface {
	Handle(ctx context.Context, ev orders.CheckoutOutcomeEvent) error
}

type ListenerConfig struct {
	Interval time.Duration
	Wait     time.Duration
	Batch    int
}

func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		Interval: 5 * time.Second,
		Wait:     5 * time.Second,
		Batch:    10,
	}
}

// Listener polls the payment queue and reconciles checkout outcomes into
// order state. A message is deleted only after it was handled successfully.
type Listener struct {
	log     *slog.Logger
	queue   Queue
	handler Handler
	metrics *metrics.ListenerMetrics
	cfg     ListenerConfig
}

func NewListener(log *slog.Logger, queue Queue, handler Handler, cfg ListenerConfig, m *metrics.ListenerMetrics) *Listener {
	def := DefaultListenerConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Wait <= 0 {
		cfg.Wait = def.Wait
	}
	if cfg.Batch <= 0 {
		cfg.Batch = def.Batch
	}
	return &Listener{log: log, queue: queue, handler: handler, metrics: m, cfg: cfg}
}

// Run polls every Interval until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	t := time.NewTicker(l.cfg.Interval)
	defer t.Stop()

	l.log.Info("payment listener started", "interval", l.cfg.Interval, "batch", l.cfg.Batch)
	for {
		select {
		case <-ctx.Done():
			l.log.Info("payment listener stopping")
			return nil
		case <-t.C:
			l.Tick(ctx)
		}
	}
}

// Tick runs one receive-and-handle round and reports how many messages were
// deleted.
func (l *Listener) Tick(ctx context.Context) int {
	msgs, err := l.queue.Receive(ctx, l.cfg.Batch, l.cfg.Wait)
	if err != nil && ctx.Err() == nil {
		l.metrics.ReceiveFailed()
		l.log.Error("receive payment messages", "err", err, "received", len(msgs))
	}

	// in-flight messages finish even if ctx is cancelled meanwhile
	hctx := context.WithoutCancel(ctx)
	deleted := 0
	for _, m := range msgs {
		if l.process(hctx, m) {
			deleted++
		}
	}
	return deleted
}

func (l *Listener) process(ctx context.Context, m Message) bool {
	l.log.Debug("payment message received", "message_id", m.ID, "body", string(m.Body))

	ev, err := orders.DecodeCheckoutOutcome(m.Body)
	if err == nil {
		err = l.handler.Handle(ctx, ev)
	}
	if err != nil {
		l.metrics.Handled(metrics.ResultFailed)
		l.log.Error("payment message left for redelivery", "message_id", m.ID, "order_id", ev.OrderID, "err", err)
		return false
	}

	if err := l.queue.Delete(ctx, m.ReceiptToken); err != nil {
		l.metrics.Handled(metrics.ResultDeleteFailed)
		l.log.Error("delete payment message", "message_id", m.ID, "order_id", ev.OrderID, "err", err)
		return false
	}
	l.metrics.Handled(metrics.ResultOK)
	l.log.Info("payment message processed", "message_id", m.ID, "order_id", ev.OrderID, "status", ev.CheckoutStatus)
	return true
}
