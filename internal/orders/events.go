package orders

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const EventOrderCreated = "OrderCreated"

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

func (e Envelope) Type() string { return e.EventType }

func NewEnvelope(eventType, producer, correlationID string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       b,
	}, nil
}

// OrderCreatedEvent is published once an order has been persisted.
type OrderCreatedEvent struct {
	OrderID    string          `json:"orderId"`
	CustomerID int64           `json:"customerId"`
	Amount     decimal.Decimal `json:"amount"`
}

type CheckoutStatus string

const (
	CheckoutPaid    CheckoutStatus = "paid"
	CheckoutRefused CheckoutStatus = "refused"
)

// CheckoutOutcomeEvent arrives from the payment subsystem on the inbound queue.
type CheckoutOutcomeEvent struct {
	OrderID        string         `json:"orderId"`
	CheckoutStatus CheckoutStatus `json:"checkoutStatus"`
}

// Trigger maps the outcome onto the transition table.
func (e CheckoutOutcomeEvent) Trigger() (Trigger, error) {
	switch CheckoutStatus(strings.ToLower(string(e.CheckoutStatus))) {
	case CheckoutPaid:
		return TriggerPaymentConfirmed, nil
	case CheckoutRefused:
		return TriggerPaymentRefused, nil
	default:
		return "", fmt.Errorf("%w: unknown checkout status %q", ErrInvalidInput, e.CheckoutStatus)
	}
}

func DecodeCheckoutOutcome(body []byte) (CheckoutOutcomeEvent, error) {
	var ev CheckoutOutcomeEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("%w: decode checkout outcome: %v", ErrInvalidInput, err)
	}
	if ev.OrderID == "" {
		return ev, fmt.Errorf("%w: checkout outcome without orderId", ErrInvalidInput)
	}
	return ev, nil
}
