package payments

import (
	"context"

	"github.com/ariefcatur/go-food-orders/internal/orders"
)

// EventHandler applies checkout outcomes to orders. Paid moves a Pending order
// to Received, Refused cancels it. Redelivering an applied event is a no-op.
type EventHandler struct {
	repo orders.Repository
}

func NewEventHandler(repo orders.Repository) *EventHandler {
	return &EventHandler{repo: repo}
}

func (h *EventHandler) Handle(ctx context.Context, ev orders.CheckoutOutcomeEvent) error {
	t, err := ev.Trigger()
	if err != nil {
		return err
	}
	_, err = orders.Apply(ctx, h.repo, ev.OrderID, t)
	return err
}
