package orders

import (
	"context"
	"fmt"
)

// OrderLine is a requested line item: a catalog id and a quantity.
type OrderLine struct {
	CatalogID int64 `json:"id"`
	Quantity  int   `json:"quantity"`
}

type CreateOrderCommand struct {
	CustomerID  int64
	Observation *string
	Lines       []OrderLine
}

type CreateOrderHandler struct {
	repo     Repository
	catalog  Catalog
	notifier Notifier
	topic    string
	producer string
}

func NewCreateOrderHandler(repo Repository, catalog Catalog, notifier Notifier, topic, producer string) *CreateOrderHandler {
	if topic == "" {
		topic = TopicOrderCreated
	}
	return &CreateOrderHandler{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		topic:    topic,
		producer: producer,
	}
}

// Handle resolves the lines against the catalog, persists a Pending order and
// publishes OrderCreated. Lines whose product is unknown are dropped.
//
// When publishing fails the order is already stored: Handle returns its
// projection together with an ErrTransport error.
func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*OrderOutput, error) {
	for _, l := range cmd.Lines {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity for product %d must be at least 1", ErrInvalidInput, l.CatalogID)
		}
	}

	resolved := make(map[int64]*Product, len(cmd.Lines))
	for _, l := range cmd.Lines {
		if _, seen := resolved[l.CatalogID]; seen {
			continue
		}
		p, err := h.catalog.Resolve(ctx, l.CatalogID)
		if err != nil {
			return nil, transportErr(fmt.Sprintf("resolve product %d", l.CatalogID), err)
		}
		if p != nil && p.UnitPrice.IsNegative() {
			return nil, transportErr(fmt.Sprintf("resolve product %d", l.CatalogID),
				fmt.Errorf("catalog returned negative price %s", p.UnitPrice))
		}
		resolved[l.CatalogID] = p
	}

	products := make([]OrderProduct, 0, len(cmd.Lines))
	for _, l := range cmd.Lines {
		p := resolved[l.CatalogID]
		if p == nil {
			continue
		}
		products = append(products, OrderProduct{
			ID:        p.ID,
			Name:      p.Name,
			Quantity:  l.Quantity,
			UnitPrice: p.UnitPrice,
		})
	}

	order := NewOrder(cmd.CustomerID, cmd.Observation, products)
	saved, err := h.repo.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	out := ToOutput(saved)

	env, err := NewEnvelope(EventOrderCreated, h.producer, saved.ID, OrderCreatedEvent{
		OrderID:    saved.ID,
		CustomerID: saved.CustomerID,
		Amount:     saved.Total,
	})
	if err != nil {
		return out, err
	}
	if err := h.notifier.Publish(ctx, h.topic, PartitionKey(saved.ID), env); err != nil {
		return out, transportErr("publish "+EventOrderCreated, err)
	}
	return out, nil
}

type UpdateOrderCommand struct {
	ID          string
	Observation *string
	Status      *Status
}

type UpdateOrderHandler struct {
	repo Repository
}

func NewUpdateOrderHandler(repo Repository) *UpdateOrderHandler {
	return &UpdateOrderHandler{repo: repo}
}

func (h *UpdateOrderHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (*OrderOutput, error) {
	if cmd.Status != nil && !cmd.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *cmd.Status)
	}

	order, err := h.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if cmd.Observation == nil && cmd.Status == nil {
		return nil, ErrNoOp
	}

	var patch Patch
	patch.Observation = cmd.Observation
	if cmd.Status != nil {
		from := order.Status
		changed, err := order.MoveTo(*cmd.Status)
		if err != nil {
			return nil, err
		}
		if changed {
			patch.Status = cmd.Status
			patch.ExpectedStatus = &from
		}
	}
	if patch.Empty() {
		return ToOutput(order), nil
	}

	updated, err := h.repo.Update(ctx, cmd.ID, patch)
	if err != nil {
		return nil, err
	}
	return ToOutput(updated), nil
}

type CancelOrderCommand struct {
	ID string
}

// CancelOrderHandler marks an order Cancelled. The record is never removed.
type CancelOrderHandler struct {
	repo Repository
}

func NewCancelOrderHandler(repo Repository) *CancelOrderHandler {
	return &CancelOrderHandler{repo: repo}
}

func (h *CancelOrderHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*OrderOutput, error) {
	return Apply(ctx, h.repo, cmd.ID, TriggerCancel)
}

// Apply loads order id, fires t and stores the new status guarded by the old
// one. A same-state transition succeeds without a write.
func Apply(ctx context.Context, repo Repository, id string, t Trigger) (*OrderOutput, error) {
	order, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	changed, err := order.Fire(t)
	if err != nil {
		return nil, err
	}
	if !changed {
		return ToOutput(order), nil
	}
	to := order.Status
	updated, err := repo.Update(ctx, id, Patch{Status: &to, ExpectedStatus: &from})
	if err != nil {
		return nil, err
	}
	return ToOutput(updated), nil
}
