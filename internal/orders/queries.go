package orders

import "context"

type GetOrderHandler struct {
	repo Repository
}

func NewGetOrderHandler(repo Repository) *GetOrderHandler {
	return &GetOrderHandler{repo: repo}
}

func (h *GetOrderHandler) Handle(ctx context.Context, id string) (*OrderOutput, error) {
	o, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToOutput(o), nil
}

// GetAllOrdersHandler lists every order, whatever its status, in store order.
type GetAllOrdersHandler struct {
	repo Repository
}

func NewGetAllOrdersHandler(repo Repository) *GetAllOrdersHandler {
	return &GetAllOrdersHandler{repo: repo}
}

func (h *GetAllOrdersHandler) Handle(ctx context.Context) ([]*OrderOutput, error) {
	list, err := h.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return toOutputs(list), nil
}

type GetOrdersByStatusHandler struct {
	repo Repository
}

func NewGetOrdersByStatusHandler(repo Repository) *GetOrdersByStatusHandler {
	return &GetOrdersByStatusHandler{repo: repo}
}

func (h *GetOrdersByStatusHandler) Handle(ctx context.Context, status Status) ([]*OrderOutput, error) {
	list, err := h.repo.GetByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return toOutputs(list), nil
}
