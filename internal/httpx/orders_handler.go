package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-food-orders/internal/orders"
)

type CreateOrderReq struct {
	CustomerID  int64              `json:"customerId"`
	Observation *string            `json:"observation"`
	Products    []orders.OrderLine `json:"products"`
}

type UpdateOrderReq struct {
	Observation *string `json:"observation"`
	Status      *string `json:"status"`
}

type OrdersHandler struct {
	Log      *slog.Logger
	Create   *orders.CreateOrderHandler
	Update   *orders.UpdateOrderHandler
	Cancel   *orders.CancelOrderHandler
	Get      *orders.GetOrderHandler
	GetAll   *orders.GetAllOrdersHandler
	ByStatus *orders.GetOrdersByStatusHandler
}

// NewOrdersHandler wires every command and query over one repository.
func NewOrdersHandler(log *slog.Logger, repo orders.Repository, create *orders.CreateOrderHandler) *OrdersHandler {
	return &OrdersHandler{
		Log:      log,
		Create:   create,
		Update:   orders.NewUpdateOrderHandler(repo),
		Cancel:   orders.NewCancelOrderHandler(repo),
		Get:      orders.NewGetOrderHandler(repo),
		GetAll:   orders.NewGetAllOrdersHandler(repo),
		ByStatus: orders.NewGetOrdersByStatusHandler(repo),
	}
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Get("/orders", h.getAllOrders)
	r.Get("/orders/by-status", h.getOrdersByStatus)
	r.Get("/orders/{id}", h.getOrder)
	r.Post("/orders", h.createOrder)
	r.Put("/orders/{id}", h.updateOrder)
	r.Delete("/orders/{id}", h.cancelOrder)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, orders.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, orders.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, orders.ErrNoOp), errors.Is(err, orders.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, orders.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *OrdersHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.Log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (h *OrdersHandler) getAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.GetAll.Handle(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) getOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := orders.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.ByStatus.Handle(ctx, status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Get.Handle(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if len(req.Products) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "products are required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Create.Handle(ctx, orders.CreateOrderCommand{
		CustomerID:  req.CustomerID,
		Observation: req.Observation,
		Lines:       req.Products,
	})
	if err != nil && out != nil {
		// stored, but OrderCreated may not have been published
		h.Log.Error("order created without notification", "order_id", out.ID, "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error(), "order": out})
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *OrdersHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	cmd := orders.UpdateOrderCommand{ID: chi.URLParam(r, "id"), Observation: req.Observation}
	if req.Status != nil {
		st, err := orders.ParseStatus(*req.Status)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		cmd.Status = &st
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Update.Handle(ctx, cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Cancel.Handle(ctx, orders.CancelOrderCommand{ID: chi.URLParam(r, "id")})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
