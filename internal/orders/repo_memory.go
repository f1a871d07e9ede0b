package orders

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRepo keeps orders in process memory, in insertion order. Used for
// local runs (ORDER_STORE=memory) and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	orders map[string]*Order
	ids    []string
}

var _ Repository = (*MemoryRepo)(nil)

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{orders: make(map[string]*Order)}
}

func (r *MemoryRepo) Create(ctx context.Context, o *Order) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; ok {
		return nil, fmt.Errorf("%w: order %s already exists", ErrConflict, o.ID)
	}
	r.orders[o.ID] = clone(o)
	r.ids = append(r.ids, o.ID)
	return clone(o), nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(o), nil
}

func (r *MemoryRepo) GetAll(ctx context.Context) ([]*Order, error) {
	return r.filter(func(*Order) bool { return true }), nil
}

func (r *MemoryRepo) GetByStatus(ctx context.Context, status Status) ([]*Order, error) {
	return r.filter(func(o *Order) bool { return o.Status == status }), nil
}

func (r *MemoryRepo) filter(keep func(*Order) bool) []*Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*Order{}
	for _, id := range r.ids {
		if o := r.orders[id]; keep(o) {
			out = append(out, clone(o))
		}
	}
	return out
}

func (r *MemoryRepo) Update(ctx context.Context, id string, p Patch) (*Order, error) {
	if p.Empty() {
		return nil, ErrNoOp
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.ExpectedStatus != nil && o.Status != *p.ExpectedStatus {
		return nil, fmt.Errorf("%w: order %s changed status concurrently", ErrConflict, id)
	}
	if p.Observation != nil {
		obs := *p.Observation
		o.Observation = &obs
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	return clone(o), nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ErrNotFound
	}
	delete(r.orders, id)
	for i, v := range r.ids {
		if v == id {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			break
		}
	}
	return nil
}

func clone(o *Order) *Order {
	c := *o
	c.Products = append([]OrderProduct{}, o.Products...)
	if o.Observation != nil {
		obs := *o.Observation
		c.Observation = &obs
	}
	return &c
}
