package orders

import "context"

// Patch carries the fields of a partial update. Nil fields are left untouched.
type Patch struct {
	Observation *string
	Status      *Status

	// ExpectedStatus, when set, makes the write conditional on the stored status.
	ExpectedStatus *Status
}

func (p Patch) Empty() bool {
	return p.Observation == nil && p.Status == nil
}

// Repository persists order aggregates.
//
// Update must be applied as one atomic conditional write: either every field in
// the patch is stored or none is. GetByID reports ErrNotFound for an unknown
// id. GetAll and GetByStatus return orders in the store's insertion order.
type Repository interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	GetAll(ctx context.Context) ([]*Order, error)
	GetByStatus(ctx context.Context, status Status) ([]*Order, error)
	Update(ctx context.Context, id string, p Patch) (*Order, error)
	// Delete physically removes an order. Administrative and test use only.
	Delete(ctx context.Context, id string) error
}

// Catalog resolves product ids. A nil product with a nil error means unknown id.
type Catalog interface {
	Resolve(ctx context.Context, id int64) (*Product, error)
}

// Notifier publishes an outbound event keyed by key.
type Notifier interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}
