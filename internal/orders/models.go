package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry as resolved at order time.
type Product struct {
	ID        int64
	Name      string
	UnitPrice decimal.Decimal
}

// OrderProduct is an order line. Lines are fixed once the order is created.
type OrderProduct struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
}

func (p OrderProduct) Subtotal() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

type Order struct {
	ID          string
	CustomerID  int64
	Status      Status
	Products    []OrderProduct
	Total       decimal.Decimal
	Observation *string
	CreatedAt   time.Time
}

// NewOrder builds a Pending order with a fresh id. Total is computed here once
// and never recomputed afterwards.
func NewOrder(customerID int64, observation *string, products []OrderProduct) *Order {
	if products == nil {
		products = []OrderProduct{}
	}
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Subtotal())
	}
	return &Order{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		Status:      StatusPending,
		Products:    products,
		Total:       total,
		Observation: observation,
		CreatedAt:   time.Now().UTC(),
	}
}

// Fire applies trigger t to the order in place.
func (o *Order) Fire(t Trigger) (changed bool, err error) {
	next, changed, err := Fire(o.Status, t)
	if err != nil {
		return false, err
	}
	o.Status = next
	return changed, nil
}

// MoveTo sets the status to target if the table allows it.
func (o *Order) MoveTo(target Status) (changed bool, err error) {
	changed, err = MoveTo(o.Status, target)
	if err != nil {
		return false, err
	}
	o.Status = target
	return changed, nil
}
