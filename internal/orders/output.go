package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderProductOutput struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderOutput is the plain projection returned by every command and query.
type OrderOutput struct {
	ID          string               `json:"id"`
	CustomerID  int64                `json:"customerId"`
	Status      Status               `json:"status"`
	Observation *string              `json:"observation,omitempty"`
	Total       decimal.Decimal      `json:"total"`
	CreatedAt   time.Time            `json:"createdAt"`
	Products    []OrderProductOutput `json:"products"`
}

func ToOutput(o *Order) *OrderOutput {
	products := make([]OrderProductOutput, 0, len(o.Products))
	for _, p := range o.Products {
		products = append(products, OrderProductOutput{
			ID:       p.ID,
			Name:     p.Name,
			Quantity: p.Quantity,
			Price:    p.UnitPrice,
		})
	}
	return &OrderOutput{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Status:      o.Status,
		Observation: o.Observation,
		Total:       o.Total,
		CreatedAt:   o.CreatedAt,
		Products:    products,
	}
}

func toOutputs(list []*Order) []*OrderOutput {
	out := make([]*OrderOutput, 0, len(list))
	for _, o := range list {
		out = append(out, ToOutput(o))
	}
	return out
}
