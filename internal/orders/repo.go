package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repo is the Postgres implementation of Repository.
type Repo struct{ DB *pgxpool.Pool }

var _ Repository = (*Repo)(nil)

const orderColumns = `id, customer_id, status, products, total::text, observation, created_at`

const pgUniqueViolation = "23505"

func (r *Repo) Create(ctx context.Context, o *Order) (*Order, error) {
	products, err := json.Marshal(o.Products)
	if err != nil {
		return nil, fmt.Errorf("encode products: %w", err)
	}
	_, err = r.DB.Exec(ctx, `
		INSERT INTO orders(id, customer_id, status, products, total, observation, created_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)
	`, o.ID, o.CustomerID, string(o.Status), products, o.Total.String(), o.Observation, o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, fmt.Errorf("%w: order %s already exists", ErrConflict, o.ID)
		}
		return nil, transportErr("insert order", err)
	}
	return o, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, transportErr("get order", err)
	}
	return o, nil
}

func (r *Repo) GetAll(ctx context.Context) ([]*Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY seq`)
}

func (r *Repo) GetByStatus(ctx context.Context, status Status) ([]*Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE status=$1 ORDER BY seq`, string(status))
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, transportErr("list orders", err)
	}
	defer rows.Close()

	out := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, transportErr("scan order", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, transportErr("list orders", err)
	}
	return out, nil
}

// Update translates only the fields present in p into a single
// UPDATE ... RETURNING statement.
func (r *Repo) Update(ctx context.Context, id string, p Patch) (*Order, error) {
	if p.Empty() {
		return nil, ErrNoOp
	}

	args := []any{id}
	sets := make([]string, 0, 2)
	if p.Observation != nil {
		args = append(args, *p.Observation)
		sets = append(sets, fmt.Sprintf("observation = $%d", len(args)))
	}
	if p.Status != nil {
		args = append(args, string(*p.Status))
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	where := "id = $1"
	if p.ExpectedStatus != nil {
		args = append(args, string(*p.ExpectedStatus))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	q := `UPDATE orders SET ` + strings.Join(sets, ", ") + ` WHERE ` + where + ` RETURNING ` + orderColumns
	o, err := scanOrder(r.DB.QueryRow(ctx, q, args...))
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, transportErr("update order", err)
	}

	// No row matched: either the id is unknown or the status guard failed.
	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists); err != nil {
		return nil, transportErr("update order", err)
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, fmt.Errorf("%w: order %s changed status concurrently", ErrConflict, id)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return transportErr("delete order", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o        Order
		status   string
		products []byte
		total    string
	)
	if err := row.Scan(&o.ID, &o.CustomerID, &status, &products, &total, &o.Observation, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.Status = Status(status)
	o.CreatedAt = o.CreatedAt.UTC()

	t, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("decode total %q: %w", total, err)
	}
	o.Total = t

	o.Products = []OrderProduct{}
	if len(products) > 0 {
		if err := json.Unmarshal(products, &o.Products); err != nil {
			return nil, fmt.Errorf("decode products: %w", err)
		}
	}
	return &o, nil
}
