package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// seq keeps insertion order for list queries. total is unscaled so it reads
// back exactly as computed from the line prices.
const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id          TEXT PRIMARY KEY,
	seq         BIGSERIAL NOT NULL,
	customer_id BIGINT NOT NULL,
	status      TEXT NOT NULL,
	products    JSONB NOT NULL DEFAULT '[]'::jsonb,
	total       NUMERIC NOT NULL CHECK (total >= 0),
	observation TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
ALTER TABLE orders ALTER COLUMN total TYPE NUMERIC;
CREATE INDEX IF NOT EXISTS orders_status_seq_idx ON orders (status, seq);
CREATE INDEX IF NOT EXISTS orders_seq_idx ON orders (seq);
`

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
