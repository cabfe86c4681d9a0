package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied on startup. IDs use the C collation so UUIDv7 text
// sorts in creation order regardless of the database locale.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT COLLATE "C" PRIMARY KEY,
    username TEXT NOT NULL,
    login TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS receipts (
    id TEXT COLLATE "C" PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    type TEXT NOT NULL CHECK (type IN ('cash', 'cashless')),
    amount NUMERIC NOT NULL,
    total NUMERIC NOT NULL,
    rest NUMERIC NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
    id TEXT PRIMARY KEY,
    receipt_id TEXT COLLATE "C" NOT NULL REFERENCES receipts(id),
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    price NUMERIC NOT NULL,
    quantity BIGINT NOT NULL,
    total NUMERIC NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_receipts_user_id ON receipts(user_id, id);
CREATE INDEX IF NOT EXISTS idx_products_receipt_id ON products(receipt_id, position);
`

// runMigrations executes the schema setup. Without arguments pgx uses the
// simple protocol, which accepts multiple statements.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
