package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultLedgerName is the row the ledger is stored in when none is configured.
const DefaultLedgerName = "default"

const createLedgerTable = `
CREATE TABLE IF NOT EXISTS playthrough_stats (
	name       TEXT PRIMARY KEY,
	document   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresBackend keeps the ledger document in one JSONB row.
type PostgresBackend struct {
	pool *pgxpool.Pool
	name string
}

// ConnectPostgres creates a connection pool to PostgreSQL.
func ConnectPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// NewPostgresBackend creates the ledger table if needed.
func NewPostgresBackend(ctx context.Context, pool *pgxpool.Pool, name string) (*PostgresBackend, error) {
	if name == "" {
		name = DefaultLedgerName
	}
	if _, err := pool.Exec(ctx, createLedgerTable); err != nil {
		return nil, fmt.Errorf("create ledger table: %w", err)
	}
	return &PostgresBackend{pool: pool, name: name}, nil
}

// Load reads the document row. A missing row is an empty ledger.
func (b *PostgresBackend) Load(ctx context.Context) (Document, error) {
	var raw []byte
	err := b.pool.QueryRow(ctx,
		`SELECT document FROM playthrough_stats WHERE name = $1`, b.name,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger %s: %w", b.name, err)
	}
	return DecodeDocument(raw)
}

// Save upserts the document row.
func (b *PostgresBackend) Save(ctx context.Context, doc Document) error {
	raw, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	_, err = b.pool.Exec(ctx, `
		INSERT INTO playthrough_stats (name, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		b.name, string(raw),
	)
	if err != nil {
		return fmt.Errorf("save ledger %s: %w", b.name, err)
	}
	return nil
}

// Close releases the pool.
func (b *PostgresBackend) Close() {
	b.pool.Close()
}
