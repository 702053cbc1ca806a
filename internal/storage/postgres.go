package storage

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	loadSnapshotPG = `SELECT document FROM fintrack_snapshots WHERE id = 1`

	saveSnapshotPG = `
		INSERT INTO fintrack_snapshots (id, document)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET
			document   = EXCLUDED.document,
			version    = fintrack_snapshots.version + 1,
			updated_at = NOW()`
)

// PostgresGateway stores the snapshot as JSONB in a single-row table.
type PostgresGateway struct {
	pool *pgxpool.Pool
}

// NewPostgresGateway migrates the schema at databaseURL and opens a pool.
func NewPostgresGateway(ctx context.Context, databaseURL string) (*PostgresGateway, error) {
	if err := RunPostgresMigrations(databaseURL); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresGateway{pool: pool}, nil
}

func (g *PostgresGateway) Close() error {
	g.pool.Close()
	return nil
}

func (g *PostgresGateway) Load(ctx context.Context) (*core.Snapshot, error) {
	var doc []byte
	err := g.pool.QueryRow(ctx, loadSnapshotPG).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decode(doc)
}

func (g *PostgresGateway) Save(ctx context.Context, snap *core.Snapshot) error {
	b, err := encode(snap)
	if err != nil {
		return err
	}
	if _, err := g.pool.Exec(ctx, saveSnapshotPG, string(b)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
