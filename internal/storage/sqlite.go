package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

const (
	loadSnapshotSQL = `SELECT document FROM snapshots WHERE id = 1`

	saveSnapshotSQL = `
		INSERT INTO snapshots (id, document, version, updated_at)
		VALUES (1, ?, 1, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT(id) DO UPDATE SET
			document   = excluded.document,
			version    = snapshots.version + 1,
			updated_at = excluded.updated_at`

	snapshotVersionSQL = `SELECT version FROM snapshots WHERE id = 1`
)

// SQLiteGateway keeps the snapshot in a single-row table.
type SQLiteGateway struct {
	db *sql.DB
}

func NewSQLiteGateway(dbPath string) (*SQLiteGateway, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteGateway{db: db}, nil
}

func (g *SQLiteGateway) Close() error {
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}

func (g *SQLiteGateway) Load(ctx context.Context) (*core.Snapshot, error) {
	var doc string
	err := g.db.QueryRowContext(ctx, loadSnapshotSQL).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decode([]byte(doc))
}

func (g *SQLiteGateway) Save(ctx context.Context, snap *core.Snapshot) error {
	b, err := encode(snap)
	if err != nil {
		return err
	}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, saveSnapshotSQL, string(b)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return tx.Commit()
}

// version returns how many times the snapshot row has been written.
func (g *SQLiteGateway) version(ctx context.Context) (int64, error) {
	var v int64
	err := g.db.QueryRowContext(ctx, snapshotVersionSQL).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("snapshot version: %w", err)
	}
	return v, nil
}
