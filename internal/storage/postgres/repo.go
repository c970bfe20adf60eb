// Package postgres implements storage.Repository on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-mapper/internal/export"
	"model-mapper/internal/storage"
)

// Repo stores runs in Postgres; attributes are kept as JSONB.
type Repo struct {
	pool *pgxpool.Pool
}

func init() {
	storage.Register("postgres", New)
}

// New creates a pool for cfg.DSN and checks connectivity.
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Repo{pool: pool}, nil
}

// Close closes the connection pool.
func (r *Repo) Close() {
	r.pool.Close()
}

func schemaSQL() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ` + storage.RunsTable + ` (
	run_id       TEXT PRIMARY KEY,
	created_at   TIMESTAMPTZ NOT NULL,
	entity_count INTEGER NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS ` + storage.EntitiesTable + ` (
	run_id     TEXT NOT NULL REFERENCES ` + storage.RunsTable + `(run_id) ON DELETE CASCADE,
	seq        INTEGER NOT NULL,
	entity_id  TEXT NOT NULL,
	context    TEXT NOT NULL,
	attributes JSONB NOT NULL,
	PRIMARY KEY (run_id, seq)
)`,
	}
}

func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaSQL() {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: ensure schema: %w", err)
		}
	}

	return nil
}

// SaveRun inserts the run row and queues all entity rows in one batch.
func (r *Repo) SaveRun(ctx context.Context, runID string, records []export.Record) error {
	batch := &pgx.Batch{}
	batch.Queue(
		`INSERT INTO `+storage.RunsTable+` (run_id, created_at, entity_count) VALUES ($1, $2, $3)`,
		runID, time.Now().UTC(), len(records))

	for i, rec := range records {
		attrs, err := storage.EncodeAttributes(rec.Attributes)
		if err != nil {
			return err
		}

		batch.Queue(
			`INSERT INTO `+storage.EntitiesTable+` (run_id, seq, entity_id, context, attributes) VALUES ($1, $2, $3, $4, $5::jsonb)`,
			runID, i, rec.ID, rec.Context, attrs)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("postgres: save run %s: %w", runID, err)
		}

		return nil
	})
}

func (r *Repo) LoadRun(ctx context.Context, runID string) ([]export.Record, error) {
	var createdAt time.Time

	err := r.pool.QueryRow(ctx,
		`SELECT created_at FROM `+storage.RunsTable+` WHERE run_id = $1`, runID).Scan(&createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrRunNotFound
	}

	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT entity_id, context, attributes::text FROM `+storage.EntitiesTable+` WHERE run_id = $1 ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}

	records, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("postgres: load run %s: %w", runID, err)
	}

	return records, nil
}

func scanRecord(row pgx.CollectableRow) (export.Record, error) {
	var (
		rec   export.Record
		attrs string
	)

	if err := row.Scan(&rec.ID, &rec.Context, &attrs); err != nil {
		return rec, err
	}

	decoded, err := storage.DecodeAttributes(attrs)
	if err != nil {
		return rec, err
	}

	rec.Attributes = decoded

	return rec, nil
}
