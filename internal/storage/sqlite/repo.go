// Package sqlite implements storage.Repository on modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"model-mapper/internal/export"
	"model-mapper/internal/storage"
)

// Repo stores runs in a SQLite database. Timestamps are RFC3339Nano text.
type Repo struct {
	db *sql.DB
}

func init() {
	storage.Register("sqlite", New)
}

// New opens the database at cfg.DSN and checks connectivity.
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repo{db: db}, nil
}

func (r *Repo) Close() { _ = r.db.Close() }

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ` + storage.RunsTable + ` (
	run_id       TEXT PRIMARY KEY,
	created_at   TEXT NOT NULL,
	entity_count INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS ` + storage.EntitiesTable + ` (
	run_id     TEXT NOT NULL REFERENCES ` + storage.RunsTable + `(run_id),
	seq        INTEGER NOT NULL,
	entity_id  TEXT NOT NULL,
	context    TEXT NOT NULL,
	attributes TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
)`,
}

func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: ensure schema: %w", err)
		}
	}

	return nil
}

func (r *Repo) SaveRun(ctx context.Context, runID string, records []export.Record) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO `+storage.RunsTable+` (run_id, created_at, entity_count) VALUES (?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339Nano), len(records))
	if err != nil {
		return fmt.Errorf("sqlite: insert run %s: %w", runID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO `+storage.EntitiesTable+` (run_id, seq, entity_id, context, attributes) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range records {
		attrs, encErr := storage.EncodeAttributes(rec.Attributes)
		if encErr != nil {
			return encErr
		}

		if _, err = stmt.ExecContext(ctx, runID, i, rec.ID, rec.Context, attrs); err != nil {
			return fmt.Errorf("sqlite: insert entity %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

func (r *Repo) LoadRun(ctx context.Context, runID string) ([]export.Record, error) {
	var count int

	err := r.db.QueryRowContext(ctx,
		`SELECT entity_count FROM `+storage.RunsTable+` WHERE run_id = ?`, runID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrRunNotFound
	}

	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT entity_id, context, attributes FROM `+storage.EntitiesTable+` WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]export.Record, 0, count)

	for rows.Next() {
		var (
			rec   export.Record
			attrs string
		)

		if err := rows.Scan(&rec.ID, &rec.Context, &attrs); err != nil {
			return nil, err
		}

		if rec.Attributes, err = storage.DecodeAttributes(attrs); err != nil {
			return nil, err
		}

		out = append(out, rec)
	}

	return out, rows.Err()
}
