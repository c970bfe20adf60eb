// Package mssql implements storage.Repository for Microsoft SQL Server
// through database/sql and github.com/microsoft/go-mssqldb.
package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"model-mapper/internal/export"
	"model-mapper/internal/storage"
)

// Repo stores runs in SQL Server; attributes are NVARCHAR(MAX) JSON text.
type Repo struct {
	db *sql.DB
}

func init() {
	storage.Register("mssql", New)
}

// New opens a "sqlserver" connection for cfg.DSN and checks connectivity.
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repo{db: db}, nil
}

// Close releases database resources.
func (r *Repo) Close() {
	if r == nil || r.db == nil {
		return
	}

	_ = r.db.Close()
}

// createIfMissing wraps a CREATE TABLE so it runs only when the table is
// absent; SQL Server has no CREATE TABLE IF NOT EXISTS.
func createIfMissing(table, body string) string {
	return fmt.Sprintf("IF OBJECT_ID(N'dbo.%s', N'U') IS NULL\nCREATE TABLE dbo.%s (\n%s\n)", table, table, body)
}

func schemaSQL() []string {
	return []string{
		createIfMissing(storage.RunsTable, `	run_id       NVARCHAR(64) NOT NULL PRIMARY KEY,
	created_at   DATETIME2 NOT NULL,
	entity_count INT NOT NULL`),
		createIfMissing(storage.EntitiesTable, `	run_id     NVARCHAR(64) NOT NULL REFERENCES dbo.`+storage.RunsTable+`(run_id),
	seq        INT NOT NULL,
	entity_id  NVARCHAR(64) NOT NULL,
	context    NVARCHAR(450) NOT NULL,
	attributes NVARCHAR(MAX) NOT NULL,
	PRIMARY KEY (run_id, seq)`),
	}
}

func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaSQL() {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mssql: ensure schema: %w", err)
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
		`INSERT INTO dbo.`+storage.RunsTable+` (run_id, created_at, entity_count) VALUES (@p1, @p2, @p3)`,
		runID, time.Now().UTC(), len(records))
	if err != nil {
		return fmt.Errorf("mssql: insert run %s: %w", runID, err)
	}

	for i, rec := range records {
		attrs, encErr := storage.EncodeAttributes(rec.Attributes)
		if encErr != nil {
			return encErr
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO dbo.`+storage.EntitiesTable+` (run_id, seq, entity_id, context, attributes) VALUES (@p1, @p2, @p3, @p4, @p5)`,
			runID, i, rec.ID, rec.Context, attrs)
		if err != nil {
			return fmt.Errorf("mssql: insert entity %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

func (r *Repo) LoadRun(ctx context.Context, runID string) ([]export.Record, error) {
	var count int

	err := r.db.QueryRowContext(ctx,
		`SELECT entity_count FROM dbo.`+storage.RunsTable+` WHERE run_id = @p1`, runID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrRunNotFound
	}

	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT entity_id, context, attributes FROM dbo.`+storage.EntitiesTable+` WHERE run_id = @p1 ORDER BY seq`, runID)
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
