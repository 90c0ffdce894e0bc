// Package storage keeps the imported revenue rows and the audit trail of
// rendered reports in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"receita/internal/dataset"
	applog "receita/internal/log"
	"receita/internal/source"

	_ "modernc.org/sqlite"
)

var (
	_ source.RowsReader = (*SQLiteRepository)(nil)
	_ source.RowsWriter = (*SQLiteRepository)(nil)
)

// storedColumns pairs each recognized source column with its table column.
var storedColumns = []struct {
	source string
	column string
}{
	{dataset.ColDate, "data"},
	{dataset.ColTeam, "equipe"},
	{dataset.ColRole, "funcao"},
	{dataset.ColTotal, "total"},
	{dataset.ColHS1, "hs1"},
	{dataset.ColHS2, "hs2"},
	{dataset.ColHS3, "hs3"},
	{dataset.ColFlag, "flag"},
}

// ReportEvent is one rendered report as recorded by the worker.
type ReportEvent struct {
	ID          string
	CriteriaKey string
	Rows        int
	Total       string
	RenderedAt  time.Time
}

type SQLiteRepository struct {
	db     *sql.DB
	dbPath string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
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

	return &SQLiteRepository{db: db, dbPath: dbPath}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (r *SQLiteRepository) Path() string { return r.dbPath }

// ReplaceRows swaps the stored revenue rows for raw in one transaction.
// Columns of raw that are not recognized are dropped; recognized columns
// missing from raw are stored as NULL.
func (r *SQLiteRepository) ReplaceRows(ctx context.Context, raw *dataset.RawTable) (int, error) {
	if raw == nil {
		return 0, fmt.Errorf("replace rows: nil table")
	}
	idx := make([]int, len(storedColumns))
	for i, c := range storedColumns {
		idx[i] = dataset.HeaderIndex(raw.Header, c.source)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM revenue_rows`); err != nil {
		return 0, fmt.Errorf("clear revenue rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO revenue_rows (position, data, equipe, funcao, total, hs1, hs2, hs3, flag)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for pos, row := range raw.Rows {
		args := make([]any, 0, len(storedColumns)+1)
		args = append(args, pos+1)
		for _, i := range idx {
			if i < 0 || i >= len(row) {
				args = append(args, nil)
				continue
			}
			args = append(args, row[i].Value())
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", pos+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentStorage).
		InfoContext(ctx, "Revenue rows replaced in SQLite", applog.FieldRows, len(raw.Rows), "db_path", r.dbPath, applog.FieldOperation, applog.OpImport)
	return len(raw.Rows), nil
}

// ReadRows returns the stored rows in import order under the canonical header.
func (r *SQLiteRepository) ReadRows(ctx context.Context) (*dataset.RawTable, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT data, equipe, funcao, total, hs1, hs2, hs3, flag
		FROM revenue_rows
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query revenue rows: %w", err)
	}
	defer rows.Close()

	header := make([]string, len(storedColumns))
	for i, c := range storedColumns {
		header[i] = c.source
	}
	values := [][]any{toAny(header)}
	for rows.Next() {
		vals := make([]any, len(storedColumns))
		ptrs := make([]any, len(vals))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan revenue row: %w", err)
		}
		values = append(values, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revenue rows: %w", err)
	}
	return dataset.FromValues(values)
}

// CountRows returns how many revenue rows are stored.
func (r *SQLiteRepository) CountRows(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM revenue_rows`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count revenue rows: %w", err)
	}
	return n, nil
}

// SaveReportEvent records ev once. A second delivery of the same id is a
// no-op and reports inserted=false.
func (r *SQLiteRepository) SaveReportEvent(ctx context.Context, ev ReportEvent) (inserted bool, err error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO report_events (id, criteria_key, row_count, total, rendered_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		ev.ID, ev.CriteriaKey, ev.Rows, ev.Total, ev.RenderedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("insert report event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

// CountReportEvents returns how many distinct report events were recorded.
func (r *SQLiteRepository) CountReportEvents(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM report_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count report events: %w", err)
	}
	return n, nil
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
