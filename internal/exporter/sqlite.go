package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteWriter writes tables into a SQLite database file, one table each.
type SQLiteWriter struct {
	logger *slog.Logger
}

// NewSQLiteWriter creates a SQLite writer. A nil logger uses the default.
func NewSQLiteWriter(logger *slog.Logger) *SQLiteWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteWriter{logger: logger}
}

// Write creates path and loads every table. Existing tables of the same name
// are replaced.
func (w *SQLiteWriter) Write(ctx context.Context, path string, tables ...Table) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	for _, t := range tables {
		w.logger.Info("Writing SQLite table",
			slog.String("table", t.Name),
			slog.Int("record_count", t.Len))
		if err := loadTable(ctx, db, t); err != nil {
			return fmt.Errorf("failed to load %s: %w", t.Name, err)
		}
	}
	return nil
}

func loadTable(ctx context.Context, db *sql.DB, t Table) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(t.Name)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, createStatement(t)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, insertStatement(t))
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	buf := make([]string, 0, len(t.Columns))
	args := make([]interface{}, len(t.Columns))
	for i := 0; i < t.Len; i++ {
		if i%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		buf = t.Record(i, buf)
		for j, c := range t.Columns {
			args[j] = cellValue(c.Kind, buf[j])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func createStatement(t Table) string {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = quoteIdent(c.Name) + " " + sqlType(c.Kind)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", quoteIdent(t.Name), strings.Join(defs, ",\n\t"))
}

func insertStatement(t Table) string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = quoteIdent(c.Name)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(t.Name), strings.Join(names, ", "), placeholders)
}

func sqlType(k Kind) string {
	switch k {
	case KindInteger:
		return "INTEGER"
	case KindReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
