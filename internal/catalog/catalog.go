// Package catalog materializes relations from a SQLite database. It plays
// the storage-layer collaborator: it supplies the raw rows Base leaves
// need and consumes nothing from the rewrite side. The core packages never
// import it.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pgrsql/relcore/internal/ir"
)

// Catalog wraps a SQLite database whose tables back named Base leaves.
type Catalog struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at path. ":memory:" gives a
// private in-memory catalog, which the tests use.
//
// The connection is configured with WAL mode, a busy timeout, and a
// single-writer pool - SQLite only supports one writer at a time.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect catalog: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Relation implements engine.Source: it scans the named table in rowid
// order and converts it to a relation. Column order follows the table
// definition; SQL NULL maps to the Null value, INTEGER to Int, TEXT to
// String. REAL columns are rejected - the value model has no float
// variant, so schemas must store scaled integers or text instead.
func (c *Catalog) Relation(ctx context.Context, name string) (ir.Relation, error) {
	rows, err := c.db.QueryContext(ctx,
		fmt.Sprintf("SELECT * FROM %s ORDER BY rowid", quoteIdent(name)))
	if err != nil {
		return ir.Relation{}, fmt.Errorf("scan %s: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return ir.Relation{}, fmt.Errorf("columns of %s: %w", name, err)
	}

	rel := ir.Relation{Schema: ir.Schema(columns)}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return ir.Relation{}, fmt.Errorf("scan row of %s: %w", name, err)
		}

		tuple := make(ir.Tuple, len(columns))
		for i, col := range columns {
			v, err := ir.FromGo(values[i])
			if err != nil {
				return ir.Relation{}, fmt.Errorf("column %s.%s: %w", name, col, err)
			}
			tuple[i] = ir.Field{Name: col, Value: v}
		}
		rel.Tuples = append(rel.Tuples, tuple)
	}
	if err := rows.Err(); err != nil {
		return ir.Relation{}, fmt.Errorf("iterate %s: %w", name, err)
	}
	return rel, nil
}

// SaveRelation creates (or replaces) a table holding the relation's
// tuples, preserving row order via rowid. Intended for fixtures and the
// CLI's demo flow; the core never writes.
func (c *Catalog) SaveRelation(ctx context.Context, name string, rel ir.Relation) error {
	if len(rel.Schema) == 0 {
		return fmt.Errorf("save %s: empty schema", name)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(name))); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}

	cols := make([]string, len(rel.Schema))
	for i, col := range rel.Schema {
		cols[i] = quoteIdent(col)
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(cols, ", "))); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(rel.Schema)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(name), placeholders)
	for _, t := range rel.Tuples {
		args := make([]any, len(rel.Schema))
		for i := range rel.Schema {
			var v ir.Value = ir.Null{}
			if i < len(t) {
				v = t[i].Value
			}
			args[i] = toSQLParam(v)
		}
		if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
	}

	return tx.Commit()
}

func toSQLParam(v ir.Value) any {
	switch val := v.(type) {
	case ir.Bool:
		return bool(val)
	case ir.Int:
		return int64(val)
	case ir.String:
		return string(val)
	default:
		return nil
	}
}

// quoteIdent wraps an identifier in double quotes, escaping embedded
// quotes. Values are always parameterized; identifiers cannot be, so they
// are quoted instead.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
