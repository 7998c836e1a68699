package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// SQLite runs a query against a SQLite database file and returns the result
// set as a table. Column order follows the query.
type SQLite struct {
	Base
	dsn   string
	query string
}

// NewSQLite returns a source reading query from the database at path.
func NewSQLite(id, path, query string, keys []string, opts ...Option) (*SQLite, error) {
	base, err := NewBase(id, keys, opts...)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errors.NewConfigurationError(id, "sqlite path must not be empty")
	}
	if query == "" {
		return nil, errors.NewConfigurationError(id, "sqlite query must not be empty")
	}
	return &SQLite{
		Base:  base,
		dsn:   fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path),
		query: query,
	}, nil
}

// Load implements DataSource.
func (s *SQLite) Load(ctx context.Context) (*frame.Frame, error) {
	db, err := sql.Open("sqlite", s.dsn)
	if err != nil {
		return nil, errors.NewLoadError(s.ID(), errors.Wrap(err, "failed to open database"))
	}
	defer db.Close() //nolint:errcheck

	f, err := queryFrame(ctx, db, s.query)
	if err != nil {
		return nil, errors.NewLoadError(s.ID(), err)
	}
	return f, nil
}

func queryFrame(ctx context.Context, db *sql.DB, query string) (*frame.Frame, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query failed")
	}
	defer rows.Close() //nolint:errcheck

	names, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read columns")
	}
	cols := make([]frame.Column, len(names))
	for j, n := range names {
		cols[j] = frame.Column{Name: n}
	}
	cells := make([]any, len(names))
	dest := make([]any, len(names))
	for j := range cells {
		dest[j] = &cells[j]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		for j, v := range cells {
			if t, ok := v.(time.Time); ok {
				v = t.Format(time.RFC3339)
			}
			cols[j].Values = append(cols[j].Values, v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate rows")
	}
	return frame.New(cols...)
}
