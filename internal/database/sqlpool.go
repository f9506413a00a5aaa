package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// SQLPool provides the database/sql plumbing shared by adapters whose
// driver plugs into database/sql. Embed it in concrete adapters.
type SQLPool struct {
	DB      *sql.DB
	Dialect Dialect
	Resolve TypeResolver
	Logger  *slog.Logger
	// AcquireWait bounds connection checkout; zero means AcquireTimeout.
	AcquireWait time.Duration
}

// OpenSQL opens and pings a database/sql pool.
func OpenSQL(ctx context.Context, driverName, dsn string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, &ConnectionError{Cause: fmt.Errorf("open %s: %w", driverName, err)}
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
	}

	pctx, cancel := context.WithTimeout(ctx, AcquireTimeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, &ConnectionError{Cause: fmt.Errorf("ping %s: %w", driverName, err)}
	}
	return db, nil
}

// Close closes the underlying pool.
func (p *SQLPool) Close() error {
	if p.DB == nil {
		return nil
	}
	p.logger().Debug("closing pool")
	return p.DB.Close()
}

func (p *SQLPool) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

func (p *SQLPool) acquireWait() time.Duration {
	if p.AcquireWait > 0 {
		return p.AcquireWait
	}
	return AcquireTimeout
}

// Conn checks a connection out of the pool, waiting at most AcquireWait.
// The caller must close it.
func (p *SQLPool) Conn(ctx context.Context) (*sql.Conn, error) {
	if p.DB == nil {
		return nil, &ConnectionError{Cause: fmt.Errorf("pool is not open")}
	}
	actx, cancel := context.WithTimeout(ctx, p.acquireWait())
	defer cancel()
	conn, err := p.DB.Conn(actx)
	if err != nil {
		return nil, &ConnectionError{Cause: fmt.Errorf("acquire connection: %w", err)}
	}
	return conn, nil
}

// Execute implements Pool.Execute for database/sql engines.
func (p *SQLPool) Execute(ctx context.Context, query string) (*ExecuteResult, error) {
	if IsReadQuery(query) {
		headers, rows, err := p.QueryTable(ctx, query)
		if err != nil {
			return nil, err
		}
		return NewReadResult(headers, rows), nil
	}

	conn, err := p.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	p.logger().Debug("exec", slog.String("sql", query))
	res, err := conn.ExecContext(ctx, query)
	if err != nil {
		return nil, &ExecutionError{Query: query, Cause: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, &ExecutionError{Query: query, Cause: fmt.Errorf("rows affected: %w", err)}
	}
	return NewWriteResult(n), nil
}

// QueryTable runs a query and renders every cell through a RowDecoder.
// Headers are taken from the last fetched row, so an empty result has none.
func (p *SQLPool) QueryTable(ctx context.Context, query string, args ...any) ([]string, [][]string, error) {
	conn, err := p.Conn(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = conn.Close() }()

	p.logger().Debug("query", slog.String("sql", query))
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, &ExecutionError{Query: query, Cause: err}
	}
	defer func() { _ = rows.Close() }()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, fmt.Errorf("column types: %w", err)
	}
	columns := make([]ResultColumn, len(types))
	for i, t := range types {
		columns[i] = ResultColumn{Name: t.Name(), DatabaseType: t.DatabaseTypeName()}
	}
	decoder := NewRowDecoder(columns, p.Resolve)

	var headers []string
	records := [][]string{}
	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		headers = decoder.Headers()
		record, err := decoder.Decode(values)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, &ExecutionError{Query: query, Cause: err}
	}
	return headers, records, nil
}

// QueryAll runs a catalog query and maps each row with scan.
func QueryAll[T any](ctx context.Context, p *SQLPool, query string, args []any, scan func(RowScanner) (T, error)) ([]T, error) {
	conn, err := p.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	p.logger().Debug("query", slog.String("sql", query))
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &ExecutionError{Query: query, Cause: err}
	}
	defer func() { _ = rows.Close() }()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecutionError{Query: query, Cause: err}
	}
	return out, nil
}
