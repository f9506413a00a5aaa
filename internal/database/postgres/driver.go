// Package postgres implements database.Pool for PostgreSQL on top of pgxpool.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joacominatel/omnidb/internal/database"
)

// defaultSchema addresses tables that were listed without a schema.
const defaultSchema = "public"

// Pool implements database.Pool for PostgreSQL.
type Pool struct {
	pool   *pgxpool.Pool
	dbName string
	logger *slog.Logger
}

var _ database.Pool = (*Pool)(nil)

// Open creates a connection pool from a postgres:// URL and pings it.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, &database.ConnectionError{Cause: fmt.Errorf("parse dsn: %w", err)}
	}

	cfg.MaxConns = 5
	cfg.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, &database.ConnectionError{Cause: fmt.Errorf("connect: %w", err)}
	}

	pctx, cancel := context.WithTimeout(ctx, database.AcquireTimeout)
	defer cancel()
	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, &database.ConnectionError{Cause: fmt.Errorf("ping: %w", err)}
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pool{pool: pool, dbName: cfg.ConnConfig.Database, logger: logger}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// DatabaseName returns the name of the connected database.
func (p *Pool) DatabaseName() string {
	return p.dbName
}

func (p *Pool) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	if p.pool == nil {
		return nil, &database.ConnectionError{Cause: fmt.Errorf("not connected")}
	}
	actx, cancel := context.WithTimeout(ctx, database.AcquireTimeout)
	defer cancel()
	conn, err := p.pool.Acquire(actx)
	if err != nil {
		return nil, &database.ConnectionError{Cause: fmt.Errorf("acquire connection: %w", err)}
	}
	return conn, nil
}

// Execute runs a statement. SELECT statements return their rows, anything
// else returns the affected row count.
func (p *Pool) Execute(ctx context.Context, query string) (*database.ExecuteResult, error) {
	if database.IsReadQuery(query) {
		headers, rows, err := p.queryTable(ctx, query)
		if err != nil {
			return nil, err
		}
		return database.NewReadResult(headers, rows), nil
	}

	conn, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	p.logger.Debug("exec", slog.String("sql", query))
	tag, err := conn.Exec(ctx, query)
	if err != nil {
		return nil, &database.ExecutionError{Query: query, Cause: err}
	}
	return database.NewWriteResult(tag.RowsAffected()), nil
}

// queryTable runs a query and renders every cell. The declared type of each
// column comes from the connection's type map.
func (p *Pool) queryTable(ctx context.Context, query string, args ...any) ([]string, [][]string, error) {
	conn, err := p.acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer conn.Release()

	p.logger.Debug("query", slog.String("sql", query))
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, &database.ExecutionError{Query: query, Cause: err}
	}
	defer rows.Close()

	typeMap := conn.Conn().TypeMap()
	fields := rows.FieldDescriptions()
	columns := make([]database.ResultColumn, len(fields))
	for i, f := range fields {
		columns[i] = database.ResultColumn{Name: f.Name}
		if t, ok := typeMap.TypeForOID(f.DataTypeOID); ok {
			columns[i].DatabaseType = t.Name
		}
	}
	decoder := database.NewRowDecoder(columns, resolveType)

	var headers []string
	records := [][]string{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, fmt.Errorf("read row: %w", err)
		}
		headers = decoder.Headers()
		record, err := decoder.Decode(values)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, &database.ExecutionError{Query: query, Cause: err}
	}
	return headers, records, nil
}

func queryAll[T any](ctx context.Context, p *Pool, query string, args []any, scan func(database.RowScanner) (T, error)) ([]T, error) {
	conn, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	p.logger.Debug("query", slog.String("sql", query))
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, &database.ExecutionError{Query: query, Cause: err}
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &database.ExecutionError{Query: query, Cause: err}
	}
	return out, nil
}

func resolveType(declared string) database.ValueKind {
	switch declared {
	case "bytea":
		return database.KindUnsupported
	case "text", "varchar", "bpchar", "name", "uuid", "numeric":
		return database.KindText
	case "int2":
		return database.KindInt16
	case "int4":
		return database.KindInt32
	case "int8":
		return database.KindInt64
	case "float4":
		return database.KindFloat32
	case "float8":
		return database.KindFloat64
	case "bool":
		return database.KindBool
	default:
		return database.KindUnknown
	}
}

func schemaOf(t database.Table) string {
	if t.Schema == "" {
		return defaultSchema
	}
	return t.Schema
}

// GetDatabases lists every non-template database. information_schema only
// covers the connected database, so the others are listed without tables.
func (p *Pool) GetDatabases(ctx context.Context) ([]database.Database, error) {
	names, err := queryAll(ctx, p, queryListDatabases, nil, database.ScanString)
	if err != nil {
		return nil, err
	}
	return database.LoadDatabases(ctx, names, p.GetTables)
}

// GetTables returns the schema tree of db.
func (p *Pool) GetTables(ctx context.Context, db string) ([]database.Child, error) {
	tables, err := queryAll(ctx, p, queryListTables, []any{db}, func(r database.RowScanner) (database.Table, error) {
		var t database.Table
		err := r.Scan(&t.Name, &t.Schema)
		return t, err
	})
	if err != nil {
		return nil, err
	}
	return database.GroupBySchema(tables), nil
}

func (p *Pool) GetRecords(ctx context.Context, db database.Database, table database.Table, page int, filter string) ([]string, [][]string, error) {
	d := database.PostgresDialect
	return p.queryTable(ctx, d.RecordsQuery(d.QualifiedName(schemaOf(table), table.Name), page, filter))
}

func (p *Pool) GetColumns(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	return queryAll(ctx, p, queryGetColumns, []any{db.Name, schemaOf(table), table.Name}, database.ScanColumn)
}

func (p *Pool) GetConstraints(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	return queryAll(ctx, p, queryGetConstraints, []any{db.Name, schemaOf(table), table.Name}, database.ScanConstraint)
}

func (p *Pool) GetForeignKeys(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	return queryAll(ctx, p, queryGetForeignKeys, []any{db.Name, schemaOf(table), table.Name}, database.ScanForeignKey)
}

func (p *Pool) GetIndexes(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	return queryAll(ctx, p, queryGetIndexes, []any{schemaOf(table), table.Name}, database.ScanIndex)
}

var _ database.RowScanner = (pgx.Rows)(nil)
