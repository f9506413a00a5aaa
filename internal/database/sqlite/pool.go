// Package sqlite implements database.Pool for SQLite files using the
// pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/joacominatel/omnidb/internal/database"
)

const (
	maxConns = 4
	memory   = ":memory:"
)

func isMemory(dsn string) bool {
	lower := strings.ToLower(dsn)
	return lower == memory ||
		strings.HasPrefix(lower, "file:"+memory) ||
		strings.Contains(lower, "mode=memory")
}

// Pool is a SQLite connection pool. Every attached database is listed as
// a database with bare tables.
type Pool struct {
	database.SQLPool
}

var _ database.Pool = (*Pool)(nil)

// Open opens the file named by a sqlite://, sqlite3:// or file: URL.
func Open(ctx context.Context, rawURL string, logger *slog.Logger) (*Pool, error) {
	dsn := BuildDSN(rawURL)
	conns := maxConns
	if isMemory(dsn) {
		// each connection would get its own empty database
		conns = 1
	}
	db, err := database.OpenSQL(ctx, "sqlite", dsn, conns)
	if err != nil {
		return nil, err
	}
	return New(db, logger), nil
}

// New wraps an already open *sql.DB.
func New(db *sql.DB, logger *slog.Logger) *Pool {
	return &Pool{SQLPool: database.SQLPool{
		DB:      db,
		Dialect: database.SQLiteDialect,
		Resolve: resolveType,
		Logger:  logger,
	}}
}

// BuildDSN turns a connection URL into a driver DSN. file: URIs are passed
// through untouched.
func BuildDSN(rawURL string) string {
	lower := strings.ToLower(rawURL)
	for _, prefix := range []string{"sqlite3://", "sqlite://", "sqlite3:", "sqlite:"} {
		if strings.HasPrefix(lower, prefix) {
			return rawURL[len(prefix):]
		}
	}
	return rawURL
}

// resolveType maps a declared column type. The driver parses TEXT stored in
// DATE, DATETIME and TIMESTAMP columns into time.Time.
func resolveType(declared string) database.ValueKind {
	switch strings.ToUpper(declared) {
	case "BLOB":
		return database.KindUnsupported
	case "DATE", "DATETIME", "TIMESTAMP":
		return database.KindTimestamp
	}
	return database.KindUnknown
}

func (p *Pool) GetDatabases(ctx context.Context) ([]database.Database, error) {
	names, err := database.QueryAll(ctx, &p.SQLPool, queryListDatabases, nil, database.ScanString)
	if err != nil {
		return nil, err
	}
	return database.LoadDatabases(ctx, names, p.GetTables)
}

func (p *Pool) GetTables(ctx context.Context, db string) ([]database.Child, error) {
	query := fmt.Sprintf(queryListTables, p.Dialect.QuoteIdent(db))
	tables, err := database.QueryAll(ctx, &p.SQLPool, query, nil, func(r database.RowScanner) (database.Table, error) {
		var t database.Table
		err := r.Scan(&t.Name)
		return t, err
	})
	if err != nil {
		return nil, err
	}
	return database.BareTables(tables), nil
}

func (p *Pool) GetRecords(ctx context.Context, db database.Database, table database.Table, page int, filter string) ([]string, [][]string, error) {
	source := p.Dialect.QualifiedName(db.Name, table.Name)
	return p.QueryTable(ctx, p.Dialect.RecordsQuery(source, page, filter))
}

func (p *Pool) GetColumns(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	return database.QueryAll(ctx, &p.SQLPool, queryGetColumns, []any{table.Name, db.Name}, database.ScanColumn)
}

func (p *Pool) GetConstraints(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	args := []any{table.Name, db.Name, table.Name, db.Name, db.Name}
	return database.QueryAll(ctx, &p.SQLPool, queryGetConstraints, args, database.ScanConstraint)
}

func (p *Pool) GetForeignKeys(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	return database.QueryAll(ctx, &p.SQLPool, queryGetForeignKeys, []any{table.Name, db.Name}, database.ScanForeignKey)
}

func (p *Pool) GetIndexes(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	args := []any{table.Name, db.Name, db.Name}
	return database.QueryAll(ctx, &p.SQLPool, queryGetIndexes, args, database.ScanIndex)
}
