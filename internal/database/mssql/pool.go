// Package mssql implements database.Pool for Microsoft SQL Server.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/joacominatel/omnidb/internal/database"
)

const (
	maxConns = 5
	// defaultSchema addresses tables that were listed without a schema.
	defaultSchema = "dbo"
)

// Pool is a SQL Server connection pool.
type Pool struct {
	database.SQLPool
}

var _ database.Pool = (*Pool)(nil)

// Open connects to the server named by a sqlserver:// or mssql:// URL.
func Open(ctx context.Context, rawURL string, logger *slog.Logger) (*Pool, error) {
	db, err := database.OpenSQL(ctx, "sqlserver", BuildDSN(rawURL), maxConns)
	if err != nil {
		return nil, err
	}
	return New(db, logger), nil
}

// New wraps an already open *sql.DB.
func New(db *sql.DB, logger *slog.Logger) *Pool {
	return &Pool{SQLPool: database.SQLPool{
		DB:      db,
		Dialect: database.MSSQLDialect,
		Resolve: resolveType,
		Logger:  logger,
	}}
}

// BuildDSN rewrites an mssql:// URL to the sqlserver:// form go-mssqldb parses.
func BuildDSN(rawURL string) string {
	if strings.HasPrefix(strings.ToLower(rawURL), "mssql://") {
		return "sqlserver://" + rawURL[len("mssql://"):]
	}
	return rawURL
}

func resolveType(declared string) database.ValueKind {
	switch strings.ToUpper(declared) {
	case "CHAR", "VARCHAR", "NCHAR", "NVARCHAR", "TEXT", "NTEXT", "XML", "DECIMAL", "NUMERIC", "MONEY", "SMALLMONEY":
		return database.KindText
	case "TINYINT", "SMALLINT", "INT", "BIGINT":
		return database.KindInt64
	case "FLOAT":
		return database.KindFloat64
	case "BIT":
		return database.KindBool
	case "BINARY", "VARBINARY", "IMAGE", "TIMESTAMP", "UNIQUEIDENTIFIER", "GEOGRAPHY", "GEOMETRY", "UDT":
		return database.KindUnsupported
	default:
		return database.KindUnknown
	}
}

func (p *Pool) catalog(query, db string) string {
	return fmt.Sprintf(query, p.Dialect.QuoteIdent(db))
}

func schemaOf(t database.Table) string {
	if t.Schema == "" {
		return defaultSchema
	}
	return t.Schema
}

func (p *Pool) GetDatabases(ctx context.Context) ([]database.Database, error) {
	names, err := database.QueryAll(ctx, &p.SQLPool, queryListDatabases, nil, database.ScanString)
	if err != nil {
		return nil, err
	}
	return database.LoadDatabases(ctx, names, p.GetTables)
}

func (p *Pool) GetTables(ctx context.Context, db string) ([]database.Child, error) {
	tables, err := database.QueryAll(ctx, &p.SQLPool, p.catalog(queryListTables, db), []any{db},
		func(r database.RowScanner) (database.Table, error) {
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
	source := p.Dialect.QualifiedName(db.Name, schemaOf(table), table.Name)
	return p.QueryTable(ctx, p.Dialect.RecordsQuery(source, page, filter))
}

func (p *Pool) GetColumns(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	return database.QueryAll(ctx, &p.SQLPool, p.catalog(queryGetColumns, db.Name),
		[]any{table.Name, schemaOf(table)}, database.ScanColumn)
}

func (p *Pool) GetConstraints(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	return database.QueryAll(ctx, &p.SQLPool, p.catalog(queryGetConstraints, db.Name),
		[]any{table.Name, schemaOf(table)}, database.ScanConstraint)
}

func (p *Pool) GetForeignKeys(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	return database.QueryAll(ctx, &p.SQLPool, p.catalog(queryGetForeignKeys, db.Name),
		[]any{table.Name, schemaOf(table)}, database.ScanForeignKey)
}

func (p *Pool) GetIndexes(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	return database.QueryAll(ctx, &p.SQLPool, p.catalog(queryGetIndexes, db.Name),
		[]any{table.Name, schemaOf(table)}, database.ScanIndex)
}
