// Package mysql implements database.Pool for MySQL and MariaDB.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/joacominatel/omnidb/internal/database"
)

const (
	maxConns   = 5
	timeLayout = "2006-01-02 15:04:05"
)

// Pool is a MySQL connection pool.
type Pool struct {
	database.SQLPool
}

var _ database.Pool = (*Pool)(nil)

// Open connects to the server named by a mysql:// or mariadb:// URL.
func Open(ctx context.Context, rawURL string, logger *slog.Logger) (*Pool, error) {
	dsn, err := BuildDSN(rawURL)
	if err != nil {
		return nil, &database.ConnectionError{Cause: err}
	}
	db, err := database.OpenSQL(ctx, "mysql", dsn, maxConns)
	if err != nil {
		return nil, err
	}
	return New(db, logger), nil
}

// New wraps an already open *sql.DB.
func New(db *sql.DB, logger *slog.Logger) *Pool {
	return &Pool{SQLPool: database.SQLPool{
		DB:      db,
		Dialect: database.MySQLDialect,
		Resolve: resolveType,
		Logger:  logger,
	}}
}

// BuildDSN converts a connection URL into a go-sql-driver DSN.
func BuildDSN(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	host := u.Hostname()
	if host == "" {
		host = "localhost"
	}
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, port)
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if q := u.Query(); len(q) > 0 {
		cfg.Params = make(map[string]string, len(q))
		for k := range q {
			cfg.Params[k] = q.Get(k)
		}
	}
	return cfg.FormatDSN(), nil
}

func (p *Pool) GetDatabases(ctx context.Context) ([]database.Database, error) {
	names, err := database.QueryAll(ctx, &p.SQLPool, queryListDatabases, nil, database.ScanString)
	if err != nil {
		return nil, err
	}
	return database.LoadDatabases(ctx, names, p.GetTables)
}

func (p *Pool) GetTables(ctx context.Context, db string) ([]database.Child, error) {
	tables, err := database.QueryAll(ctx, &p.SQLPool, queryListTables, []any{db}, scanTable)
	if err != nil {
		return nil, err
	}
	return database.BareTables(tables), nil
}

func scanTable(r database.RowScanner) (database.Table, error) {
	var (
		t                database.Table
		created, updated sql.NullString
		engine           sql.NullString
	)
	if err := r.Scan(&t.Name, &created, &updated, &engine); err != nil {
		return t, err
	}
	t.CreateTime = parseTime(created)
	t.UpdateTime = parseTime(updated)
	t.Engine = engine.String
	return t, nil
}

// parseTime reads a DATETIME rendered as text. parseTime is left off in the
// DSN so record cells keep their textual form.
func parseTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func (p *Pool) GetRecords(ctx context.Context, db database.Database, table database.Table, page int, filter string) ([]string, [][]string, error) {
	source := p.Dialect.QualifiedName(db.Name, table.Name)
	return p.QueryTable(ctx, p.Dialect.RecordsQuery(source, page, filter))
}

func (p *Pool) GetColumns(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	return database.QueryAll(ctx, &p.SQLPool, queryGetColumns, []any{db.Name, table.Name}, database.ScanColumn)
}

func (p *Pool) GetConstraints(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	return database.QueryAll(ctx, &p.SQLPool, queryGetConstraints, []any{db.Name, table.Name}, database.ScanConstraint)
}

func (p *Pool) GetForeignKeys(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	return database.QueryAll(ctx, &p.SQLPool, queryGetForeignKeys, []any{db.Name, table.Name}, database.ScanForeignKey)
}

func (p *Pool) GetIndexes(ctx context.Context, db database.Database, table database.Table) ([]database.TableRow, error) {
	return database.QueryAll(ctx, &p.SQLPool, queryGetIndexes, []any{db.Name, table.Name}, database.ScanIndex)
}
