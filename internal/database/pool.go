package database

import (
	"context"
	"time"
)

const (
	// RecordsLimitPerPage is the fixed page size used by GetRecords.
	RecordsLimitPerPage = 200

	// AcquireTimeout bounds how long an operation waits for a pooled connection.
	AcquireTimeout = 5 * time.Second
)

// Pool defines the operations every engine adapter provides.
// All implementations must be safe for concurrent use.
type Pool interface {
	// Execute runs arbitrary SQL. Text starting with SELECT yields a read
	// result, anything else a write result with the affected row count.
	Execute(ctx context.Context, query string) (*ExecuteResult, error)

	// GetDatabases lists every visible database with its table tree.
	GetDatabases(ctx context.Context) ([]Database, error)

	// GetTables lists the tables of one database, grouped by schema
	// where the engine has schemas.
	GetTables(ctx context.Context, database string) ([]Child, error)

	// GetRecords returns one page of rows. An empty filter means no WHERE clause.
	GetRecords(ctx context.Context, database Database, table Table, page int, filter string) ([]string, [][]string, error)

	// GetColumns returns Column rows for a table.
	GetColumns(ctx context.Context, database Database, table Table) ([]TableRow, error)

	// GetConstraints returns non foreign key Constraint rows for a table.
	GetConstraints(ctx context.Context, database Database, table Table) ([]TableRow, error)

	// GetForeignKeys returns ForeignKey rows for a table.
	GetForeignKeys(ctx context.Context, database Database, table Table) ([]TableRow, error)

	// GetIndexes returns Index rows for a table.
	GetIndexes(ctx context.Context, database Database, table Table) ([]TableRow, error)

	// Close releases pooled connections. It must be the last call on the pool.
	Close() error
}
