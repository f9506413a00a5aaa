package database

import (
	"strings"
	"time"
)

// Child is a node under a Database: either a Schema or a bare Table.
type Child interface {
	ChildName() string
	child()
}

// Database is a catalog entry with its table tree.
type Database struct {
	Name     string
	Children []Child
}

// NewDatabase creates a database node.
func NewDatabase(name string, children []Child) Database {
	return Database{Name: name, Children: children}
}

// Tables returns every table in the database, flattening schemas.
func (d Database) Tables() []Table {
	var tables []Table
	for _, c := range d.Children {
		switch n := c.(type) {
		case Schema:
			tables = append(tables, n.Tables...)
		case Table:
			tables = append(tables, n)
		}
	}
	return tables
}

// Schema groups the tables sharing one schema name.
type Schema struct {
	Name   string
	Tables []Table
}

func (s Schema) ChildName() string { return s.Name }
func (Schema) child()              {}

// Table describes a table. Optional fields are zero when the engine's
// catalog does not expose them.
type Table struct {
	Name       string
	Schema     string
	Engine     string
	CreateTime *time.Time
	UpdateTime *time.Time
}

func (t Table) ChildName() string { return t.Name }
func (Table) child()              {}

// ResultKind tags an ExecuteResult.
type ResultKind int

const (
	ResultRead ResultKind = iota
	ResultWrite
)

func (k ResultKind) String() string {
	switch k {
	case ResultRead:
		return "read"
	case ResultWrite:
		return "write"
	default:
		return "unknown"
	}
}

// ExecuteResult is the outcome of Pool.Execute. Headers, Rows, Database and
// Table are set for ResultRead; UpdatedRows for ResultWrite.
type ExecuteResult struct {
	Kind        ResultKind
	Headers     []string
	Rows        [][]string
	Database    Database
	Table       Table
	UpdatedRows int64
}

// NewReadResult builds a read result detached from any catalog table.
func NewReadResult(headers []string, rows [][]string) *ExecuteResult {
	return &ExecuteResult{
		Kind:     ResultRead,
		Headers:  headers,
		Rows:     rows,
		Database: Database{Name: "-"},
		Table:    Table{Name: "-"},
	}
}

// NewWriteResult builds a write result.
func NewWriteResult(updated int64) *ExecuteResult {
	return &ExecuteResult{Kind: ResultWrite, UpdatedRows: updated}
}

// IsReadQuery reports whether query is routed to the read path.
func IsReadQuery(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT")
}
