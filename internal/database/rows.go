package database

import "database/sql"

// RowKind identifies a TableRow variant.
type RowKind int

const (
	RowColumn RowKind = iota
	RowConstraint
	RowForeignKey
	RowIndex
)

func (k RowKind) String() string {
	switch k {
	case RowColumn:
		return "columns"
	case RowConstraint:
		return "constraints"
	case RowForeignKey:
		return "foreign keys"
	case RowIndex:
		return "indexes"
	default:
		return "unknown"
	}
}

// TableRow is one structural catalog fact. Fields and Columns are aligned
// by position. The set of implementations is closed: Column, Constraint,
// ForeignKey and Index.
type TableRow interface {
	Kind() RowKind
	Fields() []string
	Columns() []string
	tableRow()
}

// Column describes a table column.
type Column struct {
	Name     sql.NullString
	Type     sql.NullString
	Nullable sql.NullString
	Default  sql.NullString
	Comment  sql.NullString
}

func (Column) Kind() RowKind { return RowColumn }

func (Column) Fields() []string {
	return []string{"name", "type", "null", "default", "comment"}
}

func (c Column) Columns() []string {
	return []string{text(c.Name), text(c.Type), text(c.Nullable), text(c.Default), text(c.Comment)}
}

func (Column) tableRow() {}

// Constraint is a non foreign key constraint on one column.
type Constraint struct {
	Name       sql.NullString
	ColumnName sql.NullString
}

func (Constraint) Kind() RowKind { return RowConstraint }

func (Constraint) Fields() []string {
	return []string{"name", "column_name"}
}

func (c Constraint) Columns() []string {
	return []string{text(c.Name), text(c.ColumnName)}
}

func (Constraint) tableRow() {}

// ForeignKey links a column to a column of another table.
type ForeignKey struct {
	Name       sql.NullString
	ColumnName sql.NullString
	RefTable   sql.NullString
	RefColumn  sql.NullString
}

func (ForeignKey) Kind() RowKind { return RowForeignKey }

func (ForeignKey) Fields() []string {
	return []string{"name", "column_name", "ref_table", "ref_column"}
}

func (f ForeignKey) Columns() []string {
	return []string{text(f.Name), text(f.ColumnName), text(f.RefTable), text(f.RefColumn)}
}

func (ForeignKey) tableRow() {}

// Index is one column of an index.
type Index struct {
	Name       sql.NullString
	ColumnName sql.NullString
	Type       sql.NullString
}

func (Index) Kind() RowKind { return RowIndex }

func (Index) Fields() []string {
	return []string{"name", "column_name", "type"}
}

func (i Index) Columns() []string {
	return []string{text(i.Name), text(i.ColumnName), text(i.Type)}
}

func (Index) tableRow() {}

// Tabulate turns metadata rows into headers and rows. Headers come from the
// first row; an empty slice yields no headers.
func Tabulate(rows []TableRow) ([]string, [][]string) {
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Columns())
	}
	return rows[0].Fields(), out
}

// text renders an optional catalog value; absent values are empty, not NULL.
func text(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}
