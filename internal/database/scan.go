package database

// RowScanner is satisfied by *sql.Rows and pgx.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// The scanners below fix the projection order every adapter's catalog
// query must follow, so all engines produce the same row shapes.

// ScanString reads a single string column.
func ScanString(r RowScanner) (string, error) {
	var s string
	err := r.Scan(&s)
	return s, err
}

// ScanColumn reads name, type, null, default, comment.
func ScanColumn(r RowScanner) (TableRow, error) {
	var c Column
	err := r.Scan(&c.Name, &c.Type, &c.Nullable, &c.Default, &c.Comment)
	return c, err
}

// ScanConstraint reads name, column_name.
func ScanConstraint(r RowScanner) (TableRow, error) {
	var c Constraint
	err := r.Scan(&c.Name, &c.ColumnName)
	return c, err
}

// ScanForeignKey reads name, column_name, ref_table, ref_column.
func ScanForeignKey(r RowScanner) (TableRow, error) {
	var f ForeignKey
	err := r.Scan(&f.Name, &f.ColumnName, &f.RefTable, &f.RefColumn)
	return f, err
}

// ScanIndex reads name, column_name, type.
func ScanIndex(r RowScanner) (TableRow, error) {
	var i Index
	err := r.Scan(&i.Name, &i.ColumnName, &i.Type)
	return i, err
}
