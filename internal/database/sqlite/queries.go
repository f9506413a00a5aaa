package sqlite

// Catalog queries use the table-valued pragma functions. Their last
// argument is the schema name of an attached database.
const (
	queryListDatabases = `SELECT name FROM pragma_database_list ORDER BY seq`

	// queryListTables is formatted with the quoted database name.
	queryListTables = `
		SELECT name FROM %s.sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%%'
		ORDER BY name`

	queryGetColumns = `
		SELECT name, type,
		       CASE WHEN "notnull" = 0 THEN 'YES' ELSE 'NO' END,
		       dflt_value, NULL
		FROM pragma_table_info(?, ?)
		ORDER BY cid`

	// Rowid primary keys have no backing index, so they are read from
	// table_info rather than index_list.
	queryGetConstraints = `
		SELECT 'PRIMARY KEY', name FROM pragma_table_info(?, ?) WHERE pk > 0
		UNION ALL
		SELECT il.name, ii.name
		FROM pragma_index_list(?, ?) AS il
		JOIN pragma_index_info(il.name, ?) AS ii
		WHERE il.origin = 'u'`

	queryGetForeignKeys = `
		SELECT CAST(id AS TEXT), "from", "table", "to"
		FROM pragma_foreign_key_list(?, ?)
		ORDER BY id, seq`

	queryGetIndexes = `
		SELECT il.name, ii.name,
		       CASE WHEN il."unique" = 1 THEN 'UNIQUE' ELSE 'INDEX' END
		FROM pragma_index_list(?, ?) AS il
		JOIN pragma_index_info(il.name, ?) AS ii
		ORDER BY il.seq, ii.seqno`
)
