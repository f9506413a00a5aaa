package mssql

// Catalog queries are formatted with the bracket-quoted database name and
// address it with three-part names, so a pooled connection never has its
// current database switched.
const (
	queryListDatabases = `SELECT name FROM sys.databases`

	queryListTables = `
		SELECT TABLE_NAME, TABLE_SCHEMA
		FROM %s.INFORMATION_SCHEMA.TABLES
		WHERE TABLE_CATALOG = @p1`

	queryGetColumns = `
		SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE, COLUMN_DEFAULT, CAST(NULL AS NVARCHAR(1))
		FROM %s.INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_NAME = @p1 AND TABLE_SCHEMA = @p2
		ORDER BY ORDINAL_POSITION`

	queryGetConstraints = `
		SELECT TC.CONSTRAINT_NAME, KCU.COLUMN_NAME
		FROM %[1]s.INFORMATION_SCHEMA.TABLE_CONSTRAINTS AS TC
		JOIN %[1]s.INFORMATION_SCHEMA.KEY_COLUMN_USAGE AS KCU
		  ON TC.CONSTRAINT_NAME = KCU.CONSTRAINT_NAME AND TC.TABLE_SCHEMA = KCU.TABLE_SCHEMA
		WHERE NOT TC.CONSTRAINT_TYPE = 'FOREIGN KEY'
		  AND TC.TABLE_NAME = @p1 AND TC.TABLE_SCHEMA = @p2
		ORDER BY TC.CONSTRAINT_NAME, KCU.ORDINAL_POSITION`

	queryGetForeignKeys = `
		SELECT TC.CONSTRAINT_NAME, KCU.COLUMN_NAME, CCU.TABLE_NAME, CCU.COLUMN_NAME
		FROM %[1]s.INFORMATION_SCHEMA.TABLE_CONSTRAINTS AS TC
		JOIN %[1]s.INFORMATION_SCHEMA.KEY_COLUMN_USAGE AS KCU
		  ON TC.CONSTRAINT_NAME = KCU.CONSTRAINT_NAME AND TC.TABLE_SCHEMA = KCU.TABLE_SCHEMA
		JOIN %[1]s.INFORMATION_SCHEMA.CONSTRAINT_COLUMN_USAGE AS CCU
		  ON CCU.CONSTRAINT_NAME = TC.CONSTRAINT_NAME AND CCU.TABLE_SCHEMA = TC.TABLE_SCHEMA
		WHERE TC.CONSTRAINT_TYPE = 'FOREIGN KEY'
		  AND TC.TABLE_NAME = @p1 AND TC.TABLE_SCHEMA = @p2
		ORDER BY TC.CONSTRAINT_NAME`

	queryGetIndexes = `
		SELECT ind.name, col.name, ind.type_desc
		FROM %[1]s.sys.indexes ind
		INNER JOIN %[1]s.sys.index_columns ic
		  ON ind.object_id = ic.object_id AND ind.index_id = ic.index_id
		INNER JOIN %[1]s.sys.columns col
		  ON ic.object_id = col.object_id AND ic.column_id = col.column_id
		INNER JOIN %[1]s.sys.tables t ON ind.object_id = t.object_id
		INNER JOIN %[1]s.sys.schemas s ON t.schema_id = s.schema_id
		WHERE t.name = @p1 AND s.name = @p2
		ORDER BY ind.name, ic.key_ordinal`
)
