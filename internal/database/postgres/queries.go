package postgres

// SQL queries for PostgreSQL metadata introspection. information_schema
// identifiers are domain types pgx has no codec for, so they are cast to text.
const (
	queryListDatabases = `
		SELECT datname::text
		FROM pg_database
		WHERE datistemplate = false
		ORDER BY datname`

	queryListTables = `
		SELECT table_name::text, table_schema::text
		FROM information_schema.tables
		WHERE table_catalog = $1
		  AND table_schema NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		ORDER BY table_name`

	queryGetColumns = `
		SELECT
			c.column_name::text,
			c.data_type::text,
			c.is_nullable::text,
			c.column_default::text,
			col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position::int)
		FROM information_schema.columns c
		WHERE c.table_catalog = $1
		  AND c.table_schema = $2
		  AND c.table_name = $3
		ORDER BY c.ordinal_position`

	queryGetConstraints = `
		SELECT tc.constraint_name::text, kcu.column_name::text
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.constraint_type <> 'FOREIGN KEY'
		  AND tc.table_catalog = $1
		  AND tc.table_schema = $2
		  AND tc.table_name = $3
		ORDER BY tc.constraint_name, kcu.ordinal_position`

	queryGetForeignKeys = `
		SELECT
			tc.constraint_name::text,
			kcu.column_name::text,
			ccu.table_name::text,
			ccu.column_name::text
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_catalog = $1
		  AND tc.table_schema = $2
		  AND tc.table_name = $3
		ORDER BY tc.constraint_name`

	queryGetIndexes = `
		SELECT i.relname::text, a.attname::text, am.amname::text
		FROM pg_index ix
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_am am ON am.oid = i.relam
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		WHERE n.nspname = $1
		  AND t.relname = $2
		ORDER BY i.relname, a.attnum`
)
