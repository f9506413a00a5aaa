package mysql

import (
	"strings"

	"github.com/joacominatel/omnidb/internal/database"
)

// resolveType maps the type names reported by go-sql-driver/mysql.
func resolveType(declared string) database.ValueKind {
	t := strings.TrimPrefix(strings.ToUpper(declared), "UNSIGNED ")
	switch t {
	case "CHAR", "VARCHAR", "TEXT", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "ENUM", "SET", "JSON", "DECIMAL":
		return database.KindText
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "BIGINT", "YEAR":
		return database.KindInt64
	case "FLOAT":
		return database.KindFloat32
	case "DOUBLE":
		return database.KindFloat64
	case "BINARY", "VARBINARY", "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "BIT", "GEOMETRY":
		return database.KindUnsupported
	default:
		return database.KindUnknown
	}
}
