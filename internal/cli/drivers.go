package cli

// Engine adapters register their URL schemes on import.
import (
	_ "github.com/joacominatel/omnidb/internal/database/mssql"
	_ "github.com/joacominatel/omnidb/internal/database/mysql"
	_ "github.com/joacominatel/omnidb/internal/database/postgres"
	_ "github.com/joacominatel/omnidb/internal/database/sqlite"
)
