package sqlite

import (
	"context"
	"log/slog"

	"github.com/joacominatel/omnidb/internal/database"
)

func init() {
	database.Register("sqlite", []string{"sqlite", "sqlite3", "file"}, func(ctx context.Context, url string, logger *slog.Logger) (database.Pool, error) {
		return Open(ctx, url, logger)
	})
}
