package postgres

import (
	"context"
	"log/slog"

	"github.com/joacominatel/omnidb/internal/database"
)

func init() {
	database.Register("postgres", []string{"postgres", "postgresql"}, func(ctx context.Context, url string, logger *slog.Logger) (database.Pool, error) {
		return Open(ctx, url, logger)
	})
}
