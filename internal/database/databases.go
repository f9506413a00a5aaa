package database

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// maxTableListings bounds concurrent GetTables calls while listing databases.
const maxTableListings = 4

// LoadDatabases builds a Database for each name by calling tables for it.
// Listings run concurrently on the pool; the first failure cancels the rest
// and is returned. The result keeps the order of names.
func LoadDatabases(ctx context.Context, names []string, tables func(ctx context.Context, database string) ([]Child, error)) ([]Database, error) {
	list := make([]Database, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxTableListings)
	for i, name := range names {
		g.Go(func() error {
			children, err := tables(gctx, name)
			if err != nil {
				return fmt.Errorf("tables of %s: %w", name, err)
			}
			list[i] = NewDatabase(name, children)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return list, nil
}
