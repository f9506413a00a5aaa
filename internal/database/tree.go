package database

import (
	"cmp"
	"slices"
)

// GroupBySchema builds the schema tree for a flat table listing.
//
// Tables are stably sorted by schema name in ascending order and each run
// of equal names becomes one Schema, so tables inside a schema keep their
// catalog order. Tables without a schema are left out of the tree; engines
// without schemas return bare tables instead of calling this.
func GroupBySchema(tables []Table) []Child {
	sorted := slices.Clone(tables)
	slices.SortStableFunc(sorted, func(a, b Table) int {
		return cmp.Compare(a.Schema, b.Schema)
	})

	var children []Child
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].Schema == sorted[i].Schema {
			j++
		}
		if sorted[i].Schema != "" {
			children = append(children, Schema{
				Name:   sorted[i].Schema,
				Tables: sorted[i:j:j],
			})
		}
		i = j
	}
	return children
}

// BareTables wraps tables as children of a schema-less database.
func BareTables(tables []Table) []Child {
	children := make([]Child, 0, len(tables))
	for _, t := range tables {
		children = append(children, t)
	}
	return children
}
