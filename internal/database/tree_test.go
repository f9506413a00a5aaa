package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBySchema(t *testing.T) {
	tables := []Table{
		{Name: "users", Schema: "public"},
		{Name: "events", Schema: "audit"},
		{Name: "orders", Schema: "public"},
		{Name: "loose"},
		{Name: "logins", Schema: "audit"},
	}

	children := GroupBySchema(tables)
	require.Len(t, children, 2)

	audit := children[0].(Schema)
	assert.Equal(t, "audit", audit.Name)
	assert.Equal(t, []Table{{Name: "events", Schema: "audit"}, {Name: "logins", Schema: "audit"}}, audit.Tables)

	public := children[1].(Schema)
	assert.Equal(t, "public", public.Name)
	assert.Equal(t, "users", public.Tables[0].Name)
	assert.Equal(t, "orders", public.Tables[1].Name)

	// input is not reordered
	assert.Equal(t, "users", tables[0].Name)
}

func TestGroupBySchemaEmpty(t *testing.T) {
	assert.Empty(t, GroupBySchema(nil))
	assert.Empty(t, GroupBySchema([]Table{{Name: "t"}}))
}

func TestGroupBySchemaTablesDoNotAlias(t *testing.T) {
	children := GroupBySchema([]Table{{Name: "a", Schema: "x"}, {Name: "b", Schema: "y"}})
	x := children[0].(Schema)
	x.Tables = append(x.Tables, Table{Name: "c", Schema: "x"})

	y := children[1].(Schema)
	assert.Equal(t, "b", y.Tables[0].Name)
}

func TestBareTables(t *testing.T) {
	children := BareTables([]Table{{Name: "a"}, {Name: "b"}})
	require.Len(t, children, 2)
	assert.Equal(t, "a", children[0].ChildName())
	_, ok := children[1].(Table)
	assert.True(t, ok)
}

func TestDatabaseTables(t *testing.T) {
	db := NewDatabase("app", []Child{
		Schema{Name: "s", Tables: []Table{{Name: "t1", Schema: "s"}}},
		Table{Name: "t2"},
	})
	var names []string
	for _, tbl := range db.Tables() {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{"t1", "t2"}, names)
}
