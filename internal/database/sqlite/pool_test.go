package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joacominatel/omnidb/internal/database"
)

const fixture = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL DEFAULT 'anon',
	email TEXT UNIQUE,
	avatar BLOB
);
CREATE TABLE orders (
	id INTEGER PRIMARY KEY,
	user_id INTEGER REFERENCES users(id),
	total REAL
);
CREATE INDEX idx_orders_user ON orders(user_id);
`

func openFixture(t *testing.T, users int) *Pool {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fixture.db")

	p, err := Open(ctx, "sqlite://"+path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	for _, stmt := range strings.Split(fixture, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := p.Execute(ctx, stmt)
		require.NoError(t, err)
	}

	var values []string
	for i := 1; i <= users; i++ {
		email := "NULL"
		if i%2 == 0 {
			email = fmt.Sprintf("'u%d@example.com'", i)
		}
		values = append(values, fmt.Sprintf("(%d, 'user%d', %s)", i, i, email))
	}
	if len(values) > 0 {
		res, err := p.Execute(ctx, "INSERT INTO users (id, name, email) VALUES "+strings.Join(values, ", "))
		require.NoError(t, err)
		require.EqualValues(t, users, res.UpdatedRows)
	}
	return p
}

func mainDB() database.Database { return database.Database{Name: "main"} }

func TestBuildDSN(t *testing.T) {
	assert.Equal(t, "/tmp/a.db", BuildDSN("sqlite:///tmp/a.db"))
	assert.Equal(t, "a.db", BuildDSN("sqlite3://a.db"))
	assert.Equal(t, ":memory:", BuildDSN("sqlite::memory:"))
	assert.Equal(t, "file:a.db?mode=ro", BuildDSN("file:a.db?mode=ro"))
}

func TestIsMemory(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{":memory:", true},
		{"file::memory:", true},
		{"file::memory:?cache=shared", true},
		{"file:test.db?mode=memory&cache=shared", true},
		{"FILE:x?MODE=MEMORY", true},
		{"/tmp/a.db", false},
		{"file:a.db?mode=ro", false},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, isMemory(tt.dsn))
		})
	}
}

func TestMemoryDatabaseKeepsState(t *testing.T) {
	ctx := context.Background()
	p, err := Open(ctx, "file::memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	_, err = p.Execute(ctx, "CREATE TABLE kv (k TEXT)")
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		_, err = p.Execute(ctx, "INSERT INTO kv (k) VALUES ('"+strconv.Itoa(i)+"')")
		require.NoError(t, err)
	}
	res, err := p.Execute(ctx, "SELECT count(*) FROM kv")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"8"}}, res.Rows)
}

func TestRegistered(t *testing.T) {
	name, ok := database.EngineFor("sqlite:///tmp/a.db")
	require.True(t, ok)
	assert.Equal(t, "sqlite", name)

	p, err := database.Open(context.Background(), "sqlite::memory:", nil)
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestExecute(t *testing.T) {
	p := openFixture(t, 10)
	ctx := context.Background()

	t.Run("read", func(t *testing.T) {
		res, err := p.Execute(ctx, "SELECT 1")
		require.NoError(t, err)
		assert.Equal(t, database.ResultRead, res.Kind)
		require.Len(t, res.Rows, 1)
		assert.Equal(t, []string{"1"}, res.Rows[0])
		assert.Equal(t, "-", res.Database.Name)
		assert.Equal(t, "-", res.Table.Name)
	})

	t.Run("write", func(t *testing.T) {
		res, err := p.Execute(ctx, "UPDATE users SET name = 'x' WHERE id = 5")
		require.NoError(t, err)
		assert.Equal(t, database.ResultWrite, res.Kind)
		assert.EqualValues(t, 1, res.UpdatedRows)
	})

	t.Run("empty read has no headers", func(t *testing.T) {
		res, err := p.Execute(ctx, "SELECT * FROM users WHERE id < 0")
		require.NoError(t, err)
		assert.Empty(t, res.Headers)
		assert.Empty(t, res.Rows)
	})

	t.Run("error", func(t *testing.T) {
		_, err := p.Execute(ctx, "SELECT * FROM missing")
		var execErr *database.ExecutionError
		require.ErrorAs(t, err, &execErr)
	})
}

func TestGetDatabases(t *testing.T) {
	p := openFixture(t, 0)

	dbs, err := p.GetDatabases(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, dbs)
	assert.Equal(t, "main", dbs[0].Name)

	var names []string
	for _, child := range dbs[0].Children {
		table, ok := child.(database.Table)
		require.True(t, ok)
		names = append(names, table.Name)
	}
	assert.Equal(t, []string{"orders", "users"}, names)
}

func TestGetRecordsPaging(t *testing.T) {
	p := openFixture(t, 450)
	ctx := context.Background()
	users := database.Table{Name: "users"}

	headers, first, err := p.GetRecords(ctx, mainDB(), users, 0, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "email", "avatar"}, headers)
	require.Len(t, first, database.RecordsLimitPerPage)

	_, second, err := p.GetRecords(ctx, mainDB(), users, 1, "")
	require.NoError(t, err)
	require.Len(t, second, database.RecordsLimitPerPage)

	_, third, err := p.GetRecords(ctx, mainDB(), users, 2, "")
	require.NoError(t, err)
	assert.Len(t, third, 50)

	seen := map[string]bool{}
	for _, row := range first {
		seen[row[0]] = true
	}
	for _, row := range second {
		assert.False(t, seen[row[0]], "row %s on both pages", row[0])
	}
	last, _ := strconv.Atoi(first[len(first)-1][0])
	next, _ := strconv.Atoi(second[0][0])
	assert.Less(t, last, next)
}

func TestGetRecordsFilter(t *testing.T) {
	p := openFixture(t, 20)

	_, rows, err := p.GetRecords(context.Background(), mainDB(), database.Table{Name: "users"}, 0, "id > 10")
	require.NoError(t, err)
	require.Len(t, rows, 10)
	for _, row := range rows {
		id, err := strconv.Atoi(row[0])
		require.NoError(t, err)
		assert.Greater(t, id, 10)
	}
}

func TestDateTimeColumns(t *testing.T) {
	p := openFixture(t, 0)
	ctx := context.Background()

	_, err := p.Execute(ctx, "CREATE TABLE ev (id INTEGER PRIMARY KEY, at DATETIME, day date)")
	require.NoError(t, err)
	_, err = p.Execute(ctx, "INSERT INTO ev (id, at, day) VALUES (1, '2024-05-01 10:00:00', NULL)")
	require.NoError(t, err)

	headers, rows, err := p.GetRecords(ctx, mainDB(), database.Table{Name: "ev"}, 0, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "at", "day"}, headers)
	assert.Equal(t, [][]string{{"1", "2024-05-01 10:00:00", "NULL"}}, rows)

	res, err := p.Execute(ctx, "SELECT typeof(at), at FROM ev")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"text", "2024-05-01 10:00:00"}}, res.Rows)
}

func TestGetRecordsNullAndBlob(t *testing.T) {
	p := openFixture(t, 3)
	ctx := context.Background()

	_, rows, err := p.GetRecords(ctx, mainDB(), database.Table{Name: "users"}, 0, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "user1", "NULL", "NULL"}, rows[0])
	assert.Equal(t, []string{"2", "user2", "u2@example.com", "NULL"}, rows[1])

	_, err = p.Execute(ctx, "UPDATE users SET avatar = x'00ff' WHERE id = 1")
	require.NoError(t, err)

	_, _, err = p.GetRecords(ctx, mainDB(), database.Table{Name: "users"}, 0, "")
	var unsupported *database.UnsupportedColumnTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "avatar", unsupported.Column)
}

func TestMetadata(t *testing.T) {
	p := openFixture(t, 0)
	ctx := context.Background()
	users := database.Table{Name: "users"}
	orders := database.Table{Name: "orders"}

	columns, err := p.GetColumns(ctx, mainDB(), users)
	require.NoError(t, err)
	require.Len(t, columns, 4)
	assert.Equal(t, []string{"name", "type", "null", "default", "comment"}, columns[0].Fields())
	assert.Equal(t, []string{"name", "TEXT", "NO", "'anon'", ""}, columns[1].Columns())
	assert.Equal(t, []string{"email", "TEXT", "YES", "", ""}, columns[2].Columns())

	constraints, err := p.GetConstraints(ctx, mainDB(), users)
	require.NoError(t, err)
	require.Len(t, constraints, 2)
	assert.Equal(t, []string{"PRIMARY KEY", "id"}, constraints[0].Columns())
	assert.Equal(t, "email", constraints[1].Columns()[1])

	fks, err := p.GetForeignKeys(ctx, mainDB(), orders)
	require.NoError(t, err)
	require.Len(t, fks, 1)
	assert.Equal(t, []string{"0", "user_id", "users", "id"}, fks[0].Columns())

	indexes, err := p.GetIndexes(ctx, mainDB(), orders)
	require.NoError(t, err)
	require.Len(t, indexes, 1)
	assert.Equal(t, []string{"idx_orders_user", "user_id", "INDEX"}, indexes[0].Columns())

	none, err := p.GetForeignKeys(ctx, mainDB(), users)
	require.NoError(t, err)
	assert.Empty(t, none)
}
