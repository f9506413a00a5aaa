package results

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joacominatel/omnidb/internal/app"
	"github.com/joacominatel/omnidb/internal/database"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func focused() Model {
	m := New()
	m.SetSize(80, 20)
	m.SetFocused(true)
	return m
}

func recordPage(page, rows int, filter string) *app.RecordPage {
	p := &app.RecordPage{
		Database: database.Database{Name: "main"},
		Table:    database.Table{Name: "users"},
		Page:     page,
		Filter:   filter,
		Headers:  []string{"id", "name"},
	}
	for range rows {
		p.Rows = append(p.Rows, []string{"1", "NULL"})
	}
	return p
}

func TestExecuteResultWrite(t *testing.T) {
	m := focused()
	m.SetExecuteResult(database.NewWriteResult(3), "DELETE FROM t")
	assert.Contains(t, m.View(), "3 row(s) affected")
}

func TestExecuteResultRead(t *testing.T) {
	m := focused()
	m.SetExecuteResult(database.NewReadResult([]string{"a"}, [][]string{{"x"}, {"NULL"}}), "SELECT a FROM t")
	view := m.View()
	assert.Contains(t, view, "2 row(s)")
	assert.Contains(t, view, "NULL")
}

func TestRecordsPaging(t *testing.T) {
	m := focused()
	m.SetRecords(recordPage(0, database.RecordsLimitPerPage, "id > 1"))

	_, cmd := m.Update(key("n"))
	require.NotNil(t, cmd)
	req, ok := cmd().(RequestPageMsg)
	require.True(t, ok)
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, "id > 1", req.Filter)

	m2, cmd := m.Update(key("p"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Already on the first page", m2.StatusMessage())

	m.SetRecords(recordPage(1, 5, ""))
	m3, cmd := m.Update(key("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, "No more rows", m3.StatusMessage())
}

func TestRecordsFilterPrompt(t *testing.T) {
	m := focused()
	m.SetRecords(recordPage(2, 10, ""))

	m, _ = m.Update(key("/"))
	require.True(t, m.Filtering())
	m, _ = m.Update(key("id > 10"))
	m, cmd := m.Update(key("enter"))
	assert.False(t, m.Filtering())
	require.NotNil(t, cmd)

	req := cmd().(RequestPageMsg)
	assert.Equal(t, 0, req.Page)
	assert.Equal(t, "id > 10", req.Filter)
	assert.Equal(t, "users", req.Table.Name)
}

func TestFilterByValue(t *testing.T) {
	m := focused()
	m.SetRecords(recordPage(0, 2, ""))
	m, _ = m.Update(key("l"))

	_, cmd := m.Update(key("f"))
	req := cmd().(RequestPageMsg)
	assert.Equal(t, "name IS NULL", req.Filter)

	m.SetExecuteResult(database.NewReadResult([]string{"name"}, [][]string{{"O'Brien"}}), "SELECT name FROM people")
	_, cmd = m.Update(key("f"))
	msg := cmd().(SetEditorQueryMsg)
	assert.Equal(t, "SELECT * FROM people WHERE name = 'O''Brien'", msg.Query)
}

func TestMetadataTabs(t *testing.T) {
	m := focused()
	meta := &app.TableMetadata{
		Columns: []database.TableRow{database.Column{}},
		Indexes: []database.TableRow{database.Index{}, database.Index{}},
	}
	m.SetMetadata(database.Table{Name: "users"}, meta)
	assert.Equal(t, ModeMetadata, m.Mode())
	assert.Equal(t, []string{"name", "type", "null", "default", "comment"}, m.headers)

	m, _ = m.Update(key("["))
	assert.Equal(t, []string{"name", "column_name", "type"}, m.headers)
	assert.Len(t, m.rows, 2)

	m, _ = m.Update(key("]"))
	assert.Len(t, m.rows, 1)
}

func TestCopyCell(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	m := focused()
	m.SetExecuteResult(database.NewReadResult([]string{"a", "b"}, [][]string{{"x", "y"}}), "SELECT a, b FROM t")
	m, _ = m.Update(key("y"))
	assert.Equal(t, "x", copied)

	m, _ = m.Update(key("Y"))
	assert.Equal(t, `{"a": "x", "b": "y"}`, copied)

	writeClipboard = func(string) error { return errors.New("no display") }
	m, _ = m.Update(key("t"))
	assert.Contains(t, m.StatusMessage(), "no display")
}

func TestRowToJSON(t *testing.T) {
	assert.Equal(t, `{"id": "1", "note": null, "extra": null}`,
		rowToJSON([]string{"id", "note", "extra"}, []string{"1", "NULL"}))
}

func TestExtractTableName(t *testing.T) {
	assert.Equal(t, "public.users", extractTableName("select * from public.users where id = 1"))
	assert.Equal(t, "t", extractTableName("INSERT INTO t (a) VALUES (1)"))
	assert.Equal(t, "<table>", extractTableName(""))
}
