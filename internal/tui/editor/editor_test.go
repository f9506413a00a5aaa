package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func focused() Model {
	m := New()
	m.SetSize(80, 10)
	m.SetFocused(true)
	return m
}

func TestFormatKeywords(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"select * from users where id = 1", "SELECT * FROM users WHERE id = 1"},
		{"select 'from where' from t", "SELECT 'from where' FROM t"},
		{"select [order] from `select`", "SELECT [order] FROM `select`"},
		{"select 1 -- from here\nfrom t", "SELECT 1 -- from here\nFROM t"},
		{"select top 5 * from t order by 1 offset 0 rows fetch next 5 rows only",
			"SELECT TOP 5 * FROM t ORDER BY 1 OFFSET 0 ROWS FETCH NEXT 5 ROWS ONLY"},
		{"select 'unterminated", "SELECT 'unterminated"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatKeywords(tt.in))
	}
}

func TestExecuteEmitsQuery(t *testing.T) {
	m := focused()
	m.SetQuery("  select 1  ")

	m, cmd := m.Update(keyMsg("ctrl+e"))
	require.NotNil(t, cmd)
	assert.Equal(t, ExecuteQueryMsg{Query: "select 1"}, cmd())
	assert.Equal(t, []string{"select 1"}, m.History())
}

func TestExecuteIgnoresBlank(t *testing.T) {
	m := focused()
	m.SetQuery("   ")
	_, cmd := m.Update(keyMsg("ctrl+e"))
	assert.Nil(t, cmd)
}

func TestCompletionAfterTableKeyword(t *testing.T) {
	m := focused()
	m.SetTableNames([]string{"public.users", "public.user_roles", "orders"})

	m.SetQuery("SELECT * FROM us")
	m, _ = m.Update(keyMsg("tab"))
	assert.Equal(t, "SELECT * FROM public.user_roles", m.Value())

	m, _ = m.Update(keyMsg("tab"))
	assert.Equal(t, "SELECT * FROM public.users", m.Value())
}

func TestCompletionOutsideTableContext(t *testing.T) {
	m := focused()
	m.SetTableNames([]string{"users"})
	m.SetQuery("SELECT us")

	m, _ = m.Update(keyMsg("tab"))
	assert.NotEqual(t, "SELECT users", m.Value())
}

func TestHistoryBrowsing(t *testing.T) {
	m := focused()
	for _, q := range []string{"select 1", "select 2"} {
		m.SetQuery(q)
		m, _ = m.Update(keyMsg("ctrl+e"))
	}
	m.SetQuery("draft")

	m, _ = m.Update(keyMsg("ctrl+p"))
	assert.Equal(t, "select 2", m.Value())
	m, _ = m.Update(keyMsg("ctrl+p"))
	assert.Equal(t, "select 1", m.Value())
	m, _ = m.Update(keyMsg("ctrl+p"))
	assert.Equal(t, "select 1", m.Value())

	m, _ = m.Update(keyMsg("ctrl+n"))
	m, _ = m.Update(keyMsg("ctrl+n"))
	assert.Equal(t, "draft", m.Value())
}

func TestLastWord(t *testing.T) {
	assert.Equal(t, "public.us", lastWord("SELECT * FROM public.us"))
	assert.Equal(t, "x", lastWord("x  \n"))
	assert.Equal(t, "", lastWord("a ("))
}

func TestWantsTab(t *testing.T) {
	m := focused()
	m.SetTableNames([]string{"orders"})

	m.SetQuery("SELECT * FROM or")
	assert.True(t, m.WantsTab())

	m.SetQuery("SELECT 1")
	assert.False(t, m.WantsTab())
}
