package statusbar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewDisconnected(t *testing.T) {
	m := New()
	m.SetWidth(120)

	view := m.View()
	assert.Contains(t, view, "disconnected")
	assert.Contains(t, view, "Ctrl+E: Execute")
	assert.Contains(t, view, "[explorer]")
}

func TestViewConnectedWithMessage(t *testing.T) {
	m := New()
	m.SetWidth(120)
	m.SetConnection("mysql", "root@localhost:3306")
	m.SetActivePane("results")
	m.SetMessage("Loading records...")

	view := m.View()
	assert.Contains(t, view, "mysql")
	assert.Contains(t, view, "root@localhost:3306")
	assert.Contains(t, view, "[results]")
	assert.Contains(t, view, "Loading records...")
	assert.NotContains(t, view, "Ctrl+E: Execute")

	m.SetMessage("")
	assert.Contains(t, m.View(), "Ctrl+E: Execute")
}

func TestViewError(t *testing.T) {
	m := New()
	m.SetWidth(80)
	m.SetError("boom")
	assert.Contains(t, m.View(), "boom")
}
