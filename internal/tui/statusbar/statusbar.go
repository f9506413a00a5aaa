package statusbar

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joacominatel/omnidb/internal/tui/theme"
)

const defaultHints = "Ctrl+E: Execute │ Tab: Switch pane │ ?: Help │ q: Quit"

// Model is the status bar component.
type Model struct {
	width      int
	engine     string // empty when disconnected
	target     string
	activePane string
	message    string
	isError    bool
}

// New creates a new status bar model.
func New() Model {
	return Model{activePane: "explorer"}
}

// SetWidth updates the component width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetConnection shows the connected engine and a short description of the
// target. An empty engine means disconnected.
func (m *Model) SetConnection(engine, target string) {
	m.engine = engine
	m.target = target
}

// SetActivePane updates the displayed active pane name.
func (m *Model) SetActivePane(pane string) {
	m.activePane = pane
}

// SetMessage replaces the key hints with msg. An empty msg restores them.
func (m *Model) SetMessage(msg string) {
	m.message = msg
	m.isError = false
}

// SetError shows msg styled as an error.
func (m *Model) SetError(msg string) {
	m.message = msg
	m.isError = true
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the status bar is driven by its setters.
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	var left string
	if m.engine == "" {
		left = lipgloss.NewStyle().Foreground(theme.ColorError).Render("●") + " disconnected"
	} else {
		badge := lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(theme.EngineColor(m.engine)).
			Padding(0, 1).
			Render(m.engine)
		left = lipgloss.NewStyle().Foreground(theme.ColorSuccess).Render("●") + " " + badge
		if m.target != "" {
			left += " " + m.target
		}
	}
	left += theme.StyleMuted.Render(" [" + m.activePane + "]")

	right := defaultHints
	switch {
	case m.message != "" && m.isError:
		right = theme.StyleError.Render(m.message)
	case m.message != "":
		right = m.message
	}

	padding := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right)-4)
	return theme.StyleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", padding) + right)
}
