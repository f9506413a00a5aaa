package editor

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joacominatel/omnidb/internal/tui/theme"
)

// ExecuteQueryMsg is sent when the user triggers query execution.
type ExecuteQueryMsg struct {
	Query string
}

const historyLimit = 50

// keywords uppercased by the formatter. Covers the dialects of every
// supported engine.
var keywords = toSet(
	"select", "from", "where", "and", "or", "not", "in", "is", "null",
	"like", "ilike", "between", "exists", "insert", "into", "values",
	"update", "set", "delete", "returning", "create", "drop", "alter",
	"table", "index", "view", "join", "inner", "outer", "left", "right",
	"full", "cross", "on", "using", "order", "by", "group", "having",
	"limit", "offset", "fetch", "next", "rows", "row", "only", "top",
	"as", "distinct", "union", "all", "asc", "desc", "case", "when",
	"then", "else", "end", "count", "sum", "avg", "min", "max",
	"begin", "commit", "rollback", "primary", "key", "foreign",
	"references", "cascade", "restrict", "default", "unique", "check",
	"constraint", "true", "false", "show", "describe", "explain",
	"pragma", "with", "recursive",
)

// keywords after which a table name is expected.
var tableContext = toSet("from", "join", "into", "update", "table", "describe")

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// Model is the SQL query editor component.
type Model struct {
	textarea textarea.Model
	width    int
	height   int
	focused  bool

	tableNames  []string
	completions []string // nil when not completing
	compIndex   int

	history    []string // oldest first
	historyPos int      // len(history) when not browsing
	draft      string   // text present before browsing started
}

// New creates a new editor model.
func New() Model {
	ta := textarea.New()
	ta.Placeholder = "Enter SQL query..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Prompt = "│ "
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle()
	ta.BlurredStyle.Base = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(theme.ColorMuted)
	ta.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(theme.ColorMuted)
	ta.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(theme.ColorPrimary)
	ta.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(theme.ColorBorder)

	return Model{textarea: ta}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.textarea.SetWidth(max(1, w-2))
	m.textarea.SetHeight(max(1, h-2))
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
	if f {
		m.textarea.Focus()
	} else {
		m.textarea.Blur()
	}
}

// Focused returns whether the editor has focus.
func (m Model) Focused() bool {
	return m.focused
}

// Value returns the current editor content.
func (m Model) Value() string {
	return m.textarea.Value()
}

// SetQuery replaces the editor content.
func (m *Model) SetQuery(query string) {
	m.textarea.SetValue(query)
	m.completions = nil
}

// SetTableNames sets the available table names for autocompletion.
func (m *Model) SetTableNames(names []string) {
	m.tableNames = names
}

// History returns executed queries, oldest first.
func (m Model) History() []string {
	return m.history
}

// Clear empties the editor.
func (m *Model) Clear() {
	m.textarea.Reset()
	m.completions = nil
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the editor.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}

	key := keyMsg.String()
	if key != "tab" && key != "esc" {
		m.completions = nil
	}

	switch key {
	case "ctrl+e", "f5":
		query := strings.TrimSpace(m.textarea.Value())
		if query == "" {
			return m, nil
		}
		m.remember(query)
		return m, func() tea.Msg { return ExecuteQueryMsg{Query: query} }
	case "ctrl+k":
		m.Clear()
		return m, nil
	case "ctrl+l":
		m.textarea.SetValue(FormatKeywords(m.textarea.Value()))
		return m, nil
	case "ctrl+p":
		m.browseHistory(-1)
		return m, nil
	case "ctrl+n":
		m.browseHistory(1)
		return m, nil
	case "tab":
		if m.complete() {
			return m, nil
		}
	case "esc":
		if m.completions != nil {
			m.completions = nil
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m *Model) remember(query string) {
	if n := len(m.history); n == 0 || m.history[n-1] != query {
		m.history = append(m.history, query)
		if len(m.history) > historyLimit {
			m.history = m.history[len(m.history)-historyLimit:]
		}
	}
	m.historyPos = len(m.history)
	m.draft = ""
}

// browseHistory moves through executed queries. Stepping past the newest
// entry restores the text that was being edited.
func (m *Model) browseHistory(delta int) {
	if len(m.history) == 0 {
		return
	}
	if m.historyPos == len(m.history) {
		m.draft = m.textarea.Value()
	}
	pos := min(max(m.historyPos+delta, 0), len(m.history))
	if pos == m.historyPos {
		return
	}
	m.historyPos = pos
	if pos == len(m.history) {
		m.textarea.SetValue(m.draft)
		return
	}
	m.textarea.SetValue(m.history[pos])
}

// FormatKeywords uppercases SQL keywords outside of string literals, quoted
// identifiers and line comments.
func FormatKeywords(sql string) string {
	var out, word strings.Builder
	flush := func() {
		w := word.String()
		if keywords[strings.ToLower(w)] {
			w = strings.ToUpper(w)
		}
		out.WriteString(w)
		word.Reset()
	}

	runes := []rune(sql)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if closer, ok := quoteClose(ch); ok {
			flush()
			j := i + 1
			for j < len(runes) && runes[j] != closer {
				j++
			}
			end := min(j+1, len(runes))
			out.WriteString(string(runes[i:end]))
			i = end - 1
			continue
		}
		if ch == '-' && i+1 < len(runes) && runes[i+1] == '-' {
			flush()
			j := i
			for j < len(runes) && runes[j] != '\n' {
				j++
			}
			out.WriteString(string(runes[i:j]))
			i = j - 1
			continue
		}
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			word.WriteRune(ch)
			continue
		}
		flush()
		out.WriteRune(ch)
	}
	flush()
	return out.String()
}

func quoteClose(ch rune) (rune, bool) {
	switch ch {
	case '\'', '"', '`':
		return ch, true
	case '[':
		return ']', true
	}
	return 0, false
}

// WantsTab reports whether Tab would complete a table name instead of
// leaving the editor.
func (m Model) WantsTab() bool {
	return m.completions != nil || len(m.candidates()) > 0
}

// candidates returns the table names matching the word before the cursor
// when that word follows a table keyword.
func (m Model) candidates() []string {
	val := m.textarea.Value()
	partial := lastWord(val)
	if partial == "" || len(m.tableNames) == 0 {
		return nil
	}
	prev := strings.Fields(strings.TrimSuffix(strings.TrimRight(val, " \t\r\n"), partial))
	if len(prev) == 0 || !tableContext[strings.ToLower(prev[len(prev)-1])] {
		return nil
	}

	lower := strings.ToLower(partial)
	var matches []string
	for _, name := range m.tableNames {
		unqualified := name[strings.LastIndex(name, ".")+1:]
		if strings.HasPrefix(strings.ToLower(name), lower) || strings.HasPrefix(strings.ToLower(unqualified), lower) {
			matches = append(matches, name)
		}
	}
	slices.Sort(matches)
	return slices.Compact(matches)
}

// complete applies the next completion candidate. Returns true if one was
// applied.
func (m *Model) complete() bool {
	if m.completions != nil {
		m.compIndex = (m.compIndex + 1) % len(m.completions)
		m.applyCompletion()
		return true
	}

	matches := m.candidates()
	if len(matches) == 0 {
		return false
	}
	m.completions = matches
	m.compIndex = 0
	m.applyCompletion()
	return true
}

func (m *Model) applyCompletion() {
	val := strings.TrimRight(m.textarea.Value(), " \t\r\n")
	base := strings.TrimSuffix(val, lastWord(val))
	m.textarea.SetValue(base + m.completions[m.compIndex])
}

// lastWord returns the trailing identifier of s, dots included.
func lastWord(s string) string {
	s = strings.TrimRight(s, " \t\r\n")
	i := len(s)
	for i > 0 && isIdentByte(s[i-1]) {
		i--
	}
	return s[i:]
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// View renders the editor.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1).
		Render("Query Editor")

	if len(m.history) > 0 && m.historyPos < len(m.history) {
		title += theme.StyleMuted.Render(fmt.Sprintf(" history %d/%d", m.historyPos+1, len(m.history)))
	}

	view := title + "\n" + m.textarea.View()
	if len(m.completions) > 1 {
		hint := make([]string, len(m.completions))
		for i, c := range m.completions {
			if i == m.compIndex {
				hint[i] = lipgloss.NewStyle().Foreground(theme.ColorHighlight).Bold(true).Render(c)
			} else {
				hint[i] = theme.StyleMuted.Render(c)
			}
		}
		view += "\n" + lipgloss.NewStyle().Padding(0, 1).Render(
			theme.StyleMuted.Render("Tab: ")+strings.Join(hint, " │ "))
	}
	return view
}
