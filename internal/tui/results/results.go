package results

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joacominatel/omnidb/internal/app"
	"github.com/joacominatel/omnidb/internal/database"
	"github.com/joacominatel/omnidb/internal/tui/theme"
)

// Mode is what the results pane is showing.
type Mode int

const (
	ModeEmpty Mode = iota
	ModeQuery
	ModeRecords
	ModeMetadata
)

var metadataTabs = []database.RowKind{
	database.RowColumn,
	database.RowConstraint,
	database.RowForeignKey,
	database.RowIndex,
}

// Model is the results component: ad-hoc query output, a paged table
// browser, or the metadata tabs of a table.
type Model struct {
	mode    Mode
	headers []string
	rows    [][]string
	// affected is set for write statements.
	affected *int64

	err       error
	width     int
	height    int
	focused   bool
	loading   bool
	cursorY   int
	cursorX   int
	scrollY   int
	colWidths []int

	statusMessage string
	lastQuery     string

	// records mode
	page *app.RecordPage

	// metadata mode
	table    database.Table
	metadata *app.TableMetadata
	tab      int

	filtering   bool
	filterInput textinput.Model
}

// New creates a new results model.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "id > 10"
	ti.Prompt = "WHERE "
	ti.CharLimit = 0
	return Model{filterInput: ti}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.filterInput.Width = max(10, w-12)
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
}

// Focused returns whether the results pane has focus.
func (m Model) Focused() bool {
	return m.focused
}

// Filtering reports whether the filter prompt is capturing keys.
func (m Model) Filtering() bool {
	return m.filtering
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(l bool) {
	m.loading = l
}

// Mode returns what the pane is showing.
func (m Model) Mode() Mode {
	return m.mode
}

// StatusMessage returns the last action feedback, if any.
func (m Model) StatusMessage() string {
	return m.statusMessage
}

// SetExecuteResult shows the outcome of an editor statement.
func (m *Model) SetExecuteResult(res *database.ExecuteResult, query string) {
	m.reset(ModeQuery)
	m.lastQuery = query
	if res.Kind == database.ResultWrite {
		n := res.UpdatedRows
		m.affected = &n
		return
	}
	m.setGrid(res.Headers, res.Rows)
}

// SetRecords shows one page of a table.
func (m *Model) SetRecords(page *app.RecordPage) {
	m.reset(ModeRecords)
	m.page = page
	m.table = page.Table
	m.filterInput.SetValue(page.Filter)
	source := page.Table.Name
	if page.Table.Schema != "" {
		source = page.Table.Schema + "." + source
	}
	m.lastQuery = "SELECT * FROM " + source
	m.setGrid(page.Headers, page.Rows)
}

// SetMetadata shows the metadata tabs of a table.
func (m *Model) SetMetadata(table database.Table, meta *app.TableMetadata) {
	m.reset(ModeMetadata)
	m.table = table
	m.metadata = meta
	m.showTab(0)
}

// SetError sets an error to display.
func (m *Model) SetError(err error) {
	m.err = err
	m.loading = false
	m.filtering = false
}

func (m *Model) reset(mode Mode) {
	m.mode = mode
	m.err = nil
	m.loading = false
	m.filtering = false
	m.affected = nil
	m.page = nil
	m.metadata = nil
	m.statusMessage = ""
	m.setGrid(nil, nil)
}

func (m *Model) setGrid(headers []string, rows [][]string) {
	m.headers = headers
	m.rows = rows
	m.cursorY, m.cursorX, m.scrollY = 0, 0, 0
	m.calculateColumnWidths()
}

func (m *Model) showTab(i int) {
	if m.metadata == nil {
		return
	}
	m.tab = (i + len(metadataTabs)) % len(metadataTabs)
	headers, rows := database.Tabulate(m.metadata.Rows(metadataTabs[m.tab]))
	m.setGrid(headers, rows)
}

func (m *Model) calculateColumnWidths() {
	if len(m.headers) == 0 {
		m.colWidths = nil
		return
	}

	m.colWidths = make([]int, len(m.headers))

	// Use display width (not byte length) for accurate measurement
	for i, col := range m.headers {
		m.colWidths[i] = lipgloss.Width(col)
	}

	for _, row := range m.rows {
		for i, cell := range row {
			w := lipgloss.Width(cell)
			if i < len(m.colWidths) && w > m.colWidths[i] {
				m.colWidths[i] = w
			}
		}
	}

	// Enforce minimum of 1 and cap at 40
	for i := range m.colWidths {
		if m.colWidths[i] < 1 {
			m.colWidths[i] = 1
		}
		if m.colWidths[i] > 40 {
			m.colWidths[i] = 40
		}
	}
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filtering {
		return m.updateFilter(keyMsg)
	}

	m.statusMessage = ""
	switch keyMsg.String() {
	case "up", "k":
		if m.cursorY > 0 {
			m.cursorY--
		}
	case "down", "j":
		if m.cursorY < len(m.rows)-1 {
			m.cursorY++
		}
	case "left", "h":
		if m.cursorX > 0 {
			m.cursorX--
		}
	case "right", "l":
		if m.cursorX < len(m.headers)-1 {
			m.cursorX++
		}
	case "pgup":
		m.cursorY = max(0, m.cursorY-m.height/2)
	case "pgdown":
		m.cursorY = max(0, min(len(m.rows)-1, m.cursorY+m.height/2))
	case "home", "g":
		m.cursorY = 0
	case "end", "G":
		m.cursorY = max(0, len(m.rows)-1)

	// records paging
	case "n":
		return m, m.requestPage(1)
	case "p":
		return m, m.requestPage(-1)
	case "/":
		if m.mode == ModeRecords {
			m.filtering = true
			m.filterInput.CursorEnd()
			return m, m.filterInput.Focus()
		}

	// metadata tabs
	case "]":
		m.showTab(m.tab + 1)
	case "[":
		m.showTab(m.tab - 1)

	// actions
	case "y":
		m.doCopyCell()
	case "Y":
		m.doCopyRowJSON()
	case "c":
		m.doCopyRowCSV()
	case "t":
		m.doCopyRowText()
	case "f":
		return m, m.doFilterByValue()
	case "D":
		return m, m.doGenerateDelete()
	case "e":
		return m, m.exportCSVCmd()
	case "E":
		return m, m.exportJSONCmd()
	}

	m.keepCursorVisible()
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		if m.page == nil {
			return m, nil
		}
		req := RequestPageMsg{
			Database: m.page.Database,
			Table:    m.page.Table,
			Filter:   strings.TrimSpace(m.filterInput.Value()),
		}
		return m, func() tea.Msg { return req }
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

// requestPage asks for the page delta pages away from the current one.
func (m *Model) requestPage(delta int) tea.Cmd {
	if m.mode != ModeRecords || m.page == nil {
		return nil
	}
	next := m.page.Page + delta
	switch {
	case next < 0:
		m.statusMessage = "Already on the first page"
		return nil
	case delta > 0 && !m.page.HasNext():
		m.statusMessage = "No more rows"
		return nil
	}
	req := RequestPageMsg{
		Database: m.page.Database,
		Table:    m.page.Table,
		Page:     next,
		Filter:   m.page.Filter,
	}
	return func() tea.Msg { return req }
}

func (m *Model) keepCursorVisible() {
	visible := m.visibleRows()
	if m.cursorY < m.scrollY {
		m.scrollY = m.cursorY
	}
	if m.cursorY >= m.scrollY+visible {
		m.scrollY = m.cursorY - visible + 1
	}
}

func (m Model) visibleRows() int {
	reserved := 4
	if m.mode == ModeMetadata || m.filtering {
		reserved++
	}
	return max(1, m.height-reserved)
}

// View renders the results pane.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	title := titleStyle.Render(m.title())

	if m.loading {
		return title + "\n" + theme.StyleMuted.Render("  Loading...")
	}

	if m.err != nil {
		return title + "\n" +
			theme.StyleError.Render("  Error: "+m.err.Error())
	}

	switch {
	case m.mode == ModeEmpty:
		return title + "\n" +
			theme.StyleMuted.Render("  Execute a query or open a table to see results")
	case m.affected != nil:
		return title + "\n" +
			theme.StyleSuccess.Render(fmt.Sprintf("  %d row(s) affected", *m.affected))
	}

	var b strings.Builder
	b.WriteString(title + "  " + theme.StyleMuted.Render(m.stats()))
	b.WriteString("\n")

	if m.mode == ModeMetadata {
		b.WriteString(m.renderTabs())
		b.WriteString("\n")
	}
	if m.filtering {
		b.WriteString("  " + m.filterInput.View())
		b.WriteString("\n")
	}

	if len(m.headers) == 0 {
		b.WriteString(theme.StyleMuted.Render("  No rows"))
		return b.String()
	}

	b.WriteString(m.renderRow(m.headers, -1))
	b.WriteString("\n")
	b.WriteString(m.renderSeparator())
	b.WriteString("\n")

	visible := m.visibleRows()
	for i := m.scrollY; i < len(m.rows) && i < m.scrollY+visible; i++ {
		b.WriteString(m.renderRow(m.rows[i], i))
		if i < m.scrollY+visible-1 && i < len(m.rows)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) title() string {
	switch m.mode {
	case ModeRecords:
		return "Records: " + m.table.Name
	case ModeMetadata:
		return "Structure: " + m.table.Name
	default:
		return "Results"
	}
}

func (m Model) stats() string {
	s := fmt.Sprintf("%d row(s)", len(m.rows))
	if m.mode == ModeRecords && m.page != nil {
		s += fmt.Sprintf(" │ page %d", m.page.Page+1)
		if m.page.Filter != "" {
			s += " │ where " + m.page.Filter
		}
	}
	if m.statusMessage != "" {
		s += " │ " + m.statusMessage
	}
	return s
}

func (m Model) renderTabs() string {
	parts := make([]string, len(metadataTabs))
	for i, kind := range metadataTabs {
		label := " " + kind.String() + " "
		if i == m.tab {
			parts[i] = lipgloss.NewStyle().
				Foreground(theme.ColorHighlight).
				Bold(true).
				Underline(true).
				Render(label)
		} else {
			parts[i] = theme.StyleMuted.Render(label)
		}
	}
	return "  " + strings.Join(parts, "│")
}

// renderRow renders one grid line. row is -1 for the header.
func (m Model) renderRow(cells []string, row int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		width := 10
		if i < len(m.colWidths) {
			width = m.colWidths[i]
		}
		if width < 1 {
			width = 1
		}

		display := cell
		displayWidth := lipgloss.Width(display)

		// Truncate if display is wider than column
		if displayWidth > width {
			runes := []rune(display)
			if width > 1 && len(runes) > 0 {
				// Trim runes until we fit (accounting for the ellipsis)
				trimmed := runes
				for lipgloss.Width(string(trimmed)) >= width && len(trimmed) > 0 {
					trimmed = trimmed[:len(trimmed)-1]
				}
				display = string(trimmed) + "…"
			} else {
				display = "…"
			}
			displayWidth = lipgloss.Width(display)
		}

		// Pad to column width; guard against negative (never panic)
		pad := width - displayWidth
		if pad > 0 {
			display += strings.Repeat(" ", pad)
		}

		switch {
		case row < 0:
			parts[i] = lipgloss.NewStyle().
				Bold(true).
				Foreground(theme.ColorPrimary).
				Render(display)
		case m.focused && row == m.cursorY && i == m.cursorX:
			parts[i] = lipgloss.NewStyle().Reverse(true).Render(display)
		case cell == database.NullText:
			parts[i] = theme.StyleMuted.Render(display)
		default:
			parts[i] = display
		}
	}
	return "  " + strings.Join(parts, " │ ")
}

func (m Model) renderSeparator() string {
	parts := make([]string, len(m.colWidths))
	for i, w := range m.colWidths {
		if w < 1 {
			w = 1
		}
		parts[i] = strings.Repeat("─", w)
	}
	return "  " + lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Join(parts, "─┼─"))
}
