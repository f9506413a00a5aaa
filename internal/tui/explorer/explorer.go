package explorer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joacominatel/omnidb/internal/database"
	"github.com/joacominatel/omnidb/internal/tui/theme"
)

// NodeKind identifies the type of a tree node.
type NodeKind int

const (
	NodeDatabase NodeKind = iota
	NodeSchema
	NodeTable
	NodeColumn
)

// TreeNode represents a single node in the schema tree.
type TreeNode struct {
	Kind     NodeKind
	Name     string
	Children []*TreeNode
	Expanded bool
	Loaded   bool // whether children have been fetched

	Database database.Database // owning database
	Table    database.Table    // for tables and columns
	DataType string            // column data type
}

// flatItem is a visible item in the flattened tree view.
type flatItem struct {
	node  *TreeNode
	depth int
}

// Model is the explorer (database tree) component.
type Model struct {
	roots   []*TreeNode
	items   []flatItem
	cursor  int
	width   int
	height  int
	focused bool
	loading bool
}

// RequestColumnsMsg is sent when a table is expanded and needs column data.
type RequestColumnsMsg struct {
	Database database.Database
	Table    database.Table
}

// OpenTableMsg asks the app to browse a table's records.
type OpenTableMsg struct {
	Database database.Database
	Table    database.Table
}

// DescribeTableMsg asks the app to show a table's metadata tabs.
type DescribeTableMsg struct {
	Database database.Database
	Table    database.Table
}

// New creates a new explorer model.
func New() Model {
	return Model{}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
}

// Focused returns whether the explorer has focus.
func (m Model) Focused() bool {
	return m.focused
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(l bool) {
	m.loading = l
}

// SetDatabases populates the explorer. Schemas become intermediate nodes;
// bare tables hang directly under their database. A single database starts
// expanded.
func (m *Model) SetDatabases(dbs []database.Database) {
	m.roots = nil
	for _, db := range dbs {
		dbNode := &TreeNode{
			Kind:     NodeDatabase,
			Name:     db.Name,
			Database: db,
			Expanded: len(dbs) == 1,
			Loaded:   true,
		}
		for _, child := range db.Children {
			switch c := child.(type) {
			case database.Schema:
				schemaNode := &TreeNode{
					Kind:     NodeSchema,
					Name:     c.Name,
					Database: db,
					Loaded:   true,
				}
				for _, t := range c.Tables {
					schemaNode.Children = append(schemaNode.Children, tableNode(db, t))
				}
				dbNode.Children = append(dbNode.Children, schemaNode)
			case database.Table:
				dbNode.Children = append(dbNode.Children, tableNode(db, c))
			}
		}
		m.roots = append(m.roots, dbNode)
	}

	m.cursor = 0
	m.flatten()
	m.loading = false
}

func tableNode(db database.Database, t database.Table) *TreeNode {
	return &TreeNode{Kind: NodeTable, Name: t.Name, Database: db, Table: t}
}

// TableNames returns every table name in the tree, schema-qualified where the
// table has a schema.
func (m Model) TableNames() []string {
	var names []string
	m.visitTables(func(n *TreeNode) bool {
		name := n.Table.Name
		if n.Table.Schema != "" {
			name = n.Table.Schema + "." + name
		}
		names = append(names, name)
		return false
	})
	return names
}

// SetColumns adds column nodes to a table node.
func (m *Model) SetColumns(db string, table database.Table, columns []database.TableRow) {
	m.visitTables(func(node *TreeNode) bool {
		if node.Database.Name != db || node.Table.Name != table.Name || node.Table.Schema != table.Schema {
			return false
		}
		node.Children = nil
		for _, row := range columns {
			col, ok := row.(database.Column)
			if !ok {
				continue
			}
			node.Children = append(node.Children, &TreeNode{
				Kind:     NodeColumn,
				Name:     col.Name.String,
				Database: node.Database,
				Table:    node.Table,
				DataType: col.Type.String,
			})
		}
		node.Loaded = true
		return true
	})
	m.flatten()
}

// visitTables calls fn for each table node until fn returns true.
func (m *Model) visitTables(fn func(*TreeNode) bool) {
	var walk func(nodes []*TreeNode) bool
	walk = func(nodes []*TreeNode) bool {
		for _, n := range nodes {
			switch n.Kind {
			case NodeTable:
				if fn(n) {
					return true
				}
			case NodeDatabase, NodeSchema:
				if walk(n.Children) {
					return true
				}
			}
		}
		return false
	}
	walk(m.roots)
}

// SelectedTable returns the database and table of the selected node, if any.
func (m Model) SelectedTable() (database.Database, database.Table, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return database.Database{}, database.Table{}, false
	}
	node := m.items[m.cursor].node
	switch node.Kind {
	case NodeTable, NodeColumn:
		return node.Database, node.Table, true
	}
	return database.Database{}, database.Table{}, false
}

// flatten rebuilds the flat item list from the tree.
func (m *Model) flatten() {
	m.items = nil
	for _, root := range m.roots {
		m.flattenNode(root, 0)
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

func (m *Model) flattenNode(node *TreeNode, depth int) {
	m.items = append(m.items, flatItem{node: node, depth: depth})
	if node.Expanded {
		for _, child := range node.Children {
			m.flattenNode(child, depth+1)
		}
	}
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the explorer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter", "right", "l":
			return m, m.toggleExpand()
		case "left", "h":
			return m, m.collapse()
		case "s":
			if db, table, ok := m.SelectedTable(); ok {
				return m, func() tea.Msg { return OpenTableMsg{Database: db, Table: table} }
			}
		case "m":
			if db, table, ok := m.SelectedTable(); ok {
				return m, func() tea.Msg { return DescribeTableMsg{Database: db, Table: table} }
			}
		}
	}

	return m, nil
}

func (m *Model) toggleExpand() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	node := m.items[m.cursor].node

	// Columns have no children
	if node.Kind == NodeColumn {
		return nil
	}

	if node.Expanded {
		node.Expanded = false
		m.flatten()
		return nil
	}

	node.Expanded = true
	m.flatten()

	// If this is a table and columns aren't loaded yet, request them
	if node.Kind == NodeTable && !node.Loaded {
		req := RequestColumnsMsg{Database: node.Database, Table: node.Table}
		return func() tea.Msg { return req }
	}

	return nil
}

func (m *Model) collapse() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	node := m.items[m.cursor].node

	if node.Expanded {
		node.Expanded = false
		m.flatten()
	}
	return nil
}

// View renders the explorer.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	title := titleStyle.Render("Explorer")

	if m.loading {
		return title + "\n" + theme.StyleMuted.Render("  Loading...")
	}

	if m.roots == nil {
		return title + "\n" + theme.StyleMuted.Render("  No connection")
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	// Calculate visible area
	visibleHeight := max(1, m.height-2) // title + padding

	// Scroll offset to keep cursor visible
	scrollOffset := 0
	if m.cursor >= visibleHeight {
		scrollOffset = m.cursor - visibleHeight + 1
	}

	for i := scrollOffset; i < len(m.items) && i < scrollOffset+visibleHeight; i++ {
		item := m.items[i]
		line := m.renderNode(item, i == m.cursor)
		b.WriteString(line)
		if i < scrollOffset+visibleHeight-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) renderNode(item flatItem, selected bool) string {
	node := item.node
	indent := strings.Repeat("  ", item.depth)

	icon := "▶ "
	switch {
	case node.Kind == NodeColumn:
		icon = "  "
	case node.Expanded:
		icon = "▼ "
	}

	name := node.Name
	if node.Kind == NodeColumn && node.DataType != "" {
		name = fmt.Sprintf("%s %s", node.Name, lipgloss.NewStyle().Foreground(theme.ColorMuted).Render(node.DataType))
	}

	line := indent + icon + name

	// Truncate to width
	if m.width > 4 && lipgloss.Width(line) > m.width-2 {
		runes := []rune(line)
		for len(runes) > 0 && lipgloss.Width(string(runes)) > m.width-4 {
			runes = runes[:len(runes)-1]
		}
		line = string(runes) + ".."
	}

	if selected {
		return lipgloss.NewStyle().
			Foreground(theme.ColorHighlight).
			Bold(true).
			Render(line)
	}

	return line
}
