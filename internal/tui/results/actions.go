package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joacominatel/omnidb/internal/database"
)

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

func (m Model) getCellValue() string {
	return m.getCellValueAt(m.cursorY, m.cursorX)
}

func (m Model) getColumnName() string {
	if m.cursorX < 0 || m.cursorX >= len(m.headers) {
		return ""
	}
	return m.headers[m.cursorX]
}

func (m Model) getCellValueAt(row, col int) string {
	if row < 0 || row >= len(m.rows) {
		return ""
	}
	r := m.rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

func (m Model) currentRow() ([]string, bool) {
	if m.cursorY < 0 || m.cursorY >= len(m.rows) {
		return nil, false
	}
	return m.rows[m.cursorY], true
}

// --- Copy ---

func (m *Model) copyText(val, done string) {
	if err := writeClipboard(val); err != nil {
		m.statusMessage = "Copy failed: " + err.Error()
		return
	}
	m.statusMessage = done
}

func (m *Model) doCopyCell() {
	val := m.getCellValue()
	if val == "" {
		m.statusMessage = "Nothing to copy"
		return
	}
	m.copyText(val, "Copied: "+truncateStatus(val, 40))
}

func (m *Model) doCopyRowJSON() {
	row, ok := m.currentRow()
	if !ok {
		m.statusMessage = "No row to copy"
		return
	}
	m.copyText(rowToJSON(m.headers, row), "Copied row as JSON")
}

func (m *Model) doCopyRowCSV() {
	row, ok := m.currentRow()
	if !ok {
		m.statusMessage = "No row to copy"
		return
	}
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(m.headers)
	_ = w.Write(row)
	w.Flush()
	m.copyText(b.String(), "Copied row as CSV")
}

func (m *Model) doCopyRowText() {
	row, ok := m.currentRow()
	if !ok {
		m.statusMessage = "No row to copy"
		return
	}
	m.copyText(strings.Join(row, "\t"), "Copied row as text")
}

// --- Filter ---

// doFilterByValue narrows the view to rows whose selected column equals the
// selected cell. Table pages are reloaded with the condition as their filter;
// query results get a SELECT in the editor.
func (m *Model) doFilterByValue() tea.Cmd {
	col := m.getColumnName()
	if col == "" || len(m.rows) == 0 {
		m.statusMessage = "Cannot filter: no cell selected"
		return nil
	}
	condition := equalsCondition(col, m.getCellValue())

	if m.mode == ModeRecords && m.page != nil {
		req := RequestPageMsg{Database: m.page.Database, Table: m.page.Table, Filter: condition}
		return func() tea.Msg { return req }
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s", extractTableName(m.lastQuery), condition)
	return func() tea.Msg {
		return SetEditorQueryMsg{Query: query}
	}
}

// --- Delete ---

func (m *Model) doGenerateDelete() tea.Cmd {
	row, ok := m.currentRow()
	if !ok || m.mode == ModeMetadata {
		return nil
	}
	table := extractTableName(m.lastQuery)

	var conditions []string
	for i, col := range m.headers {
		if i >= len(row) {
			break
		}
		conditions = append(conditions, equalsCondition(col, row[i]))
	}

	// send to editor for review, never auto-execute deletes
	query := fmt.Sprintf("-- review before executing!\nDELETE FROM %s WHERE %s",
		table, strings.Join(conditions, " AND "))

	return func() tea.Msg {
		return SetEditorQueryMsg{Query: query}
	}
}

func equalsCondition(col, val string) string {
	if val == database.NullText {
		return col + " IS NULL"
	}
	escaped := strings.ReplaceAll(val, "'", "''")
	return fmt.Sprintf("%s = '%s'", col, escaped)
}

// --- Export ---

func (m Model) exportJSONCmd() tea.Cmd {
	headers, rows := m.headers, m.rows
	if len(headers) == 0 {
		return nil
	}
	return func() tea.Msg {
		filename := exportName("json")

		var b strings.Builder
		b.WriteString("[\n")
		for ri, row := range rows {
			if ri > 0 {
				b.WriteString(",\n")
			}
			b.WriteString("  ")
			b.WriteString(rowToJSON(headers, row))
		}
		b.WriteString("\n]")

		if err := os.WriteFile(filename, []byte(b.String()), 0o644); err != nil {
			return StatusNotifyMsg{Message: "Export failed: " + err.Error()}
		}
		return StatusNotifyMsg{Message: fmt.Sprintf("Exported %d rows to %s", len(rows), filename)}
	}
}

func (m Model) exportCSVCmd() tea.Cmd {
	headers, rows := m.headers, m.rows
	if len(headers) == 0 {
		return nil
	}
	return func() tea.Msg {
		filename := exportName("csv")

		f, err := os.Create(filename)
		if err != nil {
			return StatusNotifyMsg{Message: "Export failed: " + err.Error()}
		}
		defer f.Close()

		w := csv.NewWriter(f)
		_ = w.Write(headers)
		for _, row := range rows {
			_ = w.Write(row)
		}
		w.Flush()

		if err := w.Error(); err != nil {
			return StatusNotifyMsg{Message: "Export failed: " + err.Error()}
		}
		return StatusNotifyMsg{Message: fmt.Sprintf("Exported %d rows to %s", len(rows), filename)}
	}
}

func exportName(ext string) string {
	return fmt.Sprintf("omnidb_export_%s.%s", time.Now().Format("20060102_150405"), ext)
}

// --- Helpers ---

func extractTableName(query string) string {
	if query == "" {
		return "<table>"
	}
	tokens := strings.Fields(query)
	upper := make([]string, len(tokens))
	for i, t := range tokens {
		upper[i] = strings.ToUpper(t)
	}
	for i, tok := range upper {
		if (tok == "FROM" || tok == "INTO" || tok == "UPDATE") && i+1 < len(tokens) {
			name := tokens[i+1]
			name = strings.TrimRight(name, ";,()")
			if name != "" {
				return name
			}
		}
	}
	return "<table>"
}

// rowToJSON preserves column order unlike map marshaling
func rowToJSON(columns []string, row []string) string {
	var b strings.Builder
	b.WriteString("{")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		key, _ := json.Marshal(col)
		b.WriteString(string(key))
		b.WriteString(": ")
		if i < len(row) && row[i] != database.NullText {
			val, _ := json.Marshal(row[i])
			b.WriteString(string(val))
		} else {
			b.WriteString("null")
		}
	}
	b.WriteString("}")
	return b.String()
}

func truncateStatus(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
