package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/joacominatel/omnidb/internal/database"
)

// Output formats accepted by --format.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
)

func validateFormat(format string) error {
	switch format {
	case FormatTable, FormatJSON, FormatCSV, FormatMarkdown, "markdown":
		return nil
	}
	return fmt.Errorf("unknown format %q: want table, json, csv or md", format)
}

// renderRows writes a grid of already coerced values.
func renderRows(w io.Writer, title string, headers []string, rows [][]string, format string) error {
	if format == FormatJSON {
		return renderJSON(w, headers, rows)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if title != "" && format == FormatTable {
		t.SetTitle(title)
	}

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		t.AppendRow(row)
	}

	switch format {
	case FormatCSV:
		t.RenderCSV()
	case FormatMarkdown, "markdown":
		t.RenderMarkdown()
	default:
		if len(rows) == 0 {
			_, _ = fmt.Fprintf(w, "%s(0 rows)\n", titlePrefix(title))
			return nil
		}
		t.Render()
		_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	}
	return nil
}

func titlePrefix(title string) string {
	if title == "" {
		return ""
	}
	return title + ": "
}

// renderJSON writes rows as an array of header-keyed objects.
func renderJSON(w io.Writer, headers []string, rows [][]string) error {
	objects := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		obj := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(r) {
				obj[h] = r[i]
			}
		}
		objects = append(objects, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(objects)
}

// renderTableRows writes metadata rows under their variant's headers.
func renderTableRows(w io.Writer, kind database.RowKind, rows []database.TableRow, format string) error {
	headers, values := database.Tabulate(rows)
	return renderRows(w, kind.String(), headers, values, format)
}

// renderTree writes the database tree as an indented list.
func renderTree(w io.Writer, dbs []database.Database) {
	l := list.NewWriter()
	l.SetOutputMirror(w)
	l.SetStyle(list.StyleConnectedRounded)

	for _, db := range dbs {
		l.AppendItem(db.Name)
		l.Indent()
		for _, child := range db.Children {
			switch c := child.(type) {
			case database.Schema:
				l.AppendItem(c.Name + "/")
				l.Indent()
				for _, t := range c.Tables {
					l.AppendItem(t.Name)
				}
				l.UnIndent()
			case database.Table:
				l.AppendItem(c.Name)
			}
		}
		l.UnIndent()
	}
	l.Render()
}
