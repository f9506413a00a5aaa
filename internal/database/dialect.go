package database

import (
	"fmt"
	"strings"
)

// PageStyle selects how a dialect expresses a page window.
type PageStyle int

const (
	// PageLimitOffset renders LIMIT n OFFSET m.
	PageLimitOffset PageStyle = iota
	// PageOffsetFetch renders OFFSET m ROWS FETCH NEXT n ROWS ONLY.
	PageOffsetFetch
)

// Dialect holds the per-engine SQL text conventions.
type Dialect struct {
	Name       string
	QuoteOpen  string
	QuoteClose string
	Paging     PageStyle
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
}

var (
	PostgresDialect = Dialect{
		Name:        "postgres",
		QuoteOpen:   `"`,
		QuoteClose:  `"`,
		Paging:      PageLimitOffset,
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}

	MySQLDialect = Dialect{
		Name:        "mysql",
		QuoteOpen:   "`",
		QuoteClose:  "`",
		Paging:      PageLimitOffset,
		Placeholder: func(int) string { return "?" },
	}

	SQLiteDialect = Dialect{
		Name:        "sqlite",
		QuoteOpen:   `"`,
		QuoteClose:  `"`,
		Paging:      PageLimitOffset,
		Placeholder: func(int) string { return "?" },
	}

	MSSQLDialect = Dialect{
		Name:        "mssql",
		QuoteOpen:   "[",
		QuoteClose:  "]",
		Paging:      PageOffsetFetch,
		Placeholder: func(n int) string { return fmt.Sprintf("@p%d", n) },
	}
)

// QuoteIdent quotes one identifier, doubling any closing quote inside it.
func (d Dialect) QuoteIdent(name string) string {
	escaped := strings.ReplaceAll(name, d.QuoteClose, d.QuoteClose+d.QuoteClose)
	return d.QuoteOpen + escaped + d.QuoteClose
}

// QualifiedName quotes and dot-joins the non-empty parts.
func (d Dialect) QualifiedName(parts ...string) string {
	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		quoted = append(quoted, d.QuoteIdent(p))
	}
	return strings.Join(quoted, ".")
}

// PageOffset converts a zero-based page number into a row offset.
func PageOffset(page int) int {
	if page < 0 {
		page = 0
	}
	return page * RecordsLimitPerPage
}

// RecordsQuery builds the SELECT for one page of a table. The source is
// the already quoted relation name. The filter is inserted verbatim as a
// WHERE clause and is never escaped: callers must treat it as trusted SQL.
// Rows are ordered by the first column so pages stay stable.
func (d Dialect) RecordsQuery(source string, page int, filter string) string {
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(source)
	if f := strings.TrimSpace(filter); f != "" {
		b.WriteString(" WHERE ")
		b.WriteString(f)
	}
	b.WriteString(" ORDER BY 1")

	offset := PageOffset(page)
	switch d.Paging {
	case PageOffsetFetch:
		fmt.Fprintf(&b, " OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", offset, RecordsLimitPerPage)
	default:
		fmt.Fprintf(&b, " LIMIT %d OFFSET %d", RecordsLimitPerPage, offset)
	}
	return b.String()
}
