// Package dataset loads the player and country tables from local, HTTP or FTP
// sources, decodes and joins them, and writes the enriched output.
package dataset

import (
	"path"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"
)

// Table is a header plus rows of string cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// RequireColumns returns the index of every named column, or an error listing
// the missing ones.
func (t *Table) RequireColumns(names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(names))
	var missing []string
	for _, n := range names {
		i, ok := t.ColumnIndex(n)
		if !ok {
			missing = append(missing, n)
			continue
		}
		idx[n] = i
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("dataset: missing columns %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

// Cell returns row[i] or "" when the row is short.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Format is a tabular file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name. Empty means "infer from the path".
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, "xls":
		return FormatXLSX, nil
	default:
		return "", eris.Errorf("dataset: unknown format %q", s)
	}
}

// FormatFromPath infers the format from a path or URL extension. Anything
// other than .xlsx is CSV.
func FormatFromPath(p string) Format {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if strings.EqualFold(path.Ext(p), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// normalize trims surrounding space and applies NFC so the same place name
// from two files compares equal.
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
