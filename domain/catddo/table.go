package catddo

import "strings"

// Table is a delimited table as read from disk: trimmed header names and
// raw string cells, in file order.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewTable builds a Table and its column index. Rows must have the header's width.
func NewTable(name string, header []string, rows [][]string) (*Table, error) {
	t := &Table{Name: name, Header: make([]string, len(header)), Rows: rows, index: map[string]int{}}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.Header[i] = h
		if h == "" {
			continue
		}
		if _, dup := t.index[h]; dup {
			return nil, NewSchemaError("%s: duplicate column %q", name, h)
		}
		t.index[h] = i
	}
	for i, r := range rows {
		if len(r) != len(header) {
			return nil, NewSchemaError("%s: row %d has %d fields, header has %d", name, i+1, len(r), len(header))
		}
	}
	return t, nil
}

// Has reports whether the column exists.
func (t *Table) Has(col string) bool {
	_, ok := t.index[strings.TrimSpace(col)]
	return ok
}

// Require fails with a schema error naming the first absent column.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.Has(c) {
			return NewSchemaError("%s: missing column %q", t.Name, strings.TrimSpace(c)).With("column", c)
		}
	}
	return nil
}

// Value returns the trimmed cell of row at col; the column must exist.
func (t *Table) Value(row int, col string) string {
	return strings.TrimSpace(t.Rows[row][t.index[strings.TrimSpace(col)]])
}

// ColumnsWithPrefix lists header names starting with prefix, in file order.
func (t *Table) ColumnsWithPrefix(prefix string) []string {
	var out []string
	for _, h := range t.Header {
		if strings.HasPrefix(h, prefix) {
			out = append(out, h)
		}
	}
	return out
}
