package extract

import (
	"fmt"
	"strings"
)

// ExtractNames lists the nine extracts the pipeline requires, keyed by
// logical name. A set missing any of them is unusable.
var ExtractNames = []string{
	"clients",
	"restaurants",
	"users",
	"subscriptions",
	"orders",
	"sales",
	"expenses",
	"cashup",
	"banking",
}

// Table is one loaded extract: a header plus string-valued rows.
// Column names are whitespace-stripped on construction because extracts
// regularly ship with trailing spaces in headers.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a Table from a raw header and rows.
func NewTable(name string, columns []string, rows [][]string) *Table {
	t := &Table{
		Name:    name,
		Columns: make([]string, len(columns)),
		Rows:    rows,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		c = strings.TrimSpace(c)
		t.Columns[i] = c
		if _, ok := t.index[c]; !ok {
			t.index[c] = i
		}
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Col returns the index of a column, or -1 if the column is absent.
func (t *Table) Col(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// HasCol reports whether the table carries the named column.
func (t *Table) HasCol(name string) bool {
	return t.Col(name) >= 0
}

// Field returns the value at (row, column name). Absent columns and short
// rows yield "" so callers can treat sparse extracts uniformly.
func (t *Table) Field(row int, name string) string {
	return t.Value(row, t.Col(name))
}

// Value returns the value at (row, col index), or "" when out of range.
func (t *Table) Value(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// Set is the in-memory table set keyed by logical extract name.
type Set map[string]*Table

// Table returns the named extract, or an empty placeholder if absent.
func (s Set) Table(name string) *Table {
	if t, ok := s[name]; ok {
		return t
	}
	return NewTable(name, nil, nil)
}

// Validate checks that all nine extracts are present and non-nil.
func (s Set) Validate() error {
	for _, name := range ExtractNames {
		if t, ok := s[name]; !ok || t == nil {
			return fmt.Errorf("extract %q is missing", name)
		}
	}
	return nil
}
