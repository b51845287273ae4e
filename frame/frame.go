package frame

import (
	"fmt"
	"strings"
)

// Value is a single cell: a string, an int64, or nil for a missing value.
type Value = any

// Column is a named, ordered sequence of cells.
type Column struct {
	Name   string
	Values []Value
}

// Frame is an in-memory table of named, row-aligned columns. Row i of every
// column belongs to the same logical record, so all columns have equal length.
type Frame struct {
	cols []Column
}

// New creates an empty frame with the given column names.
func New(names ...string) *Frame {
	f := &Frame{cols: make([]Column, len(names))}
	for i, n := range names {
		f.cols[i] = Column{Name: n}
	}
	return f
}

// AppendRow adds one row to the frame. The number of cells must match the
// number of columns.
func (f *Frame) AppendRow(cells ...Value) error {
	if len(cells) != len(f.cols) {
		return fmt.Errorf("append row: got %d cells, frame has %d columns", len(cells), len(f.cols))
	}
	for i := range f.cols {
		f.cols[i].Values = append(f.cols[i].Values, cells[i])
	}
	return nil
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0].Values)
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether a column with the given name exists.
func (f *Frame) HasColumn(name string) bool {
	for _, c := range f.cols {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Column returns the cells of the named column.
func (f *Frame) Column(name string) ([]Value, bool) {
	for _, c := range f.cols {
		if c.Name == name {
			return c.Values, true
		}
	}
	return nil, false
}

// Rename renames columns in place using oldName -> newName mapping. Names not
// present in the mapping are left untouched.
func (f *Frame) Rename(mapping map[string]string) {
	for i, c := range f.cols {
		if newName, ok := mapping[c.Name]; ok {
			f.cols[i].Name = newName
		}
	}
}

// Select returns a new frame holding the named columns in the given order.
// The column cells are shared with the receiver, not copied.
func (f *Frame) Select(names ...string) (*Frame, error) {
	out := &Frame{cols: make([]Column, 0, len(names))}
	for _, n := range names {
		vals, ok := f.Column(n)
		if !ok {
			return nil, fmt.Errorf("select: no column %q", n)
		}
		out.cols = append(out.cols, Column{Name: n, Values: vals})
	}
	return out, nil
}

// EnsureColumns adds an all-null column for every given name that the frame
// does not already have.
func (f *Frame) EnsureColumns(names ...string) {
	n := f.Len()
	for _, name := range names {
		if f.HasColumn(name) {
			continue
		}
		f.cols = append(f.cols, Column{Name: name, Values: make([]Value, n)})
	}
}

// DistinctRows projects the frame onto the named columns and drops duplicate
// rows, keeping the first occurrence of each distinct combination in input
// order.
func (f *Frame) DistinctRows(names ...string) (*Frame, error) {
	proj, err := f.Select(names...)
	if err != nil {
		return nil, err
	}
	out := New(names...)
	seen := make(map[string]bool)
	for i := 0; i < proj.Len(); i++ {
		row := proj.row(i)
		key := rowKey(row)
		if seen[key] {
			continue
		}
		seen[key] = true
		if err := out.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Rows returns the cells of the named columns as row slices, in row order.
// Used to feed bulk inserts.
func (f *Frame) Rows(names ...string) ([][]any, error) {
	proj, err := f.Select(names...)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, proj.Len())
	for i := range rows {
		rows[i] = proj.row(i)
	}
	return rows, nil
}

func (f *Frame) row(i int) []Value {
	row := make([]Value, len(f.cols))
	for j, c := range f.cols {
		row[j] = c.Values[i]
	}
	return row
}

// rowKey builds an equality key for a row. The type tag keeps int64(1) and
// "1" distinct.
func rowKey(row []Value) string {
	var b strings.Builder
	for _, v := range row {
		fmt.Fprintf(&b, "%T:%v\x00", v, v)
	}
	return b.String()
}
