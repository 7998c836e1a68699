// Package frame provides the immutable column table threaded through a
// pipeline run.
//
// A Frame is an ordered set of uniquely named, equal-length columns plus a
// row index of integer labels. Cells hold nil, bool, int64, float64 or
// string; other Go integer and float types are normalised on the way in.
// Every operation returns a new Frame, so a frame handed to a data source or
// feature builder can never be changed behind the caller's back.
package frame

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// Column is a named slice of cell values used to construct a Frame.
type Column struct {
	Name   string
	Values []any
}

// Frame is an immutable table.
type Frame struct {
	names []string
	cols  map[string][]any
	index []int
}

// New builds a Frame with the default index 0..n-1.
func New(columns ...Column) (*Frame, error) {
	return NewWithIndex(nil, columns...)
}

// NewWithIndex builds a Frame whose rows carry the given index labels.
// A nil index means 0..n-1.
func NewWithIndex(index []int, columns ...Column) (*Frame, error) {
	n := -1
	if index != nil {
		n = len(index)
	}
	f := &Frame{
		names: make([]string, 0, len(columns)),
		cols:  make(map[string][]any, len(columns)),
	}
	for _, c := range columns {
		if c.Name == "" {
			return nil, errors.NewValidationError("column", "column name must not be empty", c.Name)
		}
		if _, dup := f.cols[c.Name]; dup {
			return nil, errors.NewValidationError("column", "duplicate column name", c.Name)
		}
		if n == -1 {
			n = len(c.Values)
		}
		if len(c.Values) != n {
			return nil, errors.NewDimensionError("frame.New("+c.Name+")", n, len(c.Values), 0)
		}
		values := make([]any, len(c.Values))
		for i, v := range c.Values {
			nv, err := Normalize(v)
			if err != nil {
				return nil, errors.Wrapf(err, "column %s row %d", c.Name, i)
			}
			values[i] = nv
		}
		f.names = append(f.names, c.Name)
		f.cols[c.Name] = values
	}
	if n == -1 {
		n = 0
	}
	if index == nil {
		f.index = rangeIndex(n)
	} else {
		f.index = append([]int(nil), index...)
	}
	return f, nil
}

// FromRows builds a Frame from row-major data.
func FromRows(columns []string, rows [][]any) (*Frame, error) {
	cols := make([]Column, len(columns))
	for j, name := range columns {
		cols[j] = Column{Name: name, Values: make([]any, len(rows))}
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.NewDimensionError(fmt.Sprintf("frame.FromRows(row %d)", i), len(columns), len(row), 1)
		}
		for j := range columns {
			cols[j].Values[i] = row[j]
		}
	}
	return NewWithIndex(rangeIndex(len(rows)), cols...)
}

// newTrusted builds a frame from already-normalised columns without copying.
func newTrusted(names []string, cols map[string][]any, index []int) *Frame {
	return &Frame{names: names, cols: cols, index: index}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.index)
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.names...)
}

// Has reports whether the frame has a column called name.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Missing returns the names, in the given order, that are not columns of f.
func (f *Frame) Missing(names ...string) []string {
	var out []string
	for _, n := range names {
		if !f.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// Index returns the row labels.
func (f *Frame) Index() []int {
	return append([]int(nil), f.index...)
}

// Values returns a copy of the named column.
func (f *Frame) Values(name string) ([]any, bool) {
	col, ok := f.cols[name]
	if !ok {
		return nil, false
	}
	return append([]any(nil), col...), true
}

// At returns the cell at row position i of the named column, or nil if the
// column does not exist.
func (f *Frame) At(i int, name string) any {
	col, ok := f.cols[name]
	if !ok {
		return nil
	}
	return col[i]
}

// Row returns row position i as a column→value map.
func (f *Frame) Row(i int) map[string]any {
	row := make(map[string]any, len(f.names))
	for _, n := range f.names {
		row[n] = f.cols[n][i]
	}
	return row
}

// Series returns the named column aligned to the frame's index.
func (f *Frame) Series(name string) (*Series, error) {
	col, ok := f.cols[name]
	if !ok {
		return nil, errors.NewValidationError("column", "no such column", name)
	}
	return newSeriesTrusted(name, append([]any(nil), col...), f.Index()), nil
}

// WithColumn returns a frame with the column added at the end, or replaced in
// place when it already exists.
func (f *Frame) WithColumn(name string, values []any) (*Frame, error) {
	if name == "" {
		return nil, errors.NewValidationError("column", "column name must not be empty", name)
	}
	if len(values) != f.Len() {
		return nil, errors.NewDimensionError("frame.WithColumn("+name+")", f.Len(), len(values), 0)
	}
	normalized := make([]any, len(values))
	for i, v := range values {
		nv, err := Normalize(v)
		if err != nil {
			return nil, errors.Wrapf(err, "column %s row %d", name, i)
		}
		normalized[i] = nv
	}
	names := f.Columns()
	if !f.Has(name) {
		names = append(names, name)
	}
	cols := f.shallowCols()
	cols[name] = normalized
	return newTrusted(names, cols, f.Index()), nil
}

// Drop returns a frame without the named columns. Unknown names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	keep := make([]string, 0, len(f.names))
	cols := make(map[string][]any, len(f.names))
	for _, n := range f.names {
		if drop[n] {
			continue
		}
		keep = append(keep, n)
		cols[n] = f.cols[n]
	}
	return newTrusted(keep, cols, f.Index())
}

// Select returns a frame with only the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	if missing := f.Missing(names...); len(missing) > 0 {
		return nil, errors.NewValidationError("columns", "no such columns", missing)
	}
	cols := make(map[string][]any, len(names))
	for _, n := range names {
		if _, dup := cols[n]; dup {
			return nil, errors.NewValidationError("columns", "duplicate column name", n)
		}
		cols[n] = f.cols[n]
	}
	return newTrusted(append([]string(nil), names...), cols, f.Index()), nil
}

// Rename returns a frame with columns renamed by mapping. Renaming onto a
// name that already exists (and is not itself renamed away) is an error.
func (f *Frame) Rename(mapping map[string]string) (*Frame, error) {
	names := make([]string, len(f.names))
	cols := make(map[string][]any, len(f.names))
	for i, n := range f.names {
		target := n
		if to, ok := mapping[n]; ok {
			target = to
		}
		if _, dup := cols[target]; dup {
			return nil, errors.NewValidationError("rename", "renaming produces a duplicate column", target)
		}
		names[i] = target
		cols[target] = f.cols[n]
	}
	return newTrusted(names, cols, f.Index()), nil
}

// Take returns the rows at the given positions, keeping their index labels.
func (f *Frame) Take(positions []int) (*Frame, error) {
	for _, p := range positions {
		if p < 0 || p >= f.Len() {
			return nil, errors.NewValidationError("position", "row position out of range", p)
		}
	}
	cols := make(map[string][]any, len(f.names))
	for _, n := range f.names {
		src := f.cols[n]
		dst := make([]any, len(positions))
		for i, p := range positions {
			dst[i] = src[p]
		}
		cols[n] = dst
	}
	index := make([]int, len(positions))
	for i, p := range positions {
		index[i] = f.index[p]
	}
	return newTrusted(f.Columns(), cols, index), nil
}

// Equal reports whether both frames have the same columns in the same order,
// the same index and equal cells.
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	if len(f.names) != len(other.names) || !equalInts(f.index, other.index) {
		return false
	}
	for i, n := range f.names {
		if other.names[i] != n {
			return false
		}
		if !equalCells(f.cols[n], other.cols[n]) {
			return false
		}
	}
	return true
}

// String renders the frame as a small text table.
func (f *Frame) String() string {
	var b strings.Builder
	b.WriteString("index")
	for _, n := range f.names {
		b.WriteString("\t" + n)
	}
	b.WriteByte('\n')
	for i, label := range f.index {
		fmt.Fprintf(&b, "%d", label)
		for _, n := range f.names {
			fmt.Fprintf(&b, "\t%v", f.cols[n][i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (f *Frame) shallowCols() map[string][]any {
	cols := make(map[string][]any, len(f.cols)+1)
	for k, v := range f.cols {
		cols[k] = v
	}
	return cols
}

func rangeIndex(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalCells(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !cellEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
