// Package table implements the columnar, NULL-aware in-memory table model:
// named typed columns of nullable values, with lookup and projection.
//
// Grounded on octosql/values.go's tagged-union Value (a single struct with
// one field populated per type tag) and on the original implementation's
// table.hpp/table.cpp, generalized here to carry a null mask per column
// rather than leaving nullability unrepresented.
package table

import "fmt"

// ElementType is the tag of a Column's element type.
type ElementType int

const (
	Int64 ElementType = iota
	Double
	String
	Bool
)

func (t ElementType) String() string {
	switch t {
	case Int64:
		return "Int64"
	case Double:
		return "Double"
	case String:
		return "String"
	case Bool:
		return "Bool"
	default:
		return "Unknown"
	}
}

// Column is a name, an element type, and a parallel pair of slices: the
// typed values (read only where Nulls[i] is false) and a null mask, both of
// length equal to the table's row count.
//
// Exactly one of the typed slices below is non-nil/used, selected by Type,
// mirroring the teacher's tagged-union Value (one populated field per tag)
// at the column granularity instead of the per-cell granularity.
type Column struct {
	Name   string
	Type   ElementType
	Nulls  []bool
	Ints   []int64
	Floats []float64
	Strs   []string
	Bools  []bool
}

// Len reports the column's length, which must equal the owning table's
// row count.
func (c *Column) Len() int {
	return len(c.Nulls)
}

// IsNull reports whether the cell at row is NULL.
func (c *Column) IsNull(row int) bool {
	return c.Nulls[row]
}

// NewColumn builds an empty column of the given type, ready to be appended
// to via AppendInt/AppendDouble/AppendString/AppendBool/AppendNull.
func NewColumn(name string, t ElementType) *Column {
	return &Column{Name: name, Type: t}
}

func (c *Column) AppendNull() {
	c.Nulls = append(c.Nulls, true)
	switch c.Type {
	case Int64:
		c.Ints = append(c.Ints, 0)
	case Double:
		c.Floats = append(c.Floats, 0)
	case String:
		c.Strs = append(c.Strs, "")
	case Bool:
		c.Bools = append(c.Bools, false)
	}
}

func (c *Column) AppendInt(v int64) {
	c.Nulls = append(c.Nulls, false)
	c.Ints = append(c.Ints, v)
}

func (c *Column) AppendDouble(v float64) {
	c.Nulls = append(c.Nulls, false)
	c.Floats = append(c.Floats, v)
}

func (c *Column) AppendString(v string) {
	c.Nulls = append(c.Nulls, false)
	c.Strs = append(c.Strs, v)
}

func (c *Column) AppendBool(v bool) {
	c.Nulls = append(c.Nulls, false)
	c.Bools = append(c.Bools, v)
}

// AppendFrom copies row idx of src onto the end of c. Both columns must
// share an element type; callers (the VM's filters and its vectorized
// ternary transform) guarantee this.
func (c *Column) AppendFrom(src *Column, idx int) {
	if src.Nulls[idx] {
		c.AppendNull()
		return
	}
	switch c.Type {
	case Int64:
		c.AppendInt(src.Ints[idx])
	case Double:
		c.AppendDouble(src.Floats[idx])
	case String:
		c.AppendString(src.Strs[idx])
	case Bool:
		c.AppendBool(src.Bools[idx])
	}
}

// Clone returns a new, empty column with the same name and type, used when
// building a result table with the same schema as its source.
func (c *Column) Clone() *Column {
	return NewColumn(c.Name, c.Type)
}

// Table is an ordered sequence of columns sharing a row count.
type Table struct {
	Columns []*Column
	NumRows int
}

// New builds a table over the given columns (which must already share
// NumRows as their length).
func New(cols []*Column, numRows int) *Table {
	return &Table{Columns: cols, NumRows: numRows}
}

// Column looks up a column by name; first match wins on a name collision
// (the table invariant says names are unique, but lookup tolerates input
// that violates it rather than panicking).
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Project rebuilds the table with only the named columns, in the given
// order. A missing name is a caller error (surfaced by the VM as a
// RuntimeError); Project itself just reports it.
func (t *Table) Project(names []string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("column not found: %s", name)
		}
		cols = append(cols, c)
	}
	return New(cols, t.NumRows), nil
}

// EmptyLike builds a zero-row table with the same column schema
// (names, types, order) as t, ready to be appended into row by row.
func (t *Table) EmptyLike() *Table {
	cols := make([]*Column, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = c.Clone()
	}
	return New(cols, 0)
}
