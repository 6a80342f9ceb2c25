// Package vm executes a plan.ExecutionPlan against a columnar table: the
// stack-machine interpreter for scalar bytecode, the vectorized kernels
// dispatched by column element type, and the operator loop that threads a
// single current table through the pipeline.
//
// Grounded on execution/nodes/filter.go and execution/nodes/map.go's
// operator-consumes-table style, and on
// _examples/original_source/src/vm.cpp (the authoritative, NULL-aware
// revision) + vectorized_ops.cpp for exact interpreter/kernel semantics.
package vm

import "github.com/pjakhullar/Joy/internal/table"

// valueKind tags a runtime Value.
type valueKind int

const (
	kindNull valueKind = iota
	kindInt
	kindDouble
	kindString
	kindBool
)

// value is the tagged-union runtime value used only on the interpreter
// stack, mirroring octosql.Value's "one struct, one populated field per
// tag" layout.
type value struct {
	kind valueKind
	i    int64
	d    float64
	s    string
	b    bool
}

func nullValue() value            { return value{kind: kindNull} }
func intValue(v int64) value      { return value{kind: kindInt, i: v} }
func doubleValue(v float64) value { return value{kind: kindDouble, d: v} }
func stringValue(v string) value  { return value{kind: kindString, s: v} }
func boolValue(v bool) value      { return value{kind: kindBool, b: v} }

func (v value) isNull() bool   { return v.kind == kindNull }
func (v value) isInt() bool    { return v.kind == kindInt }
func (v value) isDouble() bool { return v.kind == kindDouble }
func (v value) isString() bool { return v.kind == kindString }
func (v value) isBool() bool   { return v.kind == kindBool }
func (v value) isNumeric() bool {
	return v.kind == kindInt || v.kind == kindDouble
}

func (v value) asDouble() float64 {
	if v.kind == kindDouble {
		return v.d
	}
	return float64(v.i)
}

// columnValueAt loads the (possibly-NULL) cell at row from col as a
// runtime value, the shared primitive LOAD_COLUMN and the vectorized
// arithmetic kernels both use.
func columnValueAt(col *table.Column, row int) value {
	if col.IsNull(row) {
		return nullValue()
	}
	switch col.Type {
	case table.Int64:
		return intValue(col.Ints[row])
	case table.Double:
		return doubleValue(col.Floats[row])
	case table.String:
		return stringValue(col.Strs[row])
	default:
		return boolValue(col.Bools[row])
	}
}
