package vm

import (
	"github.com/pjakhullar/Joy/internal/joyerrors"
	"github.com/pjakhullar/Joy/internal/plan"
	"github.com/pjakhullar/Joy/internal/table"
)

// selection is a boolean array of table-row length indicating which rows
// a vectorized filter (or ternary condition) kept.
type selection []bool

// vectorizedCompare runs the kernel for (column element type, comparison
// op) over the full column, producing a selection vector. Grounded on
// vm.cpp's execute_vectorized_filter dispatch and vectorized_ops.cpp's
// vec_*_{int64,double,string} kernels: each entry is false when the cell
// is NULL, else the comparison result; numeric promotion happens
// element-wise when an Int64 column is compared against a Double literal.
func vectorizedCompare(col *table.Column, cond plan.VecCondition) (selection, error) {
	sel := make(selection, col.Len())

	switch col.Type {
	case table.Int64:
		switch cond.Literal.Type {
		case table.Int64:
			lit := cond.Literal.IntVal
			for i := range col.Ints {
				if col.Nulls[i] {
					continue
				}
				sel[i] = compareInts(cmpToOp(cond.Op), col.Ints[i], lit)
			}
		case table.Double:
			lit := cond.Literal.DoubleVal
			for i := range col.Ints {
				if col.Nulls[i] {
					continue
				}
				sel[i] = compareDoubles(cmpToOp(cond.Op), float64(col.Ints[i]), lit)
			}
		default:
			return nil, joyerrors.Runtime("type mismatch: INT64 column requires numeric value", nil)
		}

	case table.Double:
		var lit float64
		switch cond.Literal.Type {
		case table.Double:
			lit = cond.Literal.DoubleVal
		case table.Int64:
			lit = float64(cond.Literal.IntVal)
		default:
			return nil, joyerrors.Runtime("type mismatch: DOUBLE column requires numeric value", nil)
		}
		for i := range col.Floats {
			if col.Nulls[i] {
				continue
			}
			sel[i] = compareDoubles(cmpToOp(cond.Op), col.Floats[i], lit)
		}

	case table.String:
		if cond.Literal.Type != table.String {
			return nil, joyerrors.Runtime("type mismatch: column is STRING but value is not", nil)
		}
		lit := cond.Literal.StrVal
		for i := range col.Strs {
			if col.Nulls[i] {
				continue
			}
			sel[i] = compareStrings(cmpToOp(cond.Op), col.Strs[i], lit)
		}

	default:
		return nil, joyerrors.Runtime("unsupported column type for vectorized filter", nil)
	}

	return sel, nil
}

func cmpToOp(c plan.CmpOp) plan.Op {
	switch c {
	case plan.CmpEq:
		return plan.Eq
	case plan.CmpNeq:
		return plan.Neq
	case plan.CmpLt:
		return plan.Lt
	case plan.CmpGt:
		return plan.Gt
	case plan.CmpLte:
		return plan.Lte
	default:
		return plan.Gte
	}
}

// vecArith applies op element-wise to two equal-length columns of the
// given result type (both already known to be numeric and type-compatible
// by the caller), propagating NULL from either operand.
func vecArith(op plan.ArithOp, left, right *table.Column, resultType table.ElementType) (*table.Column, error) {
	n := left.Len()
	result := table.NewColumn("", resultType)
	for i := 0; i < n; i++ {
		lv := columnValueAt(left, i)
		rv := columnValueAt(right, i)
		if lv.isNull() || rv.isNull() {
			result.AppendNull()
			continue
		}
		if err := appendArithResult(result, op, lv, rv); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// vecArithColumnScalar applies op between a column and a scalar literal
// (column on the left), and vecArithScalarColumn the mirror.
func vecArithColumnScalar(op plan.ArithOp, col *table.Column, scalar value, resultType table.ElementType) (*table.Column, error) {
	n := col.Len()
	result := table.NewColumn("", resultType)
	for i := 0; i < n; i++ {
		lv := columnValueAt(col, i)
		if lv.isNull() {
			result.AppendNull()
			continue
		}
		if err := appendArithResult(result, op, lv, scalar); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func vecArithScalarColumn(op plan.ArithOp, scalar value, col *table.Column, resultType table.ElementType) (*table.Column, error) {
	n := col.Len()
	result := table.NewColumn("", resultType)
	for i := 0; i < n; i++ {
		rv := columnValueAt(col, i)
		if rv.isNull() {
			result.AppendNull()
			continue
		}
		if err := appendArithResult(result, op, scalar, rv); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// appendArithResult computes a op b (both already verified non-NULL) and
// appends it to result, whose element type determines whether the integer
// or promoted-double kernel runs. Division by zero in a vectorized
// transform yields NULL rather than a RuntimeError — a deliberate
// divergence from scalar Filter/Transform bytecode's hard division-by-zero
// error, documented in SPEC_FULL.md §2.4 and following the vectorized
// convention this peephole is itself grounded on.
func appendArithResult(result *table.Column, op plan.ArithOp, a, b value) error {
	if result.Type == table.Int64 {
		x, y := a.i, b.i
		switch op {
		case plan.ArithAdd:
			result.AppendInt(x + y)
		case plan.ArithSub:
			result.AppendInt(x - y)
		case plan.ArithMul:
			result.AppendInt(x * y)
		case plan.ArithDiv:
			if y == 0 {
				result.AppendNull()
				return nil
			}
			result.AppendInt(x / y)
		}
		return nil
	}

	x, y := a.asDouble(), b.asDouble()
	switch op {
	case plan.ArithAdd:
		result.AppendDouble(x + y)
	case plan.ArithSub:
		result.AppendDouble(x - y)
	case plan.ArithMul:
		result.AppendDouble(x * y)
	case plan.ArithDiv:
		if y == 0 {
			result.AppendNull()
			return nil
		}
		result.AppendDouble(x / y)
	}
	return nil
}

// vecSelect blends trueCol/falseCol row by row according to sel,
// preserving NULL from whichever branch is selected.
func vecSelect(sel selection, trueCol, falseCol *table.Column, resultType table.ElementType) *table.Column {
	result := table.NewColumn("", resultType)
	for i := range sel {
		if sel[i] {
			result.AppendFrom(trueCol, i)
		} else {
			result.AppendFrom(falseCol, i)
		}
	}
	return result
}

// constColumn builds a column of numRows copies of a scalar literal, used
// to materialize a VectorizedTernaryTransform branch that is a literal
// rather than a column reference.
func constColumn(lit plan.Literal, resultType table.ElementType, numRows int) *table.Column {
	col := table.NewColumn("", resultType)
	for i := 0; i < numRows; i++ {
		switch resultType {
		case table.Int64:
			col.AppendInt(literalAsInt(lit))
		case table.Double:
			col.AppendDouble(literalAsDouble(lit))
		default:
			col.AppendString(lit.StrVal)
		}
	}
	return col
}

func literalAsInt(lit plan.Literal) int64 {
	if lit.Type == table.Double {
		return int64(lit.DoubleVal)
	}
	return lit.IntVal
}

func literalAsDouble(lit plan.Literal) float64 {
	if lit.Type == table.Double {
		return lit.DoubleVal
	}
	return float64(lit.IntVal)
}
