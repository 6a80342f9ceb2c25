package compiler

import (
	"github.com/pjakhullar/Joy/internal/ast"
	"github.com/pjakhullar/Joy/internal/plan"
	"github.com/pjakhullar/Joy/internal/table"
)

// tryVectorizeFilter implements the §4.3.1 peephole: a predicate
// vectorizes iff it is a single binary comparison whose operands are, in
// some order, one column reference and one literal (Int64/Double/String
// only — a Bool literal forces the scalar path, as does any other shape).
func tryVectorizeFilter(expr ast.Expr) (plan.VecCondition, bool) {
	bin, ok := expr.(*ast.BinaryExpr)
	if !ok {
		return plan.VecCondition{}, false
	}
	cmp, ok := comparisonOp(bin.Op)
	if !ok {
		return plan.VecCondition{}, false
	}

	// Pattern 1: column op literal
	if col, ok := bin.Left.(*ast.ColumnRef); ok {
		if lit, ok := bin.Right.(*ast.Literal); ok {
			if litVal, ok := toLiteral(lit); ok {
				return plan.VecCondition{Column: col.Name, Op: cmp, Literal: litVal}, true
			}
		}
	}

	// Pattern 2: literal op column — mirror the operator.
	if lit, ok := bin.Left.(*ast.Literal); ok {
		if col, ok := bin.Right.(*ast.ColumnRef); ok {
			if litVal, ok := toLiteral(lit); ok {
				return plan.VecCondition{Column: col.Name, Op: mirrorCmp(cmp), Literal: litVal}, true
			}
		}
	}

	return plan.VecCondition{}, false
}

func comparisonOp(op ast.BinaryOp) (plan.CmpOp, bool) {
	switch op {
	case ast.Gt:
		return plan.CmpGt, true
	case ast.Lt:
		return plan.CmpLt, true
	case ast.Gte:
		return plan.CmpGte, true
	case ast.Lte:
		return plan.CmpLte, true
	case ast.Eq:
		return plan.CmpEq, true
	case ast.Neq:
		return plan.CmpNeq, true
	default:
		return 0, false
	}
}

// mirrorCmp maps `literal <op> column` to the operator that makes it read
// as `column <mirrored> literal`: 30 > age → age < 30, 30 < age → age > 30,
// 30 >= age → age <= 30, 30 <= age → age >= 30; Eq/Neq are symmetric.
func mirrorCmp(op plan.CmpOp) plan.CmpOp {
	switch op {
	case plan.CmpGt:
		return plan.CmpLt
	case plan.CmpLt:
		return plan.CmpGt
	case plan.CmpGte:
		return plan.CmpLte
	case plan.CmpLte:
		return plan.CmpGte
	default:
		return op // Eq, Neq unchanged
	}
}

// toLiteral extracts a plan.Literal from an ast.Literal, rejecting Bool
// (not supported for vectorized filters/transforms).
func toLiteral(lit *ast.Literal) (plan.Literal, bool) {
	switch lit.Type {
	case ast.TypeInt:
		return plan.Literal{Type: table.Int64, IntVal: lit.IntVal}, true
	case ast.TypeDouble:
		return plan.Literal{Type: table.Double, DoubleVal: lit.DoubleVal}, true
	case ast.TypeString:
		return plan.Literal{Type: table.String, StrVal: lit.StrVal}, true
	default:
		return plan.Literal{}, false
	}
}

// toOperand extracts a plan.Operand (column or literal) from a "simple"
// expression — a bare column reference or a bare literal, never a nested
// expression. Used by the arithmetic and ternary transform peepholes.
func toOperand(expr ast.Expr) (plan.Operand, bool) {
	switch node := expr.(type) {
	case *ast.ColumnRef:
		return plan.Operand{IsColumn: true, Column: node.Name}, true
	case *ast.Literal:
		lit, ok := toLiteralAllowString(node)
		if !ok {
			return plan.Operand{}, false
		}
		return plan.Operand{Literal: lit}, true
	default:
		return plan.Operand{}, false
	}
}

func toLiteralAllowString(lit *ast.Literal) (plan.Literal, bool) {
	switch lit.Type {
	case ast.TypeInt:
		return plan.Literal{Type: table.Int64, IntVal: lit.IntVal}, true
	case ast.TypeDouble:
		return plan.Literal{Type: table.Double, DoubleVal: lit.DoubleVal}, true
	case ast.TypeString:
		return plan.Literal{Type: table.String, StrVal: lit.StrVal}, true
	default:
		return plan.Literal{}, false
	}
}

func arithOpcode(op ast.BinaryOp) (plan.ArithOp, bool) {
	switch op {
	case ast.Add:
		return plan.ArithAdd, true
	case ast.Sub:
		return plan.ArithSub, true
	case ast.Mul:
		return plan.ArithMul, true
	case ast.Div:
		return plan.ArithDiv, true
	default:
		return 0, false
	}
}

// tryVectorizeArithTransform implements the arithmetic-transform peephole:
// `transform col = left ⊕ right` vectorizes when ⊕ is arithmetic and both
// operands are simple (column or numeric literal, not nested). A Double
// literal paired with a column operand is conservatively rejected — the
// column's element type isn't known until the VM resolves it, so the
// kernel can't safely decide whether to promote it to Double; the scalar
// path handles that type coercion correctly instead.
func tryVectorizeArithTransform(column string, expr ast.Expr) (*plan.VectorizedTransform, bool) {
	bin, ok := expr.(*ast.BinaryExpr)
	if !ok {
		return nil, false
	}
	op, ok := arithOpcode(bin.Op)
	if !ok {
		return nil, false
	}

	left, ok := toOperand(bin.Left)
	if !ok {
		return nil, false
	}
	right, ok := toOperand(bin.Right)
	if !ok {
		return nil, false
	}
	// Arithmetic literals must be numeric; a bare String literal forces
	// the scalar path (toOperand accepts String only for the ternary
	// peephole's branches).
	if !left.IsColumn && left.Literal.Type == table.String {
		return nil, false
	}
	if !right.IsColumn && right.Literal.Type == table.String {
		return nil, false
	}

	hasDoubleLiteral := (!left.IsColumn && left.Literal.Type == table.Double) ||
		(!right.IsColumn && right.Literal.Type == table.Double)

	if hasDoubleLiteral && (left.IsColumn || right.IsColumn) {
		return nil, false
	}

	resultType := plan.ResultInt64
	if hasDoubleLiteral {
		resultType = plan.ResultDouble
	}

	return &plan.VectorizedTransform{
		Column:     column,
		Op:         op,
		Left:       left,
		Right:      right,
		ResultType: resultType,
	}, true
}

// tryVectorizeTernaryTransform implements the ternary-transform peephole:
// `transform col = cond ? a : b` vectorizes when cond itself vectorizes as
// a filter and both branches are simple operands. maxDepth prevents
// recursing into a nested ternary inside a branch (the original caps this
// at 1: only the outermost ternary is considered).
func tryVectorizeTernaryTransform(column string, expr ast.Expr, maxDepth int) (*plan.VectorizedTernaryTransform, bool) {
	if maxDepth <= 0 {
		return nil, false
	}
	tern, ok := expr.(*ast.TernaryExpr)
	if !ok {
		return nil, false
	}

	cond, ok := tryVectorizeFilter(tern.Cond)
	if !ok {
		return nil, false
	}

	trueOperand, ok := toOperand(tern.TrueBranch)
	if !ok {
		return nil, false
	}
	falseOperand, ok := toOperand(tern.FalseBranch)
	if !ok {
		return nil, false
	}

	resultType := plan.ResultInt64
	if operandIsString(trueOperand) || operandIsString(falseOperand) {
		resultType = plan.ResultString
	} else if operandIsDouble(trueOperand) || operandIsDouble(falseOperand) {
		resultType = plan.ResultDouble
	}

	return &plan.VectorizedTernaryTransform{
		Column:      column,
		Condition:   cond,
		TrueBranch:  trueOperand,
		FalseBranch: falseOperand,
		ResultType:  resultType,
	}, true
}

func operandIsString(o plan.Operand) bool {
	return !o.IsColumn && o.Literal.Type == table.String
}

func operandIsDouble(o plan.Operand) bool {
	return !o.IsColumn && o.Literal.Type == table.Double
}
