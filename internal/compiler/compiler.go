// Package compiler lowers an ast.Program to a plan.ExecutionPlan: one
// physical operator per statement, with scalar expressions lowered to
// plan.Bytecode. Filter and Transform each attempt the vectorization
// peephole (vectorize.go) before falling back to their scalar form.
//
// Grounded on _examples/original_source/src/compiler.cpp's compile/
// compile_stmt/compile_expr, translated from std::visit pattern matching
// to a Go type switch the way octosql's physical package dispatches on
// its own Node/Expression variants.
package compiler

import (
	"github.com/pjakhullar/Joy/internal/ast"
	"github.com/pjakhullar/Joy/internal/joyerrors"
	"github.com/pjakhullar/Joy/internal/plan"
)

// Compile lowers a full program into an execution plan, one operator per
// statement in source order.
func Compile(program *ast.Program) (*plan.ExecutionPlan, error) {
	ops := make([]plan.Node, 0, len(program.Statements))
	for _, stmt := range program.Statements {
		op, err := compileStmt(stmt)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return &plan.ExecutionPlan{Operators: ops}, nil
}

func compileStmt(stmt ast.Stmt) (plan.Node, error) {
	switch node := stmt.(type) {
	case *ast.From:
		return &plan.Scan{Path: node.Path}, nil

	case *ast.Filter:
		if vec, ok := tryVectorizeFilter(node.Condition); ok {
			return &plan.VectorizedFilter{Condition: vec}, nil
		}
		bc, err := compileExpr(node.Condition)
		if err != nil {
			return nil, err
		}
		return &plan.Filter{Predicate: bc}, nil

	case *ast.Select:
		return &plan.Project{Columns: node.Columns}, nil

	case *ast.Transform:
		if vec, ok := tryVectorizeTernaryTransform(node.Column, node.Expression, 1); ok {
			return vec, nil
		}
		if vec, ok := tryVectorizeArithTransform(node.Column, node.Expression); ok {
			return vec, nil
		}
		bc, err := compileExpr(node.Expression)
		if err != nil {
			return nil, err
		}
		return &plan.Transform{Column: node.Column, Expression: bc}, nil

	case *ast.Write:
		return &plan.Write{Path: node.Path}, nil

	default:
		return nil, joyerrors.Compile("unrecognized statement", nil)
	}
}

// compileExpr walks the AST and emits postfix bytecode: left, right,
// operator for a binary node (operand, operator for unary; condition,
// true branch, false branch, TERNARY for the supplemental ternary).
func compileExpr(expr ast.Expr) (plan.Bytecode, error) {
	switch node := expr.(type) {
	case *ast.Literal:
		return compileLiteral(node), nil

	case *ast.ColumnRef:
		return plan.Bytecode{{Op: plan.LoadColumn, Column: node.Name}}, nil

	case *ast.BinaryExpr:
		left, err := compileExpr(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := compileExpr(node.Right)
		if err != nil {
			return nil, err
		}
		op, err := binaryOpcode(node.Op)
		if err != nil {
			return nil, err
		}
		bc := append(append(plan.Bytecode{}, left...), right...)
		return append(bc, plan.Instruction{Op: op}), nil

	case *ast.UnaryExpr:
		operand, err := compileExpr(node.Operand)
		if err != nil {
			return nil, err
		}
		op := plan.Neg
		if node.Op == ast.Not {
			op = plan.Not
		}
		return append(append(plan.Bytecode{}, operand...), plan.Instruction{Op: op}), nil

	case *ast.TernaryExpr:
		cond, err := compileExpr(node.Cond)
		if err != nil {
			return nil, err
		}
		trueBranch, err := compileExpr(node.TrueBranch)
		if err != nil {
			return nil, err
		}
		falseBranch, err := compileExpr(node.FalseBranch)
		if err != nil {
			return nil, err
		}
		bc := append(append(plan.Bytecode{}, cond...), trueBranch...)
		bc = append(bc, falseBranch...)
		return append(bc, plan.Instruction{Op: plan.Ternary}), nil

	default:
		return nil, joyerrors.Compile("unrecognized expression", nil)
	}
}

func compileLiteral(lit *ast.Literal) plan.Bytecode {
	switch lit.Type {
	case ast.TypeInt:
		return plan.Bytecode{{Op: plan.PushInt, IntVal: lit.IntVal}}
	case ast.TypeDouble:
		return plan.Bytecode{{Op: plan.PushDouble, DoubleVal: lit.DoubleVal}}
	case ast.TypeString:
		return plan.Bytecode{{Op: plan.PushString, StrVal: lit.StrVal}}
	default:
		return plan.Bytecode{{Op: plan.PushBool, BoolVal: lit.BoolVal}}
	}
}

func binaryOpcode(op ast.BinaryOp) (plan.Op, error) {
	switch op {
	case ast.Add:
		return plan.Add, nil
	case ast.Sub:
		return plan.Sub, nil
	case ast.Mul:
		return plan.Mul, nil
	case ast.Div:
		return plan.Div, nil
	case ast.Eq:
		return plan.Eq, nil
	case ast.Neq:
		return plan.Neq, nil
	case ast.Lt:
		return plan.Lt, nil
	case ast.Gt:
		return plan.Gt, nil
	case ast.Lte:
		return plan.Lte, nil
	case ast.Gte:
		return plan.Gte, nil
	default:
		return 0, joyerrors.Compile("unrecognized binary operator", nil)
	}
}
