// Package ast defines the tagged-union abstract syntax tree produced by the
// parser: expressions and statements, closed sum types rather than an open
// class hierarchy, so every consumer (compiler, vectorizer) pattern-matches
// over a fixed, enumerable set of shapes.
//
// Grounded on _examples/original_source/include/ast.hpp's variant-based
// node shapes, translated to Go's idiom of one interface with an unexported
// marker method per closed set, the way octosql's physical.Expression and
// physical.Node use a sum-of-struct-pointers + type switch instead of a
// tagged union.
package ast

// ValueType tags the element type of a Literal.
type ValueType int

const (
	TypeInt ValueType = iota
	TypeDouble
	TypeString
	TypeBool
)

// BinaryOp is the operator of a BinaryExpr.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Eq
	Neq
	Lt
	Gt
	Lte
	Gte
)

// UnaryOp is the operator of a UnaryExpr.
type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
)

// Expr is the closed set of expression shapes: Literal, ColumnRef,
// BinaryExpr, UnaryExpr, TernaryExpr (the supplemental conditional form).
type Expr interface {
	exprNode()
}

// Literal is a constant value carrying its own type tag. Exactly one of
// IntVal/DoubleVal/StrVal/BoolVal is meaningful, selected by Type.
type Literal struct {
	Type      ValueType
	IntVal    int64
	DoubleVal float64
	StrVal    string
	BoolVal   bool
}

func (*Literal) exprNode() {}

// ColumnRef names a column to be resolved at evaluation time; Joy performs
// no compile-time schema checking, so the name is carried verbatim.
type ColumnRef struct {
	Name string
}

func (*ColumnRef) exprNode() {}

// BinaryExpr is op applied to Left and Right, in that order.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr is op applied to Operand.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// TernaryExpr is the supplemental `cond ? trueBranch : falseBranch` form,
// restored from the original implementation's TernaryExpr (ast.hpp /
// compiler.cpp), which spec.md's distillation dropped.
type TernaryExpr struct {
	Cond        Expr
	TrueBranch  Expr
	FalseBranch Expr
}

func (*TernaryExpr) exprNode() {}

// Stmt is the closed set of statement shapes: From, Filter, Select, Write,
// and the supplemental Transform.
type Stmt interface {
	stmtNode()
}

// From is the mandatory first statement: `from "path"`.
type From struct {
	Path string
}

func (*From) stmtNode() {}

// Filter is `filter expr`.
type Filter struct {
	Condition Expr
}

func (*Filter) stmtNode() {}

// Select is `select name, name, ...`.
type Select struct {
	Columns []string
}

func (*Select) stmtNode() {}

// Write is `write "path"`.
type Write struct {
	Path string
}

func (*Write) stmtNode() {}

// Transform is the supplemental `transform name = expr` statement: assigns
// the evaluated expression to a column (replacing it if it exists, else
// appending it). Restored from original_source's TransformStmt.
type Transform struct {
	Column     string
	Expression Expr
}

func (*Transform) stmtNode() {}

// Program is an ordered sequence of statements; the first must be *From.
type Program struct {
	Statements []Stmt
}
