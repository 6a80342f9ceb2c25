package plan

// Node is one physical operator; the closed set below mirrors §3's
// "Physical plan — operators" tagged variant, plus the three supplemental
// transform operators from SPEC_FULL.md §2.
type Node interface {
	planNode()
}

// Scan reads the table at Path via the CSV collaborator.
type Scan struct {
	Path string
}

func (*Scan) planNode() {}

// Filter is the scalar fallback: Predicate runs once per row.
type Filter struct {
	Predicate Bytecode
}

func (*Filter) planNode() {}

// VecCondition is a vectorizable comparison shape: `Column <op> Literal`,
// already normalized so Column is always the column side (the compiler
// mirrors the operator when the source wrote `literal <op> column`).
type VecCondition struct {
	Column  string
	Op      CmpOp
	Literal Literal
}

// VectorizedFilter is the peephole-rewritten form of Filter for a single
// `column ⊕ literal` / `literal ⊕ column` comparison.
type VectorizedFilter struct {
	Condition VecCondition
}

func (*VectorizedFilter) planNode() {}

// Project rebuilds the table with exactly the named columns, in order.
type Project struct {
	Columns []string
}

func (*Project) planNode() {}

// Write hands the table to the CSV collaborator.
type Write struct {
	Path string
}

func (*Write) planNode() {}

// Transform is the scalar fallback for `transform col = expr`: the
// bytecode runs once per row and the result replaces (or appends) Column.
type Transform struct {
	Column     string
	Expression Bytecode
}

func (*Transform) planNode() {}

// Operand is either a bare column reference or a literal, the two simple
// shapes a vectorized transform's operands are restricted to.
type Operand struct {
	IsColumn bool
	Column   string
	Literal  Literal
}

// VectorizedTransform is the peephole-rewritten form of Transform for a
// simple arithmetic expression over two simple operands.
type VectorizedTransform struct {
	Column     string
	Op         ArithOp
	Left       Operand
	Right      Operand
	ResultType ResultType
}

func (*VectorizedTransform) planNode() {}

// VectorizedTernaryTransform is the peephole-rewritten form of Transform
// for `transform col = cond ? a : b` where cond vectorizes and both
// branches are simple operands.
type VectorizedTernaryTransform struct {
	Column      string
	Condition   VecCondition
	TrueBranch  Operand
	FalseBranch Operand
	ResultType  ResultType
}

func (*VectorizedTernaryTransform) planNode() {}

// ResultType names the element type a vectorized transform's output
// column gets, inferred at compile time from its operands' literal types
// (a bare column operand's runtime type isn't known until the VM resolves
// it, so ResultType only reflects what the literals force; the VM is
// still responsible for checking a column operand's actual type agrees).
type ResultType int

const (
	ResultInt64 ResultType = iota
	ResultDouble
	ResultString
)

// ExecutionPlan is an ordered operator sequence.
type ExecutionPlan struct {
	Operators []Node
}
