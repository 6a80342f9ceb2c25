package vm

import (
	"github.com/pjakhullar/Joy/internal/joyerrors"
	"github.com/pjakhullar/Joy/internal/plan"
	"github.com/pjakhullar/Joy/internal/table"
)

// Reader and Writer are the CSV collaborator's two operations (§6.3),
// implemented by internal/csvio. The VM depends only on this narrow
// interface so it never needs to know about file formats.
type Reader interface {
	Read(path string) (*table.Table, error)
}

type Writer interface {
	Write(path string, t *table.Table) error
}

// VM holds exactly one mutable current table and dispatches each operator
// in the plan against it in order.
type VM struct {
	table  *table.Table
	stack  stack
	reader Reader
	writer Writer
}

// New returns a VM that reads/writes CSV files through reader/writer.
func New(reader Reader, writer Writer) *VM {
	return &VM{reader: reader, writer: writer}
}

// Table returns the VM's current table, mainly for tests and the CLI's
// --preview flag.
func (vm *VM) Table() *table.Table {
	return vm.table
}

// Execute runs every operator in p in order against the VM's current
// table, which starts out empty (only Scan is valid in that state).
func (vm *VM) Execute(p *plan.ExecutionPlan) error {
	for _, op := range p.Operators {
		if err := vm.execOp(op); err != nil {
			return err
		}
	}
	return nil
}

// execOp dispatches one operator. Every operator but Scan requires a
// current table (§4.4's state machine): Scan is the only transition out of
// the initial empty state, so anything else arriving there is a RuntimeError
// rather than a nil-pointer panic.
func (vm *VM) execOp(op plan.Node) error {
	if vm.table == nil {
		if _, ok := op.(*plan.Scan); !ok {
			return joyerrors.Runtime("no table loaded: program must start with a scan", nil)
		}
	}

	switch node := op.(type) {
	case *plan.Scan:
		return vm.execScan(node)
	case *plan.Filter:
		return vm.execFilter(node)
	case *plan.VectorizedFilter:
		return vm.execVectorizedFilter(node)
	case *plan.Project:
		return vm.execProject(node)
	case *plan.Transform:
		return vm.execTransform(node)
	case *plan.VectorizedTransform:
		return vm.execVectorizedTransform(node)
	case *plan.VectorizedTernaryTransform:
		return vm.execVectorizedTernaryTransform(node)
	case *plan.Write:
		return vm.execWrite(node)
	default:
		return joyerrors.Runtime("unrecognized physical operator", nil)
	}
}

func (vm *VM) execScan(op *plan.Scan) error {
	t, err := vm.reader.Read(op.Path)
	if err != nil {
		return err
	}
	vm.table = t
	return nil
}

// execFilter is the scalar fallback: for each row, run the bytecode and
// keep the row iff the result is truthy (§4.4: Bool(true) keeps,
// Bool(false)/Null drops, Int64(x) keeps iff x != 0, anything else is a
// RuntimeError).
func (vm *VM) execFilter(op *plan.Filter) error {
	result := vm.table.EmptyLike()
	for row := 0; row < vm.table.NumRows; row++ {
		v, err := vm.evalExpr(op.Predicate, row)
		if err != nil {
			return err
		}
		keep, err := filterTruthy(v)
		if err != nil {
			return err
		}
		if keep {
			appendRow(result, vm.table, row)
		}
	}
	vm.table = result
	return nil
}

func filterTruthy(v value) (bool, error) {
	switch {
	case v.isNull():
		return false, nil
	case v.isBool():
		return v.b, nil
	case v.isInt():
		return v.i != 0, nil
	default:
		return false, joyerrors.Runtime("filter predicate must return boolean", nil)
	}
}

// execVectorizedFilter is the column-at-a-time fast path for a single
// `column ⊕ literal` comparison. An empty input table is a no-op.
func (vm *VM) execVectorizedFilter(op *plan.VectorizedFilter) error {
	if vm.table.NumRows == 0 {
		return nil
	}
	col, ok := vm.table.Column(op.Condition.Column)
	if !ok {
		return joyerrors.Runtime("column not found: "+op.Condition.Column, nil)
	}
	sel, err := vectorizedCompare(col, op.Condition)
	if err != nil {
		return err
	}

	result := vm.table.EmptyLike()
	for row := 0; row < vm.table.NumRows; row++ {
		if sel[row] {
			appendRow(result, vm.table, row)
		}
	}
	vm.table = result
	return nil
}

func appendRow(dst, src *table.Table, row int) {
	for i, col := range src.Columns {
		dst.Columns[i].AppendFrom(col, row)
	}
	dst.NumRows++
}

func (vm *VM) execProject(op *plan.Project) error {
	t, err := vm.table.Project(op.Columns)
	if err != nil {
		return joyerrors.Runtime(err.Error(), err)
	}
	vm.table = t
	return nil
}

func (vm *VM) execWrite(op *plan.Write) error {
	return vm.writer.Write(op.Path, vm.table)
}

// execTransform is the scalar fallback for `transform col = expr`:
// infers the result element type from row 0 (or the first non-NULL row),
// defaulting to String if every row is NULL, then evaluates and appends
// every row with the original's type-coercion rules (Int64 accepts
// Double-truncated, Double accepts Int64-promoted, String/Bool require an
// exact match).
func (vm *VM) execTransform(op *plan.Transform) error {
	if vm.table.NumRows == 0 {
		return nil
	}

	firstVal, err := vm.evalExpr(op.Expression, 0)
	if err != nil {
		return err
	}
	typeSample := firstVal
	if typeSample.isNull() {
		for i := 1; i < vm.table.NumRows; i++ {
			v, err := vm.evalExpr(op.Expression, i)
			if err != nil {
				return err
			}
			if !v.isNull() {
				typeSample = v
				break
			}
		}
	}

	resultType, ok := elementTypeOf(typeSample)
	if !ok {
		resultType = table.String
	}

	newCol := table.NewColumn(op.Column, resultType)
	for i := 0; i < vm.table.NumRows; i++ {
		v := firstVal
		if i != 0 {
			v, err = vm.evalExpr(op.Expression, i)
			if err != nil {
				return err
			}
		}
		if v.isNull() {
			newCol.AppendNull()
			continue
		}
		if err := appendTransformValue(newCol, v); err != nil {
			return err
		}
	}

	replaceOrAppendColumn(vm.table, newCol)
	return nil
}

func appendTransformValue(col *table.Column, v value) error {
	switch col.Type {
	case table.Int64:
		switch {
		case v.isInt():
			col.AppendInt(v.i)
		case v.isDouble():
			col.AppendInt(int64(v.d))
		default:
			return joyerrors.Runtime("type mismatch in transform", nil)
		}
	case table.Double:
		switch {
		case v.isDouble():
			col.AppendDouble(v.d)
		case v.isInt():
			col.AppendDouble(float64(v.i))
		default:
			return joyerrors.Runtime("type mismatch in transform", nil)
		}
	case table.String:
		if !v.isString() {
			return joyerrors.Runtime("type mismatch in transform", nil)
		}
		col.AppendString(v.s)
	default: // Bool
		if !v.isBool() {
			return joyerrors.Runtime("type mismatch in transform", nil)
		}
		col.AppendBool(v.b)
	}
	return nil
}

func replaceOrAppendColumn(t *table.Table, col *table.Column) {
	for i, c := range t.Columns {
		if c.Name == col.Name {
			t.Columns[i] = col
			return
		}
	}
	t.Columns = append(t.Columns, col)
}

// execVectorizedTransform runs the column-at-a-time arithmetic fast path.
// The compiler's peephole already ruled out the case where a Double
// literal pairs with a column operand, but the actual element type of a
// column operand is only known here at runtime, so this still validates
// it and promotes the result to Double if either operand column is
// Double-typed (mirroring the original's actual_result_type computation).
func (vm *VM) execVectorizedTransform(op *plan.VectorizedTransform) error {
	var leftCol, rightCol *table.Column
	var ok bool
	if op.Left.IsColumn {
		leftCol, ok = vm.table.Column(op.Left.Column)
		if !ok {
			return joyerrors.Runtime("column not found: "+op.Left.Column, nil)
		}
	}
	if op.Right.IsColumn {
		rightCol, ok = vm.table.Column(op.Right.Column)
		if !ok {
			return joyerrors.Runtime("column not found: "+op.Right.Column, nil)
		}
	}
	for _, c := range []*table.Column{leftCol, rightCol} {
		if c != nil && c.Type != table.Int64 && c.Type != table.Double {
			return joyerrors.Runtime("cannot vectorize: non-numeric column in arithmetic transform", nil)
		}
	}

	resultType := table.Int64
	if op.ResultType == plan.ResultDouble {
		resultType = table.Double
	}
	if leftCol != nil && leftCol.Type == table.Double {
		resultType = table.Double
	}
	if rightCol != nil && rightCol.Type == table.Double {
		resultType = table.Double
	}

	var result *table.Column
	var err error

	switch {
	case op.Left.IsColumn && op.Right.IsColumn:
		if resultType == table.Int64 {
			if leftCol.Type != table.Int64 || rightCol.Type != table.Int64 {
				return joyerrors.Runtime("type mismatch in vectorized transform", nil)
			}
		}
		result, err = vecArith(op.Op, leftCol, rightCol, resultType)

	case op.Left.IsColumn && !op.Right.IsColumn:
		if resultType == table.Double && leftCol.Type != table.Double {
			return joyerrors.Runtime("cannot vectorize: INT64 column with DOUBLE scalar (needs type coercion)", nil)
		}
		scalar := literalToValue(op.Right.Literal)
		result, err = vecArithColumnScalar(op.Op, leftCol, scalar, resultType)

	case !op.Left.IsColumn && op.Right.IsColumn:
		if resultType == table.Double && rightCol.Type != table.Double {
			return joyerrors.Runtime("cannot vectorize: DOUBLE scalar with INT64 column (needs type coercion)", nil)
		}
		scalar := literalToValue(op.Left.Literal)
		result, err = vecArithScalarColumn(op.Op, scalar, rightCol, resultType)

	default:
		// Both operands literal (the compiler emits this shape for two
		// numeric literals): every row gets the same constant result.
		scalar := literalToValue(op.Left.Literal)
		other := literalToValue(op.Right.Literal)
		result = table.NewColumn("", resultType)
		for i := 0; i < vm.table.NumRows && err == nil; i++ {
			err = appendArithResult(result, op.Op, scalar, other)
		}
	}
	if err != nil {
		return err
	}

	result.Name = op.Column
	replaceOrAppendColumn(vm.table, result)
	return nil
}

func literalToValue(lit plan.Literal) value {
	if lit.Type == table.Double {
		return doubleValue(lit.DoubleVal)
	}
	return intValue(lit.IntVal)
}

// execVectorizedTernaryTransform runs the condition's vectorized
// comparison kernel, materializes the true/false branch columns (copying
// an existing column or filling a constant), then blends them per the
// selection vector.
func (vm *VM) execVectorizedTernaryTransform(op *plan.VectorizedTernaryTransform) error {
	condCol, ok := vm.table.Column(op.Condition.Column)
	if !ok {
		return joyerrors.Runtime("column not found: "+op.Condition.Column, nil)
	}
	sel, err := vectorizedCompare(condCol, op.Condition)
	if err != nil {
		return err
	}

	resultType := resultElementType(op.ResultType)
	numRows := vm.table.NumRows

	trueCol, err := vm.materializeOperand(op.TrueBranch, resultType, numRows)
	if err != nil {
		return err
	}
	falseCol, err := vm.materializeOperand(op.FalseBranch, resultType, numRows)
	if err != nil {
		return err
	}

	result := vecSelect(sel, trueCol, falseCol, resultType)
	result.Name = op.Column
	replaceOrAppendColumn(vm.table, result)
	return nil
}

func (vm *VM) materializeOperand(o plan.Operand, resultType table.ElementType, numRows int) (*table.Column, error) {
	if o.IsColumn {
		col, ok := vm.table.Column(o.Column)
		if !ok {
			return nil, joyerrors.Runtime("column not found: "+o.Column, nil)
		}
		if col.Type != resultType {
			return nil, joyerrors.Runtime("type mismatch in vectorized ternary transform: column "+o.Column+" is "+col.Type.String()+", result is "+resultType.String(), nil)
		}
		return col, nil
	}
	return constColumn(o.Literal, resultType, numRows), nil
}

func resultElementType(rt plan.ResultType) table.ElementType {
	switch rt {
	case plan.ResultDouble:
		return table.Double
	case plan.ResultString:
		return table.String
	default:
		return table.Int64
	}
}
