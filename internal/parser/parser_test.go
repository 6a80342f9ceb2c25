package parser

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/pjakhullar/Joy/internal/ast"
	"github.com/pjakhullar/Joy/internal/lexer"
)

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	tokens := lexer.New(source).Tokenize()
	prog, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", source, err)
	}
	return prog
}

func TestParseProgram_Statements(t *testing.T) {
	prog := mustParse(t, `from "in.csv" filter age > 30 select name,age write "out.csv"`)

	if len(prog.Statements) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(prog.Statements))
	}

	from, ok := prog.Statements[0].(*ast.From)
	if !ok || from.Path != "in.csv" {
		t.Errorf("statement 0 = %#v, want From{in.csv}", prog.Statements[0])
	}

	filter, ok := prog.Statements[1].(*ast.Filter)
	if !ok {
		t.Fatalf("statement 1 is not *ast.Filter: %#v", prog.Statements[1])
	}
	wantCond := &ast.BinaryExpr{
		Op:    ast.Gt,
		Left:  &ast.ColumnRef{Name: "age"},
		Right: &ast.Literal{Type: ast.TypeInt, IntVal: 30},
	}
	if !reflect.DeepEqual(filter.Condition, wantCond) {
		t.Errorf("filter condition = %#v, want %#v", filter.Condition, wantCond)
	}

	sel, ok := prog.Statements[2].(*ast.Select)
	if !ok || !reflect.DeepEqual(sel.Columns, []string{"name", "age"}) {
		t.Errorf("statement 2 = %#v, want Select{name,age}", prog.Statements[2])
	}

	write, ok := prog.Statements[3].(*ast.Write)
	if !ok || write.Path != "out.csv" {
		t.Errorf("statement 3 = %#v, want Write{out.csv}", prog.Statements[3])
	}
}

func TestParseExpr_Precedence(t *testing.T) {
	tests := []struct {
		source string
		want   ast.Expr
	}{
		{
			// Multiplication binds tighter than addition.
			source: "1 + 2 * 3",
			want: &ast.BinaryExpr{
				Op:   ast.Add,
				Left: &ast.Literal{Type: ast.TypeInt, IntVal: 1},
				Right: &ast.BinaryExpr{
					Op:    ast.Mul,
					Left:  &ast.Literal{Type: ast.TypeInt, IntVal: 2},
					Right: &ast.Literal{Type: ast.TypeInt, IntVal: 3},
				},
			},
		},
		{
			// Comparison binds looser than arithmetic.
			source: "x + 1 > 2",
			want: &ast.BinaryExpr{
				Op: ast.Gt,
				Left: &ast.BinaryExpr{
					Op:    ast.Add,
					Left:  &ast.ColumnRef{Name: "x"},
					Right: &ast.Literal{Type: ast.TypeInt, IntVal: 1},
				},
				Right: &ast.Literal{Type: ast.TypeInt, IntVal: 2},
			},
		},
		{
			// Unary minus over primary.
			source: "-x",
			want: &ast.UnaryExpr{
				Op:      ast.Neg,
				Operand: &ast.ColumnRef{Name: "x"},
			},
		},
		{
			// Parenthesized grouping overrides precedence.
			source: "(1 + 2) * 3",
			want: &ast.BinaryExpr{
				Op: ast.Mul,
				Left: &ast.BinaryExpr{
					Op:    ast.Add,
					Left:  &ast.Literal{Type: ast.TypeInt, IntVal: 1},
					Right: &ast.Literal{Type: ast.TypeInt, IntVal: 2},
				},
				Right: &ast.Literal{Type: ast.TypeInt, IntVal: 3},
			},
		},
		{
			// Ternary binds looser than equality.
			source: "a == b ? 1 : 2",
			want: &ast.TernaryExpr{
				Cond: &ast.BinaryExpr{
					Op:    ast.Eq,
					Left:  &ast.ColumnRef{Name: "a"},
					Right: &ast.ColumnRef{Name: "b"},
				},
				TrueBranch:  &ast.Literal{Type: ast.TypeInt, IntVal: 1},
				FalseBranch: &ast.Literal{Type: ast.TypeInt, IntVal: 2},
			},
		},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			tokens := lexer.New("from \"x\" filter " + tt.source).Tokenize()
			prog, err := Parse(tokens)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.source, err)
			}
			filter := prog.Statements[1].(*ast.Filter)
			if !reflect.DeepEqual(filter.Condition, tt.want) {
				t.Errorf("parseExpr(%q) = %#v, want %#v", tt.source, filter.Condition, tt.want)
			}
		})
	}
}

func TestParseTransform(t *testing.T) {
	prog := mustParse(t, `from "x" transform flag = age >= 18`)
	tr, ok := prog.Statements[1].(*ast.Transform)
	if !ok {
		t.Fatalf("statement 1 is not *ast.Transform: %#v", prog.Statements[1])
	}
	if tr.Column != "flag" {
		t.Errorf("Column = %q, want flag", tr.Column)
	}
	want := &ast.BinaryExpr{
		Op:    ast.Gte,
		Left:  &ast.ColumnRef{Name: "age"},
		Right: &ast.Literal{Type: ast.TypeInt, IntVal: 18},
	}
	if !reflect.DeepEqual(tr.Expression, want) {
		t.Errorf("Expression = %#v, want %#v", tr.Expression, want)
	}
}

func TestParseProgram_MissingFromIsError(t *testing.T) {
	tokens := lexer.New(`filter age > 30`).Tokenize()
	if _, err := Parse(tokens); err == nil {
		t.Fatal("expected an error when program doesn't start with 'from'")
	}
}

func TestParseProgram_UnterminatedTernaryIsError(t *testing.T) {
	tokens := lexer.New(`from "x" filter a ? 1`).Tokenize()
	if _, err := Parse(tokens); err == nil {
		t.Fatal("expected an error for a ternary missing ':'")
	}
}
