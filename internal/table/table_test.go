package table

import (
	"reflect"
	"testing"
)

func buildPeopleTable() *Table {
	name := NewColumn("name", String)
	name.AppendString("A")
	name.AppendString("B")

	age := NewColumn("age", Int64)
	age.AppendInt(20)
	age.AppendNull()

	return New([]*Column{name, age}, 2)
}

func TestColumn_AppendAndIsNull(t *testing.T) {
	age := NewColumn("age", Int64)
	age.AppendInt(10)
	age.AppendNull()
	age.AppendInt(30)

	if age.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", age.Len())
	}
	if age.IsNull(0) || age.IsNull(2) {
		t.Errorf("rows 0 and 2 should not be NULL")
	}
	if !age.IsNull(1) {
		t.Errorf("row 1 should be NULL")
	}
	if age.Ints[0] != 10 || age.Ints[2] != 30 {
		t.Errorf("Ints = %v, want [10 0 30]", age.Ints)
	}
}

func TestColumn_AppendFrom_PreservesNull(t *testing.T) {
	src := NewColumn("x", Int64)
	src.AppendInt(5)
	src.AppendNull()

	dst := NewColumn("x", Int64)
	dst.AppendFrom(src, 1)
	dst.AppendFrom(src, 0)

	if !dst.IsNull(0) {
		t.Errorf("row 0 should be NULL (copied from src's NULL row)")
	}
	if dst.IsNull(1) || dst.Ints[1] != 5 {
		t.Errorf("row 1 = (null=%v, val=%d), want (false, 5)", dst.IsNull(1), dst.Ints[1])
	}
}

func TestTable_ColumnLookup(t *testing.T) {
	tbl := buildPeopleTable()

	col, ok := tbl.Column("age")
	if !ok {
		t.Fatal("expected to find column 'age'")
	}
	if col.Type != Int64 {
		t.Errorf("age column type = %v, want Int64", col.Type)
	}

	if _, ok := tbl.Column("missing"); ok {
		t.Error("expected lookup of unknown column to fail")
	}
}

func TestTable_Project_PreservesOrder(t *testing.T) {
	tbl := buildPeopleTable()

	projected, err := tbl.Project([]string{"age", "name"})
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	if len(projected.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(projected.Columns))
	}
	if projected.Columns[0].Name != "age" || projected.Columns[1].Name != "name" {
		t.Errorf("column order = [%s %s], want [age name]",
			projected.Columns[0].Name, projected.Columns[1].Name)
	}
}

func TestTable_Project_MissingColumnIsError(t *testing.T) {
	tbl := buildPeopleTable()
	if _, err := tbl.Project([]string{"nope"}); err == nil {
		t.Error("expected Project of a missing column to return an error")
	}
}

func TestTable_EmptyLike_PreservesSchema(t *testing.T) {
	tbl := buildPeopleTable()
	empty := tbl.EmptyLike()

	if empty.NumRows != 0 {
		t.Errorf("NumRows = %d, want 0", empty.NumRows)
	}
	var gotNames []string
	for _, c := range empty.Columns {
		gotNames = append(gotNames, c.Name)
	}
	wantNames := []string{"name", "age"}
	if !reflect.DeepEqual(gotNames, wantNames) {
		t.Errorf("column names = %v, want %v", gotNames, wantNames)
	}
}
