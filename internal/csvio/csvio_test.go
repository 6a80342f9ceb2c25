package csvio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjakhullar/Joy/internal/table"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRead_InfersColumnTypes(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.csv", "name,age,score,active\nA,20,1.5,true\nB,35,2.25,false\n")

	c := New()
	tbl, err := c.Read(path)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.NumRows)

	name, ok := tbl.Column("name")
	require.True(t, ok)
	assert.Equal(t, table.String, name.Type)
	assert.Equal(t, []string{"A", "B"}, name.Strs)

	age, ok := tbl.Column("age")
	require.True(t, ok)
	assert.Equal(t, table.Int64, age.Type)
	assert.Equal(t, []int64{20, 35}, age.Ints)

	score, ok := tbl.Column("score")
	require.True(t, ok)
	assert.Equal(t, table.Double, score.Type)
	assert.Equal(t, []float64{1.5, 2.25}, score.Floats)

	active, ok := tbl.Column("active")
	require.True(t, ok)
	assert.Equal(t, table.Bool, active.Type)
	assert.Equal(t, []bool{true, false}, active.Bools)
}

func TestRead_EmptyCellIsNull(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.csv", "name,age\nA,20\nB,\n")

	tbl, err := New().Read(path)
	require.NoError(t, err)

	age, ok := tbl.Column("age")
	require.True(t, ok)
	assert.False(t, age.IsNull(0))
	assert.True(t, age.IsNull(1))
}

func TestRead_TrimsHeaderAndCellWhitespace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.csv", " name , age \n A , 20 \n")

	tbl, err := New().Read(path)
	require.NoError(t, err)

	_, ok := tbl.Column("name")
	require.True(t, ok, "header name should be trimmed")

	name, _ := tbl.Column("name")
	assert.Equal(t, "A", name.Strs[0])
}

func TestRead_MismatchedColumnCountIsError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.csv", "name,age\nA,20,extra\n")

	_, err := New().Read(path)
	assert.Error(t, err)
}

func TestRead_MissingFileIsError(t *testing.T) {
	_, err := New().Read(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestRead_TypeIsDecidedByFirstNonEmptyCellOnly(t *testing.T) {
	dir := t.TempDir()
	// "hello" is the first non-empty cell, so the column is String even
	// though a later cell ("42") would parse as an integer.
	path := writeFile(t, dir, "in.csv", "val\nhello\n42\n")

	tbl, err := New().Read(path)
	require.NoError(t, err)

	val, ok := tbl.Column("val")
	require.True(t, ok)
	assert.Equal(t, table.String, val.Type)
	assert.Equal(t, []string{"hello", "42"}, val.Strs)
}

func TestRead_ColumnOfAllEmptyCellsIsString(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.csv", "name,note\nA,\nB,\n")

	tbl, err := New().Read(path)
	require.NoError(t, err)

	note, ok := tbl.Column("note")
	require.True(t, ok)
	assert.Equal(t, table.String, note.Type)
	assert.True(t, note.IsNull(0))
	assert.True(t, note.IsNull(1))
}

func TestWriteThenRead_RoundTrips(t *testing.T) {
	name := table.NewColumn("name", table.String)
	name.AppendString("A")
	name.AppendNull()
	age := table.NewColumn("age", table.Int64)
	age.AppendInt(20)
	age.AppendInt(40)
	score := table.NewColumn("score", table.Double)
	score.AppendDouble(1.5)
	score.AppendDouble(2.0)
	active := table.NewColumn("active", table.Bool)
	active.AppendBool(true)
	active.AppendBool(false)
	in := table.New([]*table.Column{name, age, score, active}, 2)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	c := New()
	require.NoError(t, c.Write(path, in))

	out, err := c.Read(path)
	require.NoError(t, err)
	require.Equal(t, 2, out.NumRows)

	gotName, _ := out.Column("name")
	assert.False(t, gotName.IsNull(0))
	assert.Equal(t, "A", gotName.Strs[0])
	assert.True(t, gotName.IsNull(1))

	gotAge, _ := out.Column("age")
	assert.Equal(t, []int64{20, 40}, gotAge.Ints)

	gotScore, _ := out.Column("score")
	assert.Equal(t, []float64{1.5, 2.0}, gotScore.Floats)

	gotActive, _ := out.Column("active")
	assert.Equal(t, []bool{true, false}, gotActive.Bools)
}

func TestWrite_FormatsDoubleWithoutTrailingZeros(t *testing.T) {
	score := table.NewColumn("score", table.Double)
	score.AppendDouble(3.0)
	score.AppendDouble(2.5)
	in := table.New([]*table.Column{score}, 2)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, New().Write(path, in))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "3\n")
	assert.Contains(t, string(contents), "2.5\n")
}

func TestWrite_LeavesNoTempFileBehindOnSuccess(t *testing.T) {
	col := table.NewColumn("x", table.Int64)
	col.AppendInt(1)
	in := table.New([]*table.Column{col}, 1)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, New().Write(path, in))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.csv", entries[0].Name())
}
