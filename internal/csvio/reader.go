// Package csvio is the CSV collaborator: it reads a delimited file into a
// columnar table and writes a table back out. Grounded on
// datasources/csv/execution.go and datasource.go's use of encoding/csv and
// github.com/pkg/errors, adapted for whole-column type inference rather
// than per-cell typing (§6.3 requires one type per column, not per value).
package csvio

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/pjakhullar/Joy/internal/joyerrors"
	"github.com/pjakhullar/Joy/internal/table"
)

// Collaborator implements vm.Reader and vm.Writer over the local
// filesystem.
type Collaborator struct{}

// New returns the default filesystem-backed CSV collaborator.
func New() *Collaborator {
	return &Collaborator{}
}

// Read loads path into a table, trimming header names, inferring one
// element type per column from its non-empty cells, and treating empty
// cells as NULL. A row with a different cell count than the header is an
// IOError.
func (c *Collaborator) Read(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, joyerrors.IO("couldn't open file", errors.Wrap(err, path))
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReaderSize(f, 64*1024))
	r.Comma = ','

	header, err := r.Read()
	if err != nil {
		return nil, joyerrors.IO("couldn't read csv header row", err)
	}

	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, joyerrors.IO("couldn't read csv row", err)
		}
		if len(row) != len(names) {
			return nil, joyerrors.IO("mismatched column count in csv row", nil)
		}
		rows = append(rows, row)
	}

	cols := make([]*table.Column, len(names))
	for i, name := range names {
		cellType := inferColumnType(rows, i)
		col := table.NewColumn(name, cellType)
		for _, row := range rows {
			if err := appendCell(col, strings.TrimSpace(row[i])); err != nil {
				return nil, err
			}
		}
		cols[i] = col
	}

	return table.New(cols, len(rows)), nil
}

// inferColumnType decides column idx's type from its first non-empty
// trimmed cell: Int64 if that cell parses as an integer, else Double if it
// parses as a double, else String — unless every non-empty cell in the
// column is exactly "true" or "false", in which case it is Bool.
func inferColumnType(rows [][]string, idx int) table.ElementType {
	first := ""
	sawAny := false
	allBoolLike := true
	for _, row := range rows {
		v := strings.TrimSpace(row[idx])
		if v == "" {
			continue
		}
		if !sawAny {
			first = v
		}
		sawAny = true
		if v != "true" && v != "false" {
			allBoolLike = false
		}
	}
	if !sawAny {
		return table.String
	}
	if _, err := strconv.ParseInt(first, 10, 64); err == nil {
		return table.Int64
	}
	if _, err := strconv.ParseFloat(first, 64); err == nil {
		return table.Double
	}
	if allBoolLike {
		return table.Bool
	}
	return table.String
}

func appendCell(col *table.Column, v string) error {
	if v == "" {
		col.AppendNull()
		return nil
	}
	switch col.Type {
	case table.Int64:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return joyerrors.IO("couldn't parse int64 cell", err)
		}
		col.AppendInt(n)
	case table.Double:
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return joyerrors.IO("couldn't parse double cell", err)
		}
		col.AppendDouble(d)
	case table.Bool:
		col.AppendBool(v == "true")
	default:
		col.AppendString(v)
	}
	return nil
}
