package csvio

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/pjakhullar/Joy/internal/joyerrors"
	"github.com/pjakhullar/Joy/internal/table"
)

// Write serializes t to path as a header row followed by one
// comma-separated row per table row; NULL cells are empty fields, Bool
// cells are "true"/"false". The file is staged under a uuid-suffixed
// temp name in the same directory and renamed into place on success, so a
// failure mid-write never leaves a half-written file at path (though a
// crash between write and rename can still leave the temp file behind —
// §4.4.2 makes no full atomicity guarantee).
func (c *Collaborator) Write(path string, t *table.Table) error {
	tmpPath := path + "." + uuid.NewString() + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return joyerrors.IO("couldn't create output file", errors.Wrap(err, tmpPath))
	}

	if err := writeTable(f, t); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return joyerrors.IO("couldn't close output file", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return joyerrors.IO("couldn't rename output file into place", err)
	}
	return nil
}

func writeTable(f *os.File, t *table.Table) error {
	w := csv.NewWriter(f)

	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		return joyerrors.IO("couldn't write csv header row", err)
	}

	row := make([]string, len(t.Columns))
	for r := 0; r < t.NumRows; r++ {
		for i, col := range t.Columns {
			row[i] = formatCell(col, r)
		}
		if err := w.Write(row); err != nil {
			return joyerrors.IO("couldn't write csv row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return joyerrors.IO("couldn't flush csv writer", err)
	}
	return nil
}

func formatCell(col *table.Column, row int) string {
	if col.IsNull(row) {
		return ""
	}
	switch col.Type {
	case table.Int64:
		return strconv.FormatInt(col.Ints[row], 10)
	case table.Double:
		return strconv.FormatFloat(col.Floats[row], 'f', -1, 64)
	case table.Bool:
		if col.Bools[row] {
			return "true"
		}
		return "false"
	default:
		return col.Strs[row]
	}
}
