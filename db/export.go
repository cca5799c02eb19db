package db

import (
	"encoding/csv"
	"io"
)

// ExportCSV writes the remaining rows of cur to w as CSV, preceded by a
// header of column names when header is set. Values are rendered with
// FormatValue except NULL, which is written as an empty field. It returns
// the number of rows written; the cursor is closed when it returns.
func ExportCSV(cur *Cursor, w io.Writer, header bool) (int, error) {
	cw := csv.NewWriter(w)

	if header {
		names, err := cur.ColumnNames()
		if err != nil {
			return 0, err
		}
		if err := cw.Write(names); err != nil {
			return 0, err
		}
	}

	n := 0
	it := cur.Iterator(nil, "")
	for _, row := range it.All() {
		record := make([]string, len(row))
		for i, v := range row {
			if v != nil {
				record[i] = FormatValue(v)
			}
		}
		if err := cw.Write(record); err != nil {
			_ = cur.Close()
			return n, err
		}
		n++
	}
	if err := it.Err(); err != nil {
		return n, err
	}

	cw.Flush()
	return n, cw.Error()
}
