package db

import (
	"errors"
	"fmt"
	"io"
	"time"
)

type ResultType int

const (
	RowCountResultType ResultType = iota
	CursorResultType
)

// Result is what Execute returns: a RowCount or a *Cursor.
type Result interface {
	Type() ResultType
}

// RowCount is the number of rows a statement affected.
type RowCount int64

func (RowCount) Type() ResultType {
	return RowCountResultType
}

// Report is a fully consumed result that can be printed.
type Report interface {
	Display(w io.Writer)
}

type QueryResult struct {
	Columns          []string
	Types            []string
	Data             [][]any
	RecordsRead      int
	ExecutionTimeSec float64
}

type ExecResult struct {
	RowsAffected     int64
	ExecutionTimeSec float64
}

// Collect reads every remaining row of cur. The cursor is closed when
// Collect returns.
func Collect(cur *Cursor) (QueryResult, error) {
	start := time.Now()
	var result QueryResult

	names, err := cur.ColumnNames()
	if err != nil {
		return result, err
	}
	types, err := cur.ColumnTypes()
	if err != nil {
		return result, err
	}
	result.Columns = append([]string(nil), names...)
	result.Types = append([]string(nil), types...)

	it := cur.Iterator(nil, "")
	for _, row := range it.All() {
		result.Data = append(result.Data, row)
	}
	result.RecordsRead = len(result.Data)
	result.ExecutionTimeSec = time.Since(start).Seconds()
	if err := it.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// Run executes text on conn and consumes its result.
func Run(conn *Connection, text string) (Report, error) {
	start := time.Now()
	res, err := conn.Execute(text)
	if err != nil {
		return nil, err
	}

	switch r := res.(type) {
	case RowCount:
		return ExecResult{
			RowsAffected:     int64(r),
			ExecutionTimeSec: time.Since(start).Seconds(),
		}, nil
	case *Cursor:
		result, err := Collect(r)
		if err != nil {
			if cerr := r.Close(); cerr != nil && !errors.Is(cerr, ErrAlreadyClosed) {
				err = errors.Join(err, cerr)
			}
			return nil, err
		}
		result.ExecutionTimeSec = time.Since(start).Seconds()
		return result, nil
	}
	return nil, fmt.Errorf("unexpected result type %d", res.Type())
}

// formatDuration formats a duration in human-readable form
func formatDuration(secs float64) string {
	if secs < 0.001 {
		return "<1ms"
	} else if secs < 0.01 {
		return fmt.Sprintf("%dms", int(secs*1000))
	} else if secs < 1 {
		ms := secs * 1000
		if ms < 10 {
			return fmt.Sprintf("%.1fms", ms)
		}
		return fmt.Sprintf("%dms", int(ms))
	} else if secs < 60 {
		if secs < 10 {
			return fmt.Sprintf("%.1fs", secs)
		}
		return fmt.Sprintf("%ds", int(secs))
	} else {
		mins := int(secs / 60)
		remainSecs := int(secs) % 60
		if remainSecs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm%ds", mins, remainSecs)
	}
}

func (result QueryResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

func (result ExecResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

// throughput renders a rate suffix such as ", 1.2K rows/s".
func throughput(n int, secs float64) string {
	if secs <= 0 || n <= 0 {
		return ""
	}
	rate := float64(n) / secs
	if rate >= 1000000 {
		return fmt.Sprintf(", %.1fM rows/s", rate/1000000)
	} else if rate >= 1000 {
		return fmt.Sprintf(", %.1fK rows/s", rate/1000)
	}
	return fmt.Sprintf(", %.0f rows/s", rate)
}

func (result QueryResult) Display(w io.Writer) {
	// Show data table first if there is data
	if len(result.Data) > 0 {
		data := NewTable(w)
		data.Header(result.Columns)
		for _, row := range result.Data {
			data.Values(row)
		}
		data.Render()
	}

	fmt.Fprintf(w, "%d rows (%s%s)\n", result.RecordsRead, result.ExecutionTime(),
		throughput(result.RecordsRead, result.ExecutionTimeSec))
}

func (result ExecResult) Display(w io.Writer) {
	if result.RowsAffected == 0 {
		fmt.Fprintf(w, "OK (%s)\n", result.ExecutionTime())
		return
	}
	fmt.Fprintf(w, "%d row(s) affected (%s)\n", result.RowsAffected, result.ExecutionTime())
}
