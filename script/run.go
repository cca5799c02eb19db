package script

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nickyhof/ifxsql/db"
	"github.com/nickyhof/ifxsql/sql"
)

// Step is the outcome of one statement of a script.
type Step struct {
	Index  int // 1-based
	SQL    string
	Report db.Report
	Err    error
}

// RunOptions control how a script is executed.
type RunOptions struct {
	// ContinueOnError keeps going after a failed statement.
	ContinueOnError bool
	// Transaction wraps the script in Begin/Commit and rolls back when a
	// statement fails.
	Transaction bool
	// OnStep is called after every statement.
	OnStep func(Step)
}

// Summary reports a finished script run.
type Summary struct {
	Steps            []Step
	Failed           int
	ExecutionTimeSec float64
}

func (s Summary) Display(w io.Writer) {
	fmt.Fprintf(w, "%d statement(s), %d failed (%.3fs)\n", len(s.Steps), s.Failed, s.ExecutionTimeSec)
}

// Run splits script into statements and executes them in order on conn.
// It stops at the first failure unless ContinueOnError is set; the error
// returned names the failing statement.
func Run(conn *db.Connection, script string, opts RunOptions) (Summary, error) {
	start := time.Now()
	var summary Summary

	statements := sql.Split(script)
	if len(statements) == 0 {
		return summary, ErrEmptyScript
	}

	restore := false
	if opts.Transaction {
		auto, err := conn.AutoCommit()
		if err != nil {
			return summary, err
		}
		if err := conn.Begin(); err != nil {
			return summary, err
		}
		restore = auto
	}

	var first error
	for i, text := range statements {
		step := Step{Index: i + 1, SQL: text}
		step.Report, step.Err = db.Run(conn, text)
		summary.Steps = append(summary.Steps, step)
		if opts.OnStep != nil {
			opts.OnStep(step)
		}
		if step.Err == nil {
			continue
		}
		summary.Failed++
		if first == nil {
			first = fmt.Errorf("statement %d: %w", step.Index, step.Err)
		}
		if !opts.ContinueOnError {
			break
		}
	}

	if opts.Transaction {
		if first != nil {
			if err := conn.Rollback(); err != nil {
				first = errors.Join(first, err)
			}
		} else if err := conn.Commit(); err != nil {
			first = err
		}
		if restore {
			if err := conn.SetAutoCommit(true); err != nil {
				first = errors.Join(first, err)
			}
		}
	}

	summary.ExecutionTimeSec = time.Since(start).Seconds()
	return summary, first
}
